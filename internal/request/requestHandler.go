package request

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"github.com/mir2x/herpill-dashboard/internal/aggregate"
	resp "github.com/mir2x/herpill-dashboard/internal/api"
	"github.com/mir2x/herpill-dashboard/internal/db"
	"github.com/mir2x/herpill-dashboard/internal/request/model"
	"github.com/mir2x/herpill-dashboard/internal/request/model/api"
	"github.com/mir2x/herpill-dashboard/internal/utils"
)

type handler struct {
	db     db.Storage
	secret string
	logger *zap.SugaredLogger
}

func NewHandler(db db.Storage, secret string, logger *zap.SugaredLogger) *handler {
	return &handler{db: db, secret: secret, logger: logger}
}

func (h *handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	if _, isAuthed := utils.GetAdminID(r, h.secret); !isAuthed {
		resp.Write(w, http.StatusUnauthorized, resp.Fail("authorization required"))
	} else if category, err := model.ParseCategory(chi.URLParam(r, "type")); err != nil {
		resp.Write(w, http.StatusBadRequest, resp.Fail(err.Error()))
	} else if q, err := api.ParseListQuery(r.URL.Query()); err != nil {
		resp.Write(w, http.StatusBadRequest, resp.Fail(err.Error()))
	} else if requests, err := h.db.GetRequests(category); err != nil {
		h.logger.Errorf("get %v requests failed: %v", category, err)
		resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to load requests"))
	} else {
		filter, _ := aggregate.ParseFilter(q.Status)
		page := aggregate.Paginate(aggregate.GroupByUser(requests, filter), q.Page, q.Limit)
		list := toListAPI(page, aggregate.CountByFilter(requests))

		response := resp.OK(list)
		if len(requests) == 0 {
			response.Message = "no requests found"
		}
		resp.Write(w, http.StatusOK, response)
	}
}

func (h *handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	if _, isAuthed := utils.GetAdminID(r, h.secret); !isAuthed {
		resp.Write(w, http.StatusUnauthorized, resp.Fail("authorization required"))
	} else if category, err := model.ParseCategory(chi.URLParam(r, "type")); err != nil {
		resp.Write(w, http.StatusBadRequest, resp.Fail(err.Error()))
	} else if request, err := h.db.GetRequest(category, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, db.ErrRequestNotFound) {
			resp.Write(w, http.StatusNotFound, resp.Fail("request not found"))
		} else {
			h.logger.Errorf("get request failed: %v", err)
			resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to load request"))
		}
	} else {
		resp.Write(w, http.StatusOK, resp.OK(request.ToAPIWithUser()))
	}
}

func (h *handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var change api.StatusChange
	if _, isAuthed := utils.GetAdminID(r, h.secret); !isAuthed {
		resp.Write(w, http.StatusUnauthorized, resp.Fail("authorization required"))
	} else if category, err := model.ParseCategory(chi.URLParam(r, "type")); err != nil {
		resp.Write(w, http.StatusBadRequest, resp.Fail(err.Error()))
	} else if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		resp.Write(w, http.StatusBadRequest, resp.Fail(err.Error()))
	} else if err := change.Validate(); err != nil {
		resp.Write(w, http.StatusBadRequest, resp.Fail(err.Error()))
	} else if err := h.db.SetRequestStatus(category, chi.URLParam(r, "id"), statusOf(change)); err != nil {
		if errors.Is(err, db.ErrRequestNotFound) {
			resp.Write(w, http.StatusNotFound, resp.Fail("request not found"))
		} else if errors.Is(err, db.ErrRequestNotPending) {
			resp.Write(w, http.StatusConflict, resp.Fail("only pending requests can be accepted or declined"))
		} else {
			h.logger.Errorf("set status failed: %v", err)
			resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to update request"))
		}
	} else {
		msg := "request accepted"
		if change.Status == api.ActionDecline {
			msg = "request declined"
		}
		resp.Write(w, http.StatusOK, resp.Response{Success: true, Message: msg})
	}
}

func (h *handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	if _, isAuthed := utils.GetAdminID(r, h.secret); !isAuthed {
		resp.Write(w, http.StatusUnauthorized, resp.Fail("authorization required"))
	} else if category, err := model.ParseCategory(chi.URLParam(r, "type")); err != nil {
		resp.Write(w, http.StatusBadRequest, resp.Fail(err.Error()))
	} else if err := h.db.DeleteRequest(category, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, db.ErrRequestNotFound) {
			resp.Write(w, http.StatusNotFound, resp.Fail("request not found"))
		} else if errors.Is(err, db.ErrRequestNotDeletable) {
			resp.Write(w, http.StatusConflict, resp.Fail("only accepted or declined requests can be deleted"))
		} else {
			h.logger.Errorf("delete request failed: %v", err)
			resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to delete request"))
		}
	} else {
		resp.Write(w, http.StatusOK, resp.Response{Success: true, Message: "request deleted"})
	}
}

func statusOf(change api.StatusChange) model.ApprovalStatus {
	if change.Status == api.ActionDecline {
		return model.Declined
	}
	return model.Accepted
}

func toListAPI(page aggregate.Page, counts aggregate.Counts) api.RequestList {
	groups := make([]api.Group, len(page.Groups))
	for i, g := range page.Groups {
		requests := make([]api.Request, len(g.Requests))
		for j := range g.Requests {
			requests[j] = g.Requests[j].ToAPI()
		}
		groups[i] = api.Group{User: g.User.ToAPI(), Requests: requests}
	}
	return api.RequestList{
		Groups:      groups,
		Page:        page.Number,
		TotalPages:  page.TotalPages,
		TotalGroups: page.TotalGroups,
		Counts: api.TabCounts{
			Pending:   counts.Pending,
			Accepted:  counts.Accepted,
			Declined:  counts.Declined,
			Delivered: counts.Delivered,
		},
	}
}
