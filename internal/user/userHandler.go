package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	resp "github.com/mir2x/herpill-dashboard/internal/api"
	"github.com/mir2x/herpill-dashboard/internal/db"
	"github.com/mir2x/herpill-dashboard/internal/user/model/api"
	"github.com/mir2x/herpill-dashboard/internal/utils"

	requestApi "github.com/mir2x/herpill-dashboard/internal/request/model/api"
)

type handler struct {
	db     db.Storage
	secret string
	logger *zap.SugaredLogger
}

func NewHandler(db db.Storage, secret string, logger *zap.SugaredLogger) *handler {
	return &handler{db: db, secret: secret, logger: logger}
}

func (h *handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if _, isAuthed := utils.GetAdminID(r, h.secret); !isAuthed {
		resp.Write(w, http.StatusUnauthorized, resp.Fail("authorization required"))
	} else if page, limit, err := pageParams(r); err != nil {
		resp.Write(w, http.StatusBadRequest, resp.Fail(err.Error()))
	} else if users, total, err := h.db.GetUsers((page-1)*limit, limit); err != nil {
		h.logger.Errorf("get users failed: %v", err)
		resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to load users"))
	} else {
		apiUsers := make([]api.User, len(users))
		for i := range users {
			apiUsers[i] = users[i].ToAPI()
		}
		list := api.UserList{
			Users:      apiUsers,
			Page:       page,
			TotalPages: (total + limit - 1) / limit,
			Total:      total,
		}
		resp.Write(w, http.StatusOK, resp.OK(list))
	}
}

func (h *handler) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, isAuthed := utils.GetAdminID(r, h.secret); !isAuthed {
		resp.Write(w, http.StatusUnauthorized, resp.Fail("authorization required"))
	} else if user, err := h.db.GetUser(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			resp.Write(w, http.StatusNotFound, resp.Fail("user not found"))
		} else {
			h.logger.Errorf("get user failed: %v", err)
			resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to load user"))
		}
	} else {
		resp.Write(w, http.StatusOK, resp.OK(user.ToAPI()))
	}
}

// GetUserRequests lists one user's requests across both categories, newest
// first, for the profile drill-down view.
func (h *handler) GetUserRequests(w http.ResponseWriter, r *http.Request) {
	if _, isAuthed := utils.GetAdminID(r, h.secret); !isAuthed {
		resp.Write(w, http.StatusUnauthorized, resp.Fail("authorization required"))
	} else if requests, err := h.db.GetUserRequests(chi.URLParam(r, "id")); err != nil {
		h.logger.Errorf("get user requests failed: %v", err)
		resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to load requests"))
	} else {
		apiRequests := make([]requestApi.Request, len(requests))
		for i := range requests {
			apiRequests[i] = requests[i].ToAPI()
		}
		response := resp.OK(apiRequests)
		if len(apiRequests) == 0 {
			response.Message = "no requests found"
		}
		resp.Write(w, http.StatusOK, response)
	}
}

func pageParams(r *http.Request) (int, int, error) {
	page, limit := 1, 10
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return 0, 0, errors.New("page must be a positive number")
		}
		page = n
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			return 0, 0, errors.New("limit must be a positive number")
		}
		limit = n
	}
	return page, limit, nil
}
