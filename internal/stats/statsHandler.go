package stats

import (
	"net/http"

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

type Stats struct {
	POP  api.TabCounts `json:"pop"`
	COCP api.TabCounts `json:"cocp"`
}

// GetStats reports the badge counts of every tab of both categories, computed
// over the full request lists independent of any pagination.
func (h *handler) GetStats(w http.ResponseWriter, r *http.Request) {
	if _, isAuthed := utils.GetAdminID(r, h.secret); !isAuthed {
		resp.Write(w, http.StatusUnauthorized, resp.Fail("authorization required"))
	} else if pop, err := h.db.GetRequests(model.POP); err != nil {
		h.logger.Errorf("get pop requests failed: %v", err)
		resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to load stats"))
	} else if cocp, err := h.db.GetRequests(model.COCP); err != nil {
		h.logger.Errorf("get cocp requests failed: %v", err)
		resp.Write(w, http.StatusInternalServerError, resp.Fail("failed to load stats"))
	} else {
		resp.Write(w, http.StatusOK, resp.OK(Stats{
			POP:  toTabCounts(aggregate.CountByFilter(pop)),
			COCP: toTabCounts(aggregate.CountByFilter(cocp)),
		}))
	}
}

func toTabCounts(c aggregate.Counts) api.TabCounts {
	return api.TabCounts{
		Pending:   c.Pending,
		Accepted:  c.Accepted,
		Declined:  c.Declined,
		Delivered: c.Delivered,
	}
}
