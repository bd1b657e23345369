package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	resp "github.com/mir2x/herpill-dashboard/internal/api"
	"github.com/mir2x/herpill-dashboard/internal/db"
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

type AuthData struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *handler) Register(w http.ResponseWriter, r *http.Request) {
	var authData AuthData
	if err := json.NewDecoder(r.Body).Decode(&authData); err != nil || authData.Login == "" || authData.Password == "" {
		var msg string
		if err != nil {
			msg = err.Error()
		} else if authData.Login == "" {
			msg = "login must be non empty"
		} else if authData.Password == "" {
			msg = "password must be non empty"
		}
		resp.Write(w, http.StatusBadRequest, resp.Fail(msg))
	} else if id, err := h.db.RegisterAdmin(authData.Login, authData.Password); err != nil {
		if errors.Is(err, db.ErrDuplicateLogin) {
			resp.Write(w, http.StatusConflict, resp.Fail("login already exist"))
		} else {
			h.logger.Errorf("register failed: %v", err)
			resp.Write(w, http.StatusInternalServerError, resp.Fail("internal error"))
		}
	} else if token, err := utils.GetJWTToken(id, h.secret); err != nil {
		h.logger.Errorf("token issue failed: %v", err)
		resp.Write(w, http.StatusInternalServerError, resp.Fail("internal error"))
	} else {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: token})
		resp.Write(w, http.StatusOK, resp.OK(nil))
	}
}

func (h *handler) Auth(w http.ResponseWriter, r *http.Request) {
	var authData AuthData
	if err := json.NewDecoder(r.Body).Decode(&authData); err != nil || authData.Login == "" || authData.Password == "" {
		var msg string
		if err != nil {
			msg = err.Error()
		} else if authData.Login == "" {
			msg = "login must be non empty"
		} else if authData.Password == "" {
			msg = "password must be non empty"
		}
		resp.Write(w, http.StatusBadRequest, resp.Fail(msg))
	} else if id, err := h.db.GetAdminByLoginPassword(authData.Login, authData.Password); err != nil {
		if errors.Is(err, db.ErrAdminNotFound) {
			resp.Write(w, http.StatusUnauthorized, resp.Fail("wrong login or password"))
		} else {
			h.logger.Errorf("login failed: %v", err)
			resp.Write(w, http.StatusInternalServerError, resp.Fail("internal error"))
		}
	} else if token, err := utils.GetJWTToken(id, h.secret); err != nil {
		h.logger.Errorf("token issue failed: %v", err)
		resp.Write(w, http.StatusInternalServerError, resp.Fail("internal error"))
	} else {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: token})
		resp.Write(w, http.StatusOK, resp.OK(nil))
	}
}
