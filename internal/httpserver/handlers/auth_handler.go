package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"securerisk/internal/audit"
	"securerisk/internal/auth"
	"securerisk/internal/models"
	"securerisk/internal/store"
)

var validate = validator.New()

type registerReq struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=Admin Analyst Viewer"`
}

type authResp struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func Register(st *store.Store, rec *audit.Recorder, secret []byte, ttl time.Duration, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if err := validate.Struct(req); err != nil {
			respondError(w, http.StatusBadRequest, "username, password and a valid role are required")
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		u, err := st.InsertUser(req.Username, hash, models.Role(req.Role))
		if err != nil {
			if errors.Is(err, store.ErrDuplicateUsername) {
				respondError(w, http.StatusBadRequest, "username already taken")
				return
			}
			lg.Errorw("user insert failed", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to create user")
			return
		}
		tok, err := auth.Sign(secret, ttl, u)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}
		rec.Record(u.ID, "auth.register", map[string]any{"username": u.Username, "role": u.Role})
		respondJSON(w, http.StatusCreated, authResp{User: u, Token: tok})
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login deliberately reports one uniform error for unknown usernames
// and wrong passwords so account names cannot be enumerated.
func Login(st *store.Store, rec *audit.Recorder, secret []byte, ttl time.Duration, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		u, err := st.FindUserByUsername(strings.TrimSpace(req.Username))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			respondError(w, http.StatusBadRequest, "invalid credentials")
			return
		}
		tok, err := auth.Sign(secret, ttl, u)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}
		rec.Record(u.ID, "auth.login", nil)
		respondJSON(w, http.StatusOK, authResp{User: u, Token: tok})
	}
}
