package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/hackgods/clinic-admin/internal/auth"
	"github.com/hackgods/clinic-admin/internal/clinic"
)

func loginHandler(local *auth.Local) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds clinic.Credentials
		if !decodeBody(w, r, &creds) {
			return
		}
		if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		res, err := local.Login(r.Context(), creds)
		if err != nil {
			handleError(w, r, err)
			return
		}
		log.Printf("login: user_id=%d request_id=%s", res.User.ID, GetRequestID(r.Context()))
		writeSuccess(w, http.StatusOK, res, "login successful")
	}
}

func registerHandler(local *auth.Local) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clinic.RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}

		id, err := local.Register(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusCreated, id, "user registered")
	}
}

// logoutHandler revokes the bearer token the request was authenticated with.
func logoutHandler(issuer *auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := issuer.Revoke(bearerToken(r.Context())); err != nil {
			handleError(w, r, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil, "logged out")
	}
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		handleError(w, r, clinic.ErrUnauthorized)
		return
	}
	writeSuccess(w, http.StatusOK, clinic.Identity{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, "")
}
