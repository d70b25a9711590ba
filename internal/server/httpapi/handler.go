package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
)

const (
	maxBodyBytes      = 64 << 10
	profileCollection = "profiles"
)

type createAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type createSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID        string    `json:"$id"`
	CreatedAt time.Time `json:"$createdAt"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

type sessionResponse struct {
	ID        string    `json:"$id"`
	CreatedAt time.Time `json:"$createdAt"`
	UserID    string    `json:"userId"`
	Expire    time.Time `json:"expire"`
	Secret    string    `json:"secret"`
}

type errorResponse struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func toAccountResponse(a *models.Account) accountResponse {
	return accountResponse{ID: a.ID, CreatedAt: a.CreatedAt, Email: a.Email, Name: a.Name}
}

func (s *HTTPServer) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := s.accounts.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *HTTPServer) createEmailSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	grant, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        grant.Session.ID,
		CreatedAt: grant.Session.CreatedAt,
		UserID:    grant.Session.UserID,
		Expire:    grant.Session.Expires,
		Secret:    grant.Secret,
	})
}

func (s *HTTPServer) getAccount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAccountResponse(accountFrom(r.Context())))
}

func (s *HTTPServer) deleteCurrentSession(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Logout(r.Context(), sessionFrom(r.Context()).ID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) getProfile(w http.ResponseWriter, r *http.Request) {
	doc, err := s.profiles.Get(r.Context(), accountFrom(r.Context()).ID, chi.URLParam(r, "userID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeProfile(w, r, doc)
}

func (s *HTTPServer) patchProfile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "general_argument_invalid", "request body too large or unreadable")
		return
	}

	doc, err := s.profiles.Patch(r.Context(), accountFrom(r.Context()).ID, chi.URLParam(r, "userID"), body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeProfile(w, r, doc)
}

// writeProfile renders the stored fields plus the gateway metadata keys.
func (s *HTTPServer) writeProfile(w http.ResponseWriter, r *http.Request, doc *models.ProfileDocument) {
	fields := map[string]any{}
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &fields); err != nil {
			s.logger.Error(r.Context(), "stored profile is not an object", "user_id", doc.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "general_unknown", "internal error")
			return
		}
	}
	fields["$id"] = doc.UserID
	fields["$collectionId"] = profileCollection
	fields["$createdAt"] = doc.CreatedAt
	fields["$updatedAt"] = doc.UpdatedAt

	writeJSON(w, http.StatusOK, fields)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "general_argument_invalid", "invalid JSON body")
		return false
	}
	return true
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		writeError(w, http.StatusBadRequest, "general_argument_invalid", err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "user_invalid_credentials", "invalid credentials")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "user_unauthorized", "not allowed")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "document_not_found", "not found")
	case errors.Is(err, common.ErrorConflict):
		writeError(w, http.StatusConflict, "user_already_exists", "a user with the same email already exists")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "general_unknown", "internal error")
	}
}

func writeError(w http.ResponseWriter, code int, typ, msg string) {
	writeJSON(w, code, errorResponse{Message: msg, Type: typ, Code: code})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
