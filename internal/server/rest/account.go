package rest

import (
	"net/http"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/go-chi/chi/v5"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountUpdateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type resetPasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type profileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *RESTServer) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	token, _, err := s.svc.Users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, messageResponse{Message: "user registered", Token: token})
}

func (s *RESTServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	token, err := s.svc.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "login successful", Token: token})
}

func (s *RESTServer) checkEmail(w http.ResponseWriter, r *http.Request) {
	exists, err := s.svc.Users.EmailExists(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (s *RESTServer) profile(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	user, err := s.svc.Users.Profile(r.Context(), caller)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profileResponse{Username: user.Username, Email: user.Email})
}

func (s *RESTServer) updateAccount(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	var req accountUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	user, err := s.svc.Users.UpdateProfile(r.Context(), caller, req.Username, req.Email)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profileResponse{Username: user.Username, Email: user.Email})
}

func (s *RESTServer) resetPassword(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}

	if err := s.svc.Users.ResetPassword(r.Context(), caller, req.OldPassword, req.NewPassword); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}

func (s *RESTServer) deleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	if err := s.svc.Users.DeleteAccount(r.Context(), caller); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "account deleted"})
}

func (s *RESTServer) listUsers(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	users, err := s.svc.Users.ListUsers(r.Context(), caller, r.URL.Query().Get("role"))
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (s *RESTServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		s.respondWithServiceError(w, r, common.ErrValidation)
		return
	}

	if err := s.svc.Users.DeleteUser(r.Context(), caller, id); err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messageResponse{Message: "user deleted"})
}

func (s *RESTServer) adminProfile(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())

	overview, err := s.svc.Admin.Overview(r.Context(), caller)
	if err != nil {
		s.respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, overview)
}
