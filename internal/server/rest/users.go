package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/ideapool/internal/common"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	JWT          string `json:"jwt"`
	RefreshToken string `json:"refresh_token"`
}

type accessTokenResponse struct {
	JWT string `json:"jwt"`
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case statusFor(err) < http.StatusInternalServerError:
		return "rejected"
	default:
		return "error"
	}
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(r, &req)
	if err == nil {
		err = s.validate.Struct(req)
	}
	if err != nil {
		s.metrics.SessionEvent("register", outcome(err))
		s.writeError(w, r, err)
		return
	}

	pair, err := s.sessions.Register(r.Context(), req.Name, req.Email, req.Password)
	s.metrics.SessionEvent("register", outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "email", req.Email)
	writeJSON(w, http.StatusCreated, tokenPairResponse{JWT: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err == nil {
		err = s.validate.Struct(req)
	}
	if err != nil {
		s.metrics.SessionEvent("login", outcome(err))
		s.writeError(w, r, err)
		return
	}

	pair, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	s.metrics.SessionEvent("login", outcome(err))
	if err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) {
			s.logger.Warn(r.Context(), "Login failed", "email", req.Email)
		}
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenPairResponse{JWT: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	err := s.sessions.Logout(r.Context(), accessToken(r), req.RefreshToken)
	s.metrics.SessionEvent("logout", outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.sessions.Refresh(r.Context(), accessToken(r), req.RefreshToken)
	s.metrics.SessionEvent("refresh", outcome(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, accessTokenResponse{JWT: token})
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	profile, err := s.sessions.WhoAmI(r.Context(), accessToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
