package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/contactbook/internal/server/services"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (s *HTTPServer) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.UserName)
	writeData(w, http.StatusCreated, newUserResource(user))
}

func (s *HTTPServer) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := newUserResource(user)
	res.Token = user.Token
	writeData(w, http.StatusOK, res)
}

func (s *HTTPServer) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, newUserResource(currentUser(r)))
}

func (s *HTTPServer) updateCurrentUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.UpdateCurrent(r.Context(), currentUser(r).ID, services.UpdateUserInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, newUserResource(user))
}

func (s *HTTPServer) logoutUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), currentUser(r).ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, true)
}
