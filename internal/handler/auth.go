package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/service"
	"github.com/creditosas/prestamo-engine/internal/session"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

type AuthHandler struct {
	users     *service.UserService
	sessions  *session.Manager
	validator *validator.Validate
}

func NewAuthHandler(users *service.UserService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		users:     users,
		sessions:  sessions,
		validator: validator.New(),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "username and password are required", err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		serviceError(w, err)
		return
	}

	token, err := h.sessions.Generate(user)
	if err != nil {
		response.InternalServerError(w, "could not start a session", err)
		return
	}

	h.sessions.SetCookie(w, token)
	response.Success(w, domain.LoginResponse{Username: user.Username, Role: user.Role})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	response.Success(w, map[string]string{"message": "signed out"})
}

// Me returns the identity behind the current session cookie.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "sign in to access this resource")
		return
	}
	response.Success(w, domain.LoginResponse{Username: identity.Username, Role: identity.Role})
}
