package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/service"
	"github.com/creditosas/prestamo-engine/internal/session"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

type UserHandler struct {
	users     *service.UserService
	validator *validator.Validate
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{
		users:     users,
		validator: validator.New(),
	}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid user data", err)
		return
	}

	user, err := h.users.Create(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Created(w, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, users)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req domain.UpdateUserRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid user data", err)
		return
	}

	user, err := h.users.Update(r.Context(), id, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	identity, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "sign in to access this resource")
		return
	}

	if err := h.users.Delete(r.Context(), identity.UserID, id); err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "user deleted"})
}
