package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/service"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

type ClientHandler struct {
	clients   *service.ClientService
	validator *validator.Validate
}

func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clients:   clients,
		validator: validator.New(),
	}
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid client data", err)
		return
	}

	client, err := h.clients.Create(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Created(w, client)
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, clients)
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}

	client, err := h.clients.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, client)
}

// Lookup answers the cedula search used by the loan form. The payload shape
// (encontrado / nombre_completo / telefono / direccion) is a fixed contract.
func (h *ClientHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	cedula := mux.Vars(r)["cedula"]

	result, err := h.clients.Lookup(r.Context(), cedula)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}

	var req domain.CreateClientRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid client data", err)
		return
	}

	client, err := h.clients.Update(r.Context(), id, &req)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}

	if err := h.clients.Delete(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "client deleted"})
}
