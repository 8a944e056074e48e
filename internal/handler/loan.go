package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/service"
	"github.com/creditosas/prestamo-engine/internal/session"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

type LoanHandler struct {
	loans     *service.LoanService
	portfolio *service.PortfolioService
	validator *validator.Validate
}

func NewLoanHandler(loans *service.LoanService, portfolio *service.PortfolioService) *LoanHandler {
	return &LoanHandler{
		loans:     loans,
		portfolio: portfolio,
		validator: validator.New(),
	}
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "invalid loan data", err)
		return
	}

	identity, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "sign in to access this resource")
		return
	}

	detail, err := h.loans.Create(r.Context(), &req, identity.UserID)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.portfolio.InvalidateCache(r.Context())
	response.Created(w, detail)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	detail, err := h.loans.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, detail)
}

type reassignRequest struct {
	CollectorID uuid.UUID `json:"collector_id" validate:"required"`
}

func (h *LoanHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	var req reassignRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "collector_id is required", err)
		return
	}

	if err := h.loans.Reassign(r.Context(), id, req.CollectorID); err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "collector updated"})
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	if err := h.loans.Delete(r.Context(), id); err != nil {
		serviceError(w, err)
		return
	}

	h.portfolio.InvalidateCache(r.Context())
	response.Success(w, map[string]string{"message": "loan and installments deleted"})
}

func (h *LoanHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "installmentId")
	if !ok {
		return
	}

	inst, err := h.loans.PayInstallment(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.portfolio.InvalidateCache(r.Context())
	response.Success(w, inst)
}

func (h *LoanHandler) RevertInstallment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "installmentId")
	if !ok {
		return
	}

	inst, err := h.loans.RevertInstallment(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.portfolio.InvalidateCache(r.Context())
	response.Success(w, inst)
}
