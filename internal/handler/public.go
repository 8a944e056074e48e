package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/service"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

// PublicHandler serves the endpoints that need no session: the loan
// simulator and the client self-service status query.
type PublicHandler struct {
	loans     *service.LoanService
	validator *validator.Validate
}

func NewPublicHandler(loans *service.LoanService) *PublicHandler {
	return &PublicHandler{
		loans:     loans,
		validator: validator.New(),
	}
}

type simulationEntry struct {
	Number  int    `json:"number"`
	DueDate string `json:"due_date"`
	Amount  string `json:"amount"`
}

type simulationResponse struct {
	TotalPayable string            `json:"total_payable"`
	Count        int               `json:"count"`
	Installments []simulationEntry `json:"installments"`
}

// Simulate previews a schedule without creating anything.
func (h *PublicHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Term <= 0 || !req.Principal.IsPositive() {
		response.BadRequest(w, "principal and term must be positive", nil)
		return
	}

	entries, total := h.loans.Simulate(&req)

	out := simulationResponse{
		TotalPayable: total,
		Count:        len(entries),
		Installments: make([]simulationEntry, 0, len(entries)),
	}
	for _, e := range entries {
		out.Installments = append(out.Installments, simulationEntry{
			Number:  e.Number,
			DueDate: e.DueDate.Format("2006-01-02"),
			Amount:  e.Amount.StringFixed(2),
		})
	}
	response.Success(w, out)
}

// Status lets a client check their active loan by cedula.
func (h *PublicHandler) Status(w http.ResponseWriter, r *http.Request) {
	cedula := mux.Vars(r)["cedula"]
	if cedula == "" {
		response.BadRequest(w, "cedula is required", nil)
		return
	}

	detail, err := h.loans.StatusByCedula(r.Context(), cedula)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, detail)
}
