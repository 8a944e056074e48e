package handler

import (
	"net/http"

	"github.com/creditosas/prestamo-engine/internal/service"
	"github.com/creditosas/prestamo-engine/internal/session"
	"github.com/creditosas/prestamo-engine/pkg/response"
)

type DashboardHandler struct {
	portfolio *service.PortfolioService
}

func NewDashboardHandler(portfolio *service.PortfolioService) *DashboardHandler {
	return &DashboardHandler{portfolio: portfolio}
}

// Admin returns the whole active loan book with portfolio totals.
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolio.AdminSummary(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, summary)
}

// Collector returns the loans assigned to the signed-in collector.
func (h *DashboardHandler) Collector(w http.ResponseWriter, r *http.Request) {
	identity, ok := session.FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "sign in to access this resource")
		return
	}

	summary, err := h.portfolio.CollectorSummary(r.Context(), identity.UserID)
	if err != nil {
		serviceError(w, err)
		return
	}
	response.Success(w, summary)
}
