package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/service"
)

// stubClientRepo serves the lookup tests with a fixed set of clients.
type stubClientRepo struct {
	byCedula map[string]*domain.Client
}

func (s *stubClientRepo) Create(ctx context.Context, client *domain.Client) error { return nil }

func (s *stubClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return nil, sql.ErrNoRows
}

func (s *stubClientRepo) GetByCedula(ctx context.Context, cedula string) (*domain.Client, error) {
	if c, ok := s.byCedula[cedula]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubClientRepo) List(ctx context.Context) ([]*domain.Client, error) { return nil, nil }

func (s *stubClientRepo) Update(ctx context.Context, client *domain.Client) error { return nil }

func (s *stubClientRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubClientRepo) LoanCount(ctx context.Context, clientID uuid.UUID) (int, error) {
	return 0, nil
}

func lookupRouter() *mux.Router {
	repo := &stubClientRepo{byCedula: map[string]*domain.Client{
		"1012345678": {
			ID:        uuid.New(),
			Cedula:    "1012345678",
			FullName:  "Ana Torres",
			Phone:     "3001112233",
			Address:   "Calle 10 #4-25",
			CreatedAt: time.Now(),
		},
	}}
	h := NewClientHandler(service.NewClientService(repo))

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/clients/lookup/{cedula}", h.Lookup).Methods("GET")
	return router
}

func TestLookupHit(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/lookup/1012345678", nil)
	lookupRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	// The lookup payload keys are a fixed contract with the loan form.
	var data map[string]interface{}
	assert.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, true, data["encontrado"])
	assert.Equal(t, "Ana Torres", data["nombre_completo"])
	assert.Equal(t, "3001112233", data["telefono"])
	assert.Equal(t, "Calle 10 #4-25", data["direccion"])
}

func TestLookupMissIsNotAnError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/lookup/999999", nil)
	lookupRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, false, envelope.Data["encontrado"])
	assert.NotContains(t, envelope.Data, "nombre_completo")
}
