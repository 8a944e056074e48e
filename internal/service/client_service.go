package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/repository"
	apperrors "github.com/creditosas/prestamo-engine/pkg/errors"
)

type ClientService struct {
	clients repository.ClientRepository
}

func NewClientService(clients repository.ClientRepository) *ClientService {
	return &ClientService{clients: clients}
}

func (s *ClientService) Create(ctx context.Context, req *domain.CreateClientRequest) (*domain.Client, error) {
	existing, err := s.clients.GetByCedula(ctx, req.Cedula)
	if err == nil && existing != nil {
		return nil, apperrors.WrapDuplicateCedula(req.Cedula)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapDatabaseError(err)
	}

	client := &domain.Client{
		ID:        uuid.New(),
		Cedula:    req.Cedula,
		FullName:  req.FullName,
		Address:   req.Address,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.WrapClientNotFound(id.String())
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return clients, nil
}

// Lookup resolves a cedula for the client search endpoint. A miss is not an
// error: the response simply reports encontrado=false.
func (s *ClientService) Lookup(ctx context.Context, cedula string) (*domain.ClientLookupResponse, error) {
	client, err := s.clients.GetByCedula(ctx, cedula)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.ClientLookupResponse{Found: false}, nil
	}
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	return &domain.ClientLookupResponse{
		Found:    true,
		FullName: client.FullName,
		Phone:    client.Phone,
		Address:  client.Address,
	}, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *domain.CreateClientRequest) (*domain.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// The cedula may change, but never onto another client's.
	if req.Cedula != client.Cedula {
		other, err := s.clients.GetByCedula(ctx, req.Cedula)
		if err == nil && other != nil {
			return nil, apperrors.WrapDuplicateCedula(req.Cedula)
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.WrapDatabaseError(err)
		}
	}

	client.Cedula = req.Cedula
	client.FullName = req.FullName
	client.Address = req.Address
	client.Phone = req.Phone

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	client, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.clients.LoanCount(ctx, id)
	if err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	if count > 0 {
		return apperrors.WrapClientHasLoans(client.Cedula)
	}

	if err := s.clients.Delete(ctx, id); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}
