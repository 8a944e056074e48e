package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/creditosas/prestamo-engine/internal/domain"
)

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, cedula, full_name, address, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Cedula,
		client.FullName,
		client.Address,
		client.Phone,
		client.CreatedAt,
	)

	return err
}

func (r *clientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT id, cedula, full_name, address, phone, created_at
		FROM clients
		WHERE id = $1
	`

	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) GetByCedula(ctx context.Context, cedula string) (*domain.Client, error) {
	query := `
		SELECT id, cedula, full_name, address, phone, created_at
		FROM clients
		WHERE cedula = $1
	`

	var client domain.Client
	if err := r.db.GetContext(ctx, &client, query, cedula); err != nil {
		return nil, err
	}

	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, cedula, full_name, address, phone, created_at
		FROM clients
		ORDER BY full_name
	`

	var clients []*domain.Client
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET cedula = $2, full_name = $3, address = $4, phone = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Cedula,
		client.FullName,
		client.Address,
		client.Phone,
	)

	return err
}

func (r *clientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}

func (r *clientRepository) LoanCount(ctx context.Context, clientID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM loans WHERE client_id = $1`, clientID)
	return count, err
}
