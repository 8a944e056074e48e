package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/repository"
	apperrors "github.com/creditosas/prestamo-engine/pkg/errors"
)

const adminSummaryCacheKey = "dashboard:admin"

// PortfolioService computes the dashboard metrics over the active loan
// book. The admin-wide summary is cached briefly in Redis because it walks
// every active loan's installments.
type PortfolioService struct {
	loans    repository.LoanRepository
	clients  repository.ClientRepository
	redis    *redis.Client
	cacheTTL time.Duration
}

func NewPortfolioService(
	loans repository.LoanRepository,
	clients repository.ClientRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
) *PortfolioService {
	return &PortfolioService{
		loans:    loans,
		clients:  clients,
		redis:    redisClient,
		cacheTTL: cacheTTL,
	}
}

// AdminSummary aggregates every active loan.
func (s *PortfolioService) AdminSummary(ctx context.Context) (*domain.PortfolioSummary, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	loans, err := s.loans.ListActive(ctx)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}

	summary, err := s.summarize(ctx, loans)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, summary)
	return summary, nil
}

// CollectorSummary aggregates the active loans assigned to one collector.
func (s *PortfolioService) CollectorSummary(ctx context.Context, collectorID uuid.UUID) (*domain.PortfolioSummary, error) {
	loans, err := s.loans.ListActiveByCollector(ctx, collectorID)
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err)
	}
	return s.summarize(ctx, loans)
}

func (s *PortfolioService) summarize(ctx context.Context, loans []*domain.Loan) (*domain.PortfolioSummary, error) {
	today := time.Now().UTC()
	disbursed := decimal.Zero
	collected := decimal.Zero
	rows := make([]*domain.LoanSummary, 0, len(loans))

	for _, loan := range loans {
		installments, err := s.loans.GetInstallments(ctx, loan.ID)
		if err != nil {
			return nil, apperrors.WrapDatabaseError(err)
		}
		client, err := s.clients.GetByID(ctx, loan.ClientID)
		if err != nil {
			return nil, apperrors.WrapDatabaseError(err)
		}

		loanCollected := domain.CollectedAmount(installments)
		disbursed = disbursed.Add(loan.Principal)
		collected = collected.Add(loanCollected)

		rows = append(rows, &domain.LoanSummary{
			LoanID:       loan.ID,
			ClientName:   client.FullName,
			Frequency:    loan.Frequency,
			Principal:    loan.Principal.StringFixed(2),
			TotalPayable: loan.TotalPayable.StringFixed(2),
			Collected:    loanCollected.StringFixed(2),
			Progress:     loan.ProgressPercent(installments),
			VisualStatus: loan.VisualStatus(installments, today),
		})
	}

	return &domain.PortfolioSummary{
		TotalDisbursed: disbursed.StringFixed(2),
		TotalCollected: collected.StringFixed(2),
		PendingBalance: disbursed.Sub(collected).StringFixed(2),
		ActiveLoans:    len(loans),
		Loans:          rows,
	}, nil
}

// InvalidateCache drops the cached admin summary after mutations.
func (s *PortfolioService) InvalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, adminSummaryCacheKey).Err(); err != nil {
		log.WithError(err).Warn("dropping dashboard cache")
	}
}

func (s *PortfolioService) fromCache(ctx context.Context) *domain.PortfolioSummary {
	if s.redis == nil || s.cacheTTL <= 0 {
		return nil
	}

	raw, err := s.redis.Get(ctx, adminSummaryCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).Warn("reading dashboard cache")
		}
		return nil
	}

	var summary domain.PortfolioSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		log.WithError(err).Warn("decoding dashboard cache")
		return nil
	}
	return &summary
}

func (s *PortfolioService) toCache(ctx context.Context, summary *domain.PortfolioSummary) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, adminSummaryCacheKey, raw, s.cacheTTL).Err(); err != nil {
		log.WithError(err).Warn("writing dashboard cache")
	}
}
