package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/notify"
	"github.com/creditosas/prestamo-engine/internal/repository"
	apperrors "github.com/creditosas/prestamo-engine/pkg/errors"
)

// ReminderService sends WhatsApp reminders for installments that fell due
// yesterday and are still pending. One pass per scheduled invocation,
// best-effort: a failed send is logged and skipped, never retried.
type ReminderService struct {
	loans    repository.LoanRepository
	settings repository.SettingRepository
	sender   notify.Sender
	location *time.Location
}

func NewReminderService(
	loans repository.LoanRepository,
	settings repository.SettingRepository,
	sender notify.Sender,
	location *time.Location,
) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	return &ReminderService{
		loans:    loans,
		settings: settings,
		sender:   sender,
		location: location,
	}
}

// Run executes one reminder pass relative to now. It returns how many
// messages were delivered.
func (s *ReminderService) Run(ctx context.Context, now time.Time) (int, error) {
	local := now.In(s.location)
	yesterday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -1)

	candidates, err := s.loans.ListRemindersDueOn(ctx, yesterday)
	if err != nil {
		return 0, apperrors.WrapDatabaseError(err)
	}
	if len(candidates) == 0 {
		log.Info("no overdue installments to notify")
		return 0, nil
	}

	template, err := s.settings.Get(ctx, domain.SettingWhatsAppTemplate)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && template == "") {
		return 0, apperrors.WrapTemplateMissing()
	}
	if err != nil {
		return 0, apperrors.WrapDatabaseError(err)
	}

	log.WithField("count", len(candidates)).Info("sending overdue reminders")

	sent := 0
	for _, c := range candidates {
		logger := log.WithFields(log.Fields{
			"installment": c.InstallmentID,
			"client":      c.ClientName,
		})

		if c.Phone == "" {
			logger.Warn("client has no phone number, skipping")
			continue
		}

		message := renderTemplate(template, c)
		if err := s.sender.Send(ctx, c.Phone, message); err != nil {
			logger.WithError(err).Error("reminder send failed")
			continue
		}

		// Mark as notified so a later pass does not message them again.
		if err := s.loans.UpdateInstallmentStatus(ctx, c.InstallmentID,
			domain.InstallmentStatusNotified, nil); err != nil {
			logger.WithError(err).Error("marking installment notified")
			continue
		}

		logger.Info("reminder sent")
		sent++
	}

	return sent, nil
}

// renderTemplate fills the configured placeholders. The amount is shown
// without decimals, matching how the business quotes installments.
func renderTemplate(template string, c *domain.ReminderCandidate) string {
	message := strings.ReplaceAll(template, "[cliente]", c.ClientName)
	message = strings.ReplaceAll(message, "[monto_cuota]", c.Amount.Truncate(0).String())
	message = strings.ReplaceAll(message, "[fecha_vencimiento]", c.DueDate.Format("02/01/2006"))
	return message
}
