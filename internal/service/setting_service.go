package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/creditosas/prestamo-engine/internal/domain"
	"github.com/creditosas/prestamo-engine/internal/repository"
	apperrors "github.com/creditosas/prestamo-engine/pkg/errors"
)

// logoExtensions is the accepted set for logo uploads.
var logoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
}

type SettingService struct {
	settings  repository.SettingRepository
	uploadDir string
}

func NewSettingService(settings repository.SettingRepository, uploadDir string) *SettingService {
	return &SettingService{settings: settings, uploadDir: uploadDir}
}

// GetTemplate returns the configured WhatsApp template, falling back to the
// built-in default when none has been saved yet.
func (s *SettingService) GetTemplate(ctx context.Context) (string, error) {
	value, err := s.settings.Get(ctx, domain.SettingWhatsAppTemplate)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && value == "") {
		return domain.DefaultWhatsAppTemplate, nil
	}
	if err != nil {
		return "", apperrors.WrapDatabaseError(err)
	}
	return value, nil
}

func (s *SettingService) SetTemplate(ctx context.Context, value string) error {
	if err := s.settings.Set(ctx, domain.SettingWhatsAppTemplate, value); err != nil {
		return apperrors.WrapDatabaseError(err)
	}
	return nil
}

// SaveLogo stores an uploaded logo under the uploads dir, removing any
// previous logo file first so exactly one logo exists at a time.
func (s *SettingService) SaveLogo(ctx context.Context, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !logoExtensions[ext] {
		return "", apperrors.NewBusinessError(apperrors.ErrCodeValidation,
			fmt.Sprintf("logo extension %q not allowed", ext), nil)
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}

	previous, _ := filepath.Glob(filepath.Join(s.uploadDir, "logo.*"))
	for _, path := range previous {
		if err := os.Remove(path); err != nil {
			log.WithError(err).WithField("path", path).Warn("removing previous logo")
		}
	}

	name := "logo" + ext
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	if err := s.settings.Set(ctx, domain.SettingLogoFilename, name); err != nil {
		return "", apperrors.WrapDatabaseError(err)
	}

	return name, nil
}

// GetLogo returns the stored logo filename, empty when none was uploaded.
func (s *SettingService) GetLogo(ctx context.Context) (string, error) {
	value, err := s.settings.Get(ctx, domain.SettingLogoFilename)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.WrapDatabaseError(err)
	}
	return value, nil
}
