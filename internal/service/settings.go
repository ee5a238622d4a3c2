package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/godilite/diagnostico/internal/settings"
)

// SettingsService exposes the product configuration.
type SettingsService struct {
	manager SettingsManager
	logger  *zap.Logger
}

// NewSettingsService creates a new SettingsService instance.
func NewSettingsService(manager SettingsManager, logger *zap.Logger) *SettingsService {
	if manager == nil {
		panic("manager must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &SettingsService{manager: manager, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context) (settings.Settings, error) {
	out, err := s.manager.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load settings", zap.Error(err))
		return settings.Settings{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return out, nil
}

// Update validates and saves in, returning the stored form.
func (s *SettingsService) Update(ctx context.Context, in settings.Settings) (settings.Settings, error) {
	out, err := s.manager.Save(ctx, in)
	return s.saved(out, err)
}

// Reset restores the defaults.
func (s *SettingsService) Reset(ctx context.Context) (settings.Settings, error) {
	out, err := s.manager.Reset(ctx)
	return s.saved(out, err)
}

func (s *SettingsService) saved(out settings.Settings, err error) (settings.Settings, error) {
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, settings.ErrInvalid):
		return settings.Settings{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		s.logger.Error("failed to save settings", zap.Error(err))
		return settings.Settings{}, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}
