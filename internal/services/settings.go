package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/constants"
	"goaround-bot/internal/store"
)

// SettingsService holds bot-wide switches stored outside any user session
type SettingsService struct {
	store  store.Store
	logger *logrus.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(st store.Store, logger *logrus.Logger) *SettingsService {
	return &SettingsService{store: st, logger: logger}
}

// SearchEnabled reports the global search switch; an absent flag means disabled
func (s *SettingsService) SearchEnabled(ctx context.Context) (bool, error) {
	value, ok, err := s.store.HGet(ctx, constants.GlobalKey, constants.FieldSearchEnabled)
	if err != nil || !ok {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(value), constants.SearchEnabledValue), nil
}

// SetSearchEnabled writes the global search switch
func (s *SettingsService) SetSearchEnabled(ctx context.Context, enabled bool) error {
	value := constants.SearchDisabledValue
	if enabled {
		value = constants.SearchEnabledValue
	}
	if err := s.store.HSet(ctx, constants.GlobalKey, map[string]string{constants.FieldSearchEnabled: value}); err != nil {
		return err
	}
	s.logger.Infof("Search switch set to %s", value)
	return nil
}
