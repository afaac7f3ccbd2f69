package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"goaround-bot/internal/constants"
	"goaround-bot/internal/store"
)

// SessionService reads and writes the per-user session hash.
// Every write refreshes the sliding expiry of the whole record.
type SessionService struct {
	store  store.Store
	ttl    time.Duration
	logger *logrus.Logger
}

// NewSessionService creates a new session service
func NewSessionService(st store.Store, logger *logrus.Logger) *SessionService {
	return &SessionService{
		store:  st,
		ttl:    constants.SessionTTL,
		logger: logger,
	}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf(constants.SessionKeyFormat, userID)
}

// GetAttribute returns one session field of a user
func (s *SessionService) GetAttribute(ctx context.Context, userID int64, field string) (string, bool, error) {
	value, ok, err := s.store.HGet(ctx, sessionKey(userID), field)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s for user %d: %w", field, userID, err)
	}
	return value, ok, nil
}

// SetAttribute writes one session field of a user
func (s *SessionService) SetAttribute(ctx context.Context, userID int64, field, value string) error {
	if err := s.store.HSetTTL(ctx, sessionKey(userID), map[string]string{field: value}, s.ttl); err != nil {
		return fmt.Errorf("failed to write %s for user %d: %w", field, userID, err)
	}
	s.logger.Debugf("Set %s for user %d", field, userID)
	return nil
}

// DeleteAttribute removes one session field of a user
func (s *SessionService) DeleteAttribute(ctx context.Context, userID int64, field string) error {
	key := sessionKey(userID)
	if err := s.store.HDel(ctx, key, field); err != nil {
		return fmt.Errorf("failed to delete %s for user %d: %w", field, userID, err)
	}
	if err := s.store.Expire(ctx, key, s.ttl); err != nil {
		return fmt.Errorf("failed to refresh session of user %d: %w", userID, err)
	}
	s.logger.Debugf("Cleared %s for user %d", field, userID)
	return nil
}
