package permissions

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	apperrors "goaround-bot/internal/errors"
)

func newTestController() *PermissionController {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewController([]int64{7}, logger)
}

func TestAccessType(t *testing.T) {
	ctrl := newTestController()

	if got := ctrl.GetAccessType(7); got != Admin {
		t.Fatalf("expected admin, got %s", got)
	}
	if got := ctrl.GetAccessType(42); got != User {
		t.Fatalf("expected user, got %s", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	ctrl := newTestController()

	if err := ctrl.RequireAdmin(7); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}

	err := ctrl.RequireAdmin(42)
	var permErr *apperrors.PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if permErr.UserID != 42 || permErr.Required != "admin" {
		t.Fatalf("unexpected error fields: %+v", permErr)
	}
}
