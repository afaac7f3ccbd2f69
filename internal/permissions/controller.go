package permissions

import (
	"github.com/sirupsen/logrus"

	apperrors "goaround-bot/internal/errors"
)

// AccessType represents the access level of a user
type AccessType int

const (
	// User represents regular access to the bot
	User AccessType = iota
	// Admin represents access to bot-wide settings
	Admin
)

// String returns the access level name
func (a AccessType) String() string {
	if a == Admin {
		return "admin"
	}
	return "user"
}

// PermissionController manages user permissions
type PermissionController struct {
	adminIDs map[int64]bool
	logger   *logrus.Logger
}

// NewController creates a new permission controller
func NewController(adminIDs []int64, logger *logrus.Logger) *PermissionController {
	adminIDMap := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		adminIDMap[id] = true
	}

	logger.Infof("Initialized permission controller with %d admins", len(adminIDs))

	return &PermissionController{
		adminIDs: adminIDMap,
		logger:   logger,
	}
}

// GetAccessType determines the access type of a user
func (p *PermissionController) GetAccessType(userID int64) AccessType {
	if p.IsAdmin(userID) {
		return Admin
	}
	return User
}

// IsAdmin checks if a user is an admin
func (p *PermissionController) IsAdmin(userID int64) bool {
	isAdmin := p.adminIDs[userID]
	p.logger.Debugf("Checking if user %d is admin: %v", userID, isAdmin)
	return isAdmin
}

// RequireAdmin returns a PermissionError unless the user is an admin
func (p *PermissionController) RequireAdmin(userID int64) error {
	if p.GetAccessType(userID) != Admin {
		return &apperrors.PermissionError{UserID: userID, Required: Admin.String()}
	}
	return nil
}
