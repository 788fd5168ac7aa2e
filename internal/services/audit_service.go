package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"studentwallet/internal/logger"
	"studentwallet/internal/models"
)

// Audit actions and resource types.
const (
	AuditActionCreate  = "create"
	AuditActionUpdate  = "update"
	AuditActionDelete  = "delete"
	AuditActionDeposit = "deposit"

	AuditResourceTransaction  = "transaction"
	AuditResourceBudget       = "budget"
	AuditResourceGoal         = "savings_goal"
	AuditResourceNotification = "notification"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates an AuditServicer writing to the audit_logs table.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log stores a mutation record. Audit failures never fail the request, so
// errors are only logged.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	log := logger.Named("audit").With("user_id", userID, "action", action, "resource_type", resourceType, "resource_id", resourceID)

	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}
	if len(changes) > 0 {
		data, err := json.Marshal(changes)
		if err != nil {
			log.Warnw("Dropping unencodable audit changes", "error", err)
		} else {
			entry.Changes = string(data)
		}
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Errorw("Failed to write audit entry", "error", err)
	}
}
