package models

import "time"

// SavingsGoal tracks progress towards a target amount
type SavingsGoal struct {
	Base
	UserID        string     `gorm:"size:64;not null;index" json:"user_id"`
	Name          string     `gorm:"not null" json:"name"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Color         string     `json:"color"`
}
