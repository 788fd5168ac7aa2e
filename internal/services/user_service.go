package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/models"
	"studentwallet/internal/platform"
)

// userService handles platform user records.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Upsert inserts the user or refreshes name and email on id conflict.
// Missing names and emails fall back to defaults; a random avatar is only
// assigned on first insert so it stays stable across logins.
func (s *userService) Upsert(profile UserProfile) (*models.User, error) {
	id := strings.TrimSpace(profile.ID)
	if id == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user id is required")
	}

	user := &models.User{
		ID:     id,
		Name:   strings.TrimSpace(profile.Name),
		Email:  strings.TrimSpace(profile.Email),
		Avatar: profile.Avatar,
		IsDev:  profile.IsDev,
	}
	if user.Name == "" {
		user.Name = platform.DefaultDisplayName
	}
	if user.Email == "" {
		user.Email = platform.DefaultEmail(id)
	}

	updateCols := []string{"name", "email", "is_dev", "updated_at"}
	if user.Avatar != "" {
		updateCols = append(updateCols, "avatar")
	} else {
		user.Avatar = randomAvatar()
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(updateCols),
	}).Create(user).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetByID(id)
}

// GetByID retrieves a user by platform id
func (s *userService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// Purge hard-deletes the user and everything they own. It runs when the
// user revokes the mini-app's access on the platform.
func (s *userService) Purge(id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&models.Transaction{},
			&models.Budget{},
			&models.SavingsGoal{},
			&models.Notification{},
			&models.AuditLog{},
		}
		for _, m := range owned {
			if err := tx.Unscoped().Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func randomAvatar() string {
	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", rand.Intn(70))
}
