package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/walpass/health-tracker-app/models"
	"github.com/walpass/health-tracker-app/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates an account with a bcrypt-hashed password. Username and
// email must both be unused; the check and the insert run in one
// transaction so two concurrent registrations cannot both pass.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", models.ErrValidation)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleMember,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return storageErr(err)
		}
		if count > 0 {
			return fmt.Errorf("%w: username %q is taken", models.ErrConflict, username)
		}

		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return storageErr(err)
		}
		if count > 0 {
			return fmt.Errorf("%w: email %q is taken", models.ErrConflict, email)
		}

		if err := tx.Create(&user).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Login checks credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)
		}
		return "", nil, storageErr(err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}

	return token, &user, nil
}
