package service

import (
	"context"
	"errors"
	"fmt"

	"pathfinder/guide-api/internal/model"
	"pathfinder/guide-api/pkg/security"
	"pathfinder/guide-api/pkg/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthService struct {
	db     *gorm.DB
	hasher *security.PasswordHasher
	tokens *security.TokenIssuer
	mailer Mailer // nil when mail is disabled
}

func NewAuthService(db *gorm.DB, h *security.PasswordHasher, t *security.TokenIssuer, m Mailer) *AuthService {
	return &AuthService{
		db:     db,
		hasher: h,
		tokens: t,
		mailer: m,
	}
}

// Register creates a user together with its empty profile and returns
// the user and a fresh identity token. Both rows are written in one
// transaction so a user never exists without a profile.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", validationError("email and password required")
	}

	if err := validators.EmailValidator(email); err != nil {
		return nil, "", validationError("%s", err.Error())
	}

	if err := validators.PasswordValidator(password); err != nil {
		return nil, "", validationError("%s", err.Error())
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password, %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return newError(ErrConflict, "email already exists")
		}

		if err := tx.Create(user).Error; err != nil {
			// Lost a race against a concurrent registration
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(ErrConflict, "email already exists")
			}
			return err
		}

		return tx.Create(&model.Profile{UserID: user.ID}).Error
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("failed to create user, %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token, %w", err)
	}

	if s.mailer != nil {
		go func(name, to string) {
			if err := s.mailer.SendWelcome(name, to); err != nil {
				zap.L().Warn("Failed to send welcome mail", zap.Uint("userID", user.ID), zap.Error(err))
			}
		}(user.Name, user.Email)
	}

	return user, token, nil
}

// Login checks the credentials and returns a fresh identity token. Unknown
// emails and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	invalid := newError(ErrAuth, "invalid credentials")

	if email == "" || password == "" {
		return nil, "", invalid
	}

	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", invalid
		}
		return nil, "", fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// A hash that can't be parsed never matches
		zap.L().Warn("Stored password hash is malformed", zap.Uint("userID", user.ID), zap.Error(err))
		return nil, "", invalid
	}

	if !ok {
		return nil, "", invalid
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token, %w", err)
	}

	return &user, token, nil
}

// CurrentUser resolves the subject of an already validated token.
func (s *AuthService) CurrentUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to look up user, %w", err)
	}

	return &user, nil
}
