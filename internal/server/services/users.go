// Package services contains server-side business logic. Services own
// validation, multi-step writes and event publishing; repositories stay
// plain SQL and the HTTP layer only maps requests and errors.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophledger/internal/common"
	"github.com/dmitrijs2005/gophledger/internal/dbx"
	"github.com/dmitrijs2005/gophledger/internal/logging"
	"github.com/dmitrijs2005/gophledger/internal/server/auth"
	"github.com/dmitrijs2005/gophledger/internal/server/models"
	"github.com/dmitrijs2005/gophledger/internal/server/repositories/repomanager"
)

// Registration is the payload accepted by Register.
type Registration struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// ProfileUpdate carries optional changes to the caller's profile. Nil
// fields are left untouched.
type ProfileUpdate struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// PreferencesUpdate carries optional changes to the caller's preferences.
type PreferencesUpdate struct {
	DefaultCurrency      *string `json:"default_currency"`
	Timezone             *string `json:"timezone"`
	NotificationsEnabled *bool   `json:"notification_enabled"`
	Theme                *string `json:"theme"`
	Language             *string `json:"language"`
}

// UserService handles registration, login and the caller's own profile
// and preferences.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	codec       *auth.TokenCodec
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	codec *auth.TokenCodec, logger logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher, codec: codec, logger: logger}
}

func (r Registration) validate() error {
	if err := checkLength("username", r.UserName, 3, 50); err != nil {
		return err
	}
	if err := checkEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	return nil
}

// Register creates an active user together with its default preferences.
// Taken usernames and emails are reported as common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, in Registration) (*models.User, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repomanager.Users(tx)

		if err := ensureAbsent(users.GetUserByLogin(ctx, in.UserName)); err != nil {
			return fmt.Errorf("username already registered: %w", err)
		}
		if err := ensureAbsent(users.GetByEmail(ctx, in.Email)); err != nil {
			return fmt.Errorf("email already registered: %w", err)
		}

		u, err := users.Create(ctx, &models.User{
			UserName:     in.UserName,
			Email:        in.Email,
			FullName:     in.FullName,
			PasswordHash: hash,
			IsActive:     true,
		})
		if err != nil {
			return err
		}

		if _, err := s.repomanager.Preferences(tx).Create(ctx, models.NewDefaultPreferences(u.ID)); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user", created.UserName)
	return created, nil
}

// ensureAbsent turns a successful lookup into ErrAlreadyExists and a
// not-found lookup into nil.
func ensureAbsent(_ *models.User, err error) error {
	switch {
	case err == nil:
		return common.ErrAlreadyExists
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return err
	}
}

// Login checks the credentials and returns a signed access token. Unknown
// users and wrong passwords both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrorUnauthorized
	}
	if !user.IsActive {
		return "", common.ErrInactive
	}

	token, err := s.codec.Issue(user.UserName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "user logged in", "user", user.UserName)
	return token, nil
}

// UpdateProfile applies in to user and persists it.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	users := s.repomanager.Users(s.db)
	updated := *user

	if in.Email != nil && *in.Email != user.Email {
		email := strings.TrimSpace(*in.Email)
		if err := checkEmail(email); err != nil {
			return nil, err
		}
		if err := ensureAbsent(users.GetByEmail(ctx, email)); err != nil {
			return nil, fmt.Errorf("email already registered: %w", err)
		}
		updated.Email = email
	}
	if in.FullName != nil {
		updated.FullName = *in.FullName
	}

	u, err := users.Update(ctx, &updated)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Preferences returns the user's preferences, creating the defaults if the
// row is missing.
func (s *UserService) Preferences(ctx context.Context, userID string) (*models.Preferences, error) {
	repo := s.repomanager.Preferences(s.db)

	p, err := repo.GetByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	s.logger.Warn(ctx, "preferences missing, creating defaults", "user_id", userID)
	return repo.Create(ctx, models.NewDefaultPreferences(userID))
}

// UpdatePreferences applies in on top of the current preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, in PreferencesUpdate) (*models.Preferences, error) {
	p, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DefaultCurrency != nil {
		code, err := normalizeCurrency(*in.DefaultCurrency, models.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		p.DefaultCurrency = code
	}
	if in.Timezone != nil {
		if err := checkLength("timezone", *in.Timezone, 1, 50); err != nil {
			return nil, err
		}
		p.Timezone = *in.Timezone
	}
	if in.NotificationsEnabled != nil {
		p.NotificationsEnabled = *in.NotificationsEnabled
	}
	if in.Theme != nil {
		if err := checkLength("theme", *in.Theme, 1, 20); err != nil {
			return nil, err
		}
		p.Theme = *in.Theme
	}
	if in.Language != nil {
		if err := checkLength("language", *in.Language, 1, 10); err != nil {
			return nil, err
		}
		p.Language = *in.Language
	}

	updated, err := s.repomanager.Preferences(s.db).Update(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "preferences updated", "user_id", userID)
	return updated, nil
}
