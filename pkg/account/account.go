package account

import (
	"context"
	"strings"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
	"github.com/example/retailshop/pkg/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type Service struct {
	store  *repository.Store
	logger *zap.Logger
	cost   int
}

func NewService(store *repository.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger.Named("account"), cost: bcrypt.DefaultCost}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string, admin bool) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.InvalidArgument("username is required")
	}
	if len(password) < minPasswordLen {
		return nil, apperr.InvalidArgument("password must be at least %d characters", minPasswordLen)
	}

	_, err := s.store.FindUserByName(ctx, username)
	switch {
	case err == nil:
		return nil, apperr.Duplicate("user %q already exists", username)
	case !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.InvalidArgument("password cannot be hashed: %v", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash), IsAdmin: admin}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID), zap.Bool("admin", admin))
	return user, nil
}

// Authenticate returns the user whose credentials match. Unknown users and
// wrong passwords are both reported as AuthFailure.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.FindUserByName(ctx, username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.AuthFailure("invalid username or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.AuthFailure("invalid username or password")
	}
	return user, nil
}

func (s *Service) User(ctx context.Context, id string) (*models.User, error) {
	return s.store.FindUserByID(ctx, id)
}
