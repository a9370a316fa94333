package repository

import (
	"context"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.conn(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return apperr.Duplicate("user %q already exists", user.Username)
		}
		return apperr.Persistence(err, "failed to create user")
	}
	return nil
}

func (s *Store) FindUserByName(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.conn(ctx).Where("username_key = ?", models.NameKey(username)).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("user %q not found", username)
		}
		return nil, apperr.Persistence(err, "failed to get user")
	}
	return &user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("user %s not found", id)
		}
		return nil, apperr.Persistence(err, "failed to get user")
	}
	return &user, nil
}
