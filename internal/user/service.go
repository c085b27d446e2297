package user

import (
	"context"
	"errors"
	"fmt"

	"bookreview/internal/entity"
	"bookreview/internal/platform/crypto"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a regular user. Username and email must both be unused;
// email comparison ignores case.
func (s *Service) Register(ctx context.Context, in RegisterInput) (entity.User, error) {
	return s.create(ctx, in, false)
}

// CreateSuperuser creates a user allowed to delete books.
func (s *Service) CreateSuperuser(ctx context.Context, in RegisterInput) (entity.User, error) {
	return s.create(ctx, in, true)
}

func (s *Service) create(ctx context.Context, in RegisterInput, superuser bool) (entity.User, error) {
	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return entity.User{}, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return entity.User{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return entity.User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return entity.User{}, err
	}

	hashed, err := crypto.HashPassword(in.Password)
	if err != nil {
		return entity.User{}, fmt.Errorf("hash password: %w", err)
	}

	newUser := &entity.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    hashed,
		IsSuperuser: superuser,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return entity.User{}, err
	}
	return *newUser, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (entity.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (entity.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	return s.repo.GetByEmail(ctx, email)
}
