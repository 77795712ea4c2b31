package user

import (
	"context"
	"errors"

	"indiadoors-be/internal/auth"
	"indiadoors-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const pgUniqueViolation = "23505"

type Service interface {
	Register(ctx context.Context, username, email, phone, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, username, email, phone, password string) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
		zap.String("email", email),
	)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	id, err := s.repo.Create(ctx, &User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		UserType:     TypeCustomer,
		PasswordHash: string(hash),
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			log.Warn("duplicate registration attempt")
			return "", ErrEmailExists
		}
		log.Error("failed to create user", zap.Error(err))
		return "", err
	}

	return auth.GenerateToken(id, email, TypeCustomer)
}

func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(u.ID, u.Email, u.UserType)
}
