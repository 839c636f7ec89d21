package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/logger"
	"biblioteca-backend/internal/repository"
	"biblioteca-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, nombre, email, password string) (*domain.User, string, error) {
	nombre = strings.TrimSpace(nombre)
	email = strings.TrimSpace(strings.ToLower(email))
	if nombre == "" || email == "" {
		return nil, "", fmt.Errorf("%w: nombre y email son requeridos", domain.ErrValidation)
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: la contraseña debe tener al menos 6 caracteres", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Nombre:       nombre,
		Email:        email,
		PasswordHash: string(hash),
		Rol:          domain.UserRoleUsuario,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	logger.Info("Usuario registrado", "usuario_id", user.ID, "email", email)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
