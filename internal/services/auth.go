package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"points-wallet/internal/domain/dto"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/lib/jwt"
	"points-wallet/internal/middlewares"
	"points-wallet/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	log            *slog.Logger
	authRepository AuthRepository
	redis          RedisClient
	jwtGen         *jwt.Generator
	initialPoints  int
}

type AuthRepository interface {
	SaveUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

type RedisClient interface {
	StoreRefreshToken(ctx context.Context, userID, refreshToken string) error
}

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrEmailAlreadyExists        = errors.New("email already exists")
	ErrFailedToGenerateTokens    = errors.New("failed to generate tokens")
	ErrFailedToStoreRefreshToken = errors.New("failed to store refresh token")
)

func NewAuthService(log *slog.Logger, authRepository AuthRepository, redis RedisClient,
	jwtGen *jwt.Generator, initialPoints int) *AuthService {
	return &AuthService{
		log:            log,
		authRepository: authRepository,
		redis:          redis,
		jwtGen:         jwtGen,
		initialPoints:  initialPoints,
	}
}

// Register creates a user with the starting balance.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (dto.UserDTO, error) {
	const op = "services.AuthService.Register"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if err := middlewares.CheckRegister(name, email, password); err != nil {
		return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: passHash,
		Points:   s.initialPoints,
	}

	if err := s.authRepository.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return dto.UserDTO{}, fmt.Errorf("%s: %w", op, ErrEmailAlreadyExists)
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return dto.UserDTO{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))

	return dto.UserDTO{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Points: user.Points,
	}, nil
}

// Login checks credentials and issues a token pair; the refresh token is
// parked in redis for its TTL.
func (s *AuthService) Login(ctx context.Context, email, password string) (accessToken string, refreshToken string,
	err error) {
	const op = "services.AuthService.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if err := middlewares.CheckInput(email, password); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.authRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to load user", slog.String("error", err.Error()))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		log.Info("invalid credentials")
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	accessToken, refreshToken, err = s.jwtGen.GeneratePair(user.ID.String())
	if err != nil {
		log.Error("failed to generate tokens", slog.String("error", err.Error()))
		return "", "", fmt.Errorf("%s: %w", op, ErrFailedToGenerateTokens)
	}

	if err := s.redis.StoreRefreshToken(ctx, user.ID.String(), refreshToken); err != nil {
		log.Error("failed to store refresh token", slog.String("error", err.Error()))
		return "", "", fmt.Errorf("%s: %w", op, ErrFailedToStoreRefreshToken)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))

	return accessToken, refreshToken, nil
}
