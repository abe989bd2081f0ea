package unit

import (
	"context"
	"errors"
	"log/slog"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/lib/jwt"
	"points-wallet/internal/middlewares"
	"points-wallet/internal/repository"
	"points-wallet/internal/services"
	"points-wallet/internal/tests/mocks"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Register_CreatesUserWithInitialPoints(t *testing.T) {
	// Arrange
	ctx := context.Background()
	authRepo := new(mocks.AuthRepositoryMock)
	redisMock := new(mocks.RedisClientMock)
	jwtGen := jwt.NewGenerator("secret", time.Minute, time.Hour)
	service := services.NewAuthService(slog.Default(), authRepo, redisMock, jwtGen, 500)

	authRepo.On("SaveUser", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "alice@example.com" && u.Points == 500 && u.ID != uuid.Nil
	})).Return(nil).Once()

	// Act
	user, err := service.Register(ctx, "Alice", "alice@example.com", "password123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 500, user.Points)
	assert.Equal(t, "alice@example.com", user.Email)
	authRepo.AssertExpectations(t)
}

func TestAuthService_Register_RejectsDuplicateEmail(t *testing.T) {
	// Arrange
	ctx := context.Background()
	authRepo := new(mocks.AuthRepositoryMock)
	redisMock := new(mocks.RedisClientMock)
	jwtGen := jwt.NewGenerator("secret", time.Minute, time.Hour)
	service := services.NewAuthService(slog.Default(), authRepo, redisMock, jwtGen, 500)

	authRepo.On("SaveUser", ctx, mock.Anything).Return(repository.ErrUserAlreadyExists).Once()

	// Act
	_, err := service.Register(ctx, "Alice", "alice@example.com", "password123")

	// Assert
	assert.ErrorIs(t, err, services.ErrEmailAlreadyExists)
	authRepo.AssertExpectations(t)
}

func TestAuthService_Register_RejectsInvalidEmail(t *testing.T) {
	// Arrange
	ctx := context.Background()
	authRepo := new(mocks.AuthRepositoryMock)
	redisMock := new(mocks.RedisClientMock)
	jwtGen := jwt.NewGenerator("secret", time.Minute, time.Hour)
	service := services.NewAuthService(slog.Default(), authRepo, redisMock, jwtGen, 500)

	// Act
	_, err := service.Register(ctx, "Alice", "not-an-email", "password123")

	// Assert
	assert.ErrorIs(t, err, middlewares.ErrInvalidEmail)
	authRepo.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
}

func TestAuthService_Login_IssuesTokenPairAndStoresRefresh(t *testing.T) {
	// Arrange
	ctx := context.Background()
	authRepo := new(mocks.AuthRepositoryMock)
	redisMock := new(mocks.RedisClientMock)
	jwtGen := jwt.NewGenerator("secret", time.Minute, time.Hour)
	service := services.NewAuthService(slog.Default(), authRepo, redisMock, jwtGen, 500)

	passHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{ID: uuid.New(), Email: "alice@example.com", Password: passHash}

	authRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()
	redisMock.On("StoreRefreshToken", ctx, user.ID.String(), mock.Anything).Return(nil).Once()

	// Act
	access, refresh, err := service.Login(ctx, user.Email, "password123")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	parsedID, err := jwtGen.ParseUserID(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), parsedID)

	authRepo.AssertExpectations(t)
	redisMock.AssertExpectations(t)
}

func TestAuthService_Login_RejectsWrongPassword(t *testing.T) {
	// Arrange
	ctx := context.Background()
	authRepo := new(mocks.AuthRepositoryMock)
	redisMock := new(mocks.RedisClientMock)
	jwtGen := jwt.NewGenerator("secret", time.Minute, time.Hour)
	service := services.NewAuthService(slog.Default(), authRepo, redisMock, jwtGen, 500)

	passHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := models.User{ID: uuid.New(), Email: "alice@example.com", Password: passHash}

	authRepo.On("GetUserByEmail", ctx, user.Email).Return(user, nil).Once()

	// Act
	_, _, err = service.Login(ctx, user.Email, "wrongPass")

	// Assert
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	redisMock.AssertNotCalled(t, "StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything)
	authRepo.AssertExpectations(t)
}

func TestAuthService_Login_HidesUnknownEmailBehindInvalidCredentials(t *testing.T) {
	// Arrange
	ctx := context.Background()
	authRepo := new(mocks.AuthRepositoryMock)
	redisMock := new(mocks.RedisClientMock)
	jwtGen := jwt.NewGenerator("secret", time.Minute, time.Hour)
	service := services.NewAuthService(slog.Default(), authRepo, redisMock, jwtGen, 500)

	authRepo.On("GetUserByEmail", ctx, "ghost@example.com").
		Return(models.User{}, repository.ErrUserNotFound).Once()

	// Act
	_, _, err := service.Login(ctx, "ghost@example.com", "password123")

	// Assert
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	authRepo.AssertExpectations(t)
}

func TestAuthService_Login_PropagatesRepositoryErrors(t *testing.T) {
	// Arrange
	ctx := context.Background()
	authRepo := new(mocks.AuthRepositoryMock)
	redisMock := new(mocks.RedisClientMock)
	jwtGen := jwt.NewGenerator("secret", time.Minute, time.Hour)
	service := services.NewAuthService(slog.Default(), authRepo, redisMock, jwtGen, 500)

	authRepo.On("GetUserByEmail", ctx, "broken@example.com").
		Return(models.User{}, errors.New("db failure")).Once()

	// Act
	_, _, err := service.Login(ctx, "broken@example.com", "password123")

	// Assert
	assert.ErrorContains(t, err, "db failure")
	authRepo.AssertExpectations(t)
}
