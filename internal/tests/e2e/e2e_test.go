package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"points-wallet/internal/domain/models"
	"points-wallet/internal/handlers"
	"points-wallet/internal/lib/jwt"
	"points-wallet/internal/middlewares"
	"points-wallet/internal/repository"
	"points-wallet/internal/routes"
	"points-wallet/internal/services"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStorage backs the full HTTP stack in these tests. It mirrors the
// postgres repository contract closely enough for end-to-end flows: a
// coarse lock stands in for row locks and Rollback restores the state
// captured at Begin.
type memoryStorage struct {
	mu           sync.Mutex
	txMu         sync.Mutex
	users        map[uuid.UUID]*models.User
	transfers    map[uuid.UUID]*models.Transfer
	transactions []models.Transaction
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{
		users:     make(map[uuid.UUID]*models.User),
		transfers: make(map[uuid.UUID]*models.Transfer),
	}
}

type memoryTx struct {
	s            *memoryStorage
	points       map[uuid.UUID]int
	statuses     map[uuid.UUID]models.TransferStatus
	transactions int
	done         bool
}

func (s *memoryStorage) Begin(ctx context.Context) (repository.Tx, error) {
	s.txMu.Lock()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		s:            s,
		points:       make(map[uuid.UUID]int, len(s.users)),
		statuses:     make(map[uuid.UUID]models.TransferStatus, len(s.transfers)),
		transactions: len(s.transactions),
	}
	for id, user := range s.users {
		tx.points[id] = user.Points
	}
	for id, transfer := range s.transfers {
		tx.statuses[id] = transfer.Status
	}
	return tx, nil
}

func (t *memoryTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.s.txMu.Unlock()
	return nil
}

func (t *memoryTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.s.mu.Lock()
	for id, points := range t.points {
		t.s.users[id].Points = points
	}
	for id, status := range t.statuses {
		t.s.transfers[id].Status = status
	}
	t.s.transactions = t.s.transactions[:t.transactions]
	t.s.mu.Unlock()

	t.s.txMu.Unlock()
	return nil
}

func (s *memoryStorage) SaveUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	stored := user
	s.users[user.ID] = &stored
	return nil
}

func (s *memoryStorage) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return *user, nil
}

func (s *memoryStorage) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return *user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *memoryStorage) GetPointsForUpdate(ctx context.Context, tx repository.Tx, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	return user.Points, nil
}

func (s *memoryStorage) IncrementPoints(ctx context.Context, tx repository.Tx, userID uuid.UUID, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[userID].Points += points
	return nil
}

func (s *memoryStorage) DecrementPoints(ctx context.Context, tx repository.Tx, userID uuid.UUID, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.users[userID].Points < points {
		return repository.ErrInsufficientPoints
	}
	s.users[userID].Points -= points
	return nil
}

func (s *memoryStorage) CreateTransfer(ctx context.Context, transfer models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transfers[transfer.ID]; exists {
		return repository.ErrTransferConflict
	}
	stored := transfer
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = time.Now()
	s.transfers[transfer.ID] = &stored
	return nil
}

func (s *memoryStorage) GetTransferById(ctx context.Context, transferID uuid.UUID) (models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transfer, ok := s.transfers[transferID]
	if !ok {
		return models.Transfer{}, repository.ErrTransferNotFound
	}
	return *transfer, nil
}

func (s *memoryStorage) GetTransferByIdForUpdate(ctx context.Context, tx repository.Tx, transferID uuid.UUID) (models.Transfer, error) {
	return s.GetTransferById(ctx, transferID)
}

func (s *memoryStorage) UpdateTransferStatus(ctx context.Context, transferID uuid.UUID, status models.TransferStatus) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transfer, ok := s.transfers[transferID]
	if !ok || transfer.Status != models.TransferStatusPending {
		return 0, nil
	}
	transfer.Status = status
	transfer.UpdatedAt = time.Now()
	return 1, nil
}

func (s *memoryStorage) UpdateTransferStatusTx(ctx context.Context, tx repository.Tx, transferID uuid.UUID, status models.TransferStatus) (int64, error) {
	return s.UpdateTransferStatus(ctx, transferID, status)
}

func (s *memoryStorage) ExpireOverduePending(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	now := time.Now()
	for _, transfer := range s.transfers {
		if transfer.Status == models.TransferStatusPending && transfer.ExpiresAt.Before(now) {
			transfer.Status = models.TransferStatusExpired
			transfer.UpdatedAt = now
			count++
		}
	}
	return count, nil
}

func (s *memoryStorage) SaveTransaction(ctx context.Context, tx repository.Tx, transaction models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := transaction
	stored.CreatedAt = time.Now()
	s.transactions = append(s.transactions, stored)
	return nil
}

func (s *memoryStorage) GetTransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset uint64) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Transaction
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].UserID == userID {
			result = append(result, s.transactions[i])
		}
	}
	if offset >= uint64(len(result)) {
		return nil, nil
	}
	result = result[offset:]
	if limit < uint64(len(result)) {
		result = result[:limit]
	}
	return result, nil
}

type memoryRedis struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{tokens: make(map[string]string)}
}

func (r *memoryRedis) StoreRefreshToken(ctx context.Context, userID, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[userID] = refreshToken
	return nil
}

func setupServer(t *testing.T) (*httptest.Server, *memoryStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage := newMemoryStorage()
	redis := newMemoryRedis()
	jwtGen := jwt.NewGenerator("e2e-secret", time.Hour, 24*time.Hour)

	authService := services.NewAuthService(log, storage, redis, jwtGen, 500)
	transferService := services.NewTransferService(log, storage, storage, storage, storage, 10*time.Minute)
	userService := services.NewUserService(log, storage, storage)

	router := routes.InitRoutes(
		handlers.NewAuthHandler(log, authService),
		handlers.NewTransferHandler(log, transferService),
		handlers.NewUserHandler(log, userService),
		middlewares.NewAuthMiddleware(jwtGen),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, storage
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func registerAndLogin(t *testing.T, serverURL, name, email string) string {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, serverURL+"/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, serverURL+"/api/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, ok := body["token"].(string)
	require.True(t, ok, "login response must carry an access token")
	return token
}

func getPoints(t *testing.T, serverURL, token string) int {
	t.Helper()

	resp, body := doJSON(t, http.MethodGet, serverURL+"/api/users/points", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return int(body["points"].(float64))
}

func TestTransferFlow(t *testing.T) {
	server, _ := setupServer(t)

	aliceToken := registerAndLogin(t, server.URL, "Alice", "alice@example.com")
	bobToken := registerAndLogin(t, server.URL, "Bob", "bob@example.com")

	require.Equal(t, 500, getPoints(t, server.URL, aliceToken))

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/transfers", aliceToken, gin.H{
		"to_email": "bob@example.com",
		"points":   100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", body["status"])
	transferID, ok := body["id"].(string)
	require.True(t, ok)

	resp, body = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/transfers/%s/confirm", server.URL, transferID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "completed", body["status"])

	assert.Equal(t, 400, getPoints(t, server.URL, aliceToken))
	assert.Equal(t, 600, getPoints(t, server.URL, bobToken))

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/transactions", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows, ok := body["transactions"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	entry := rows[0].(map[string]any)
	assert.Equal(t, "debit", entry["type"])
	assert.Equal(t, float64(100), entry["points"])
}

func TestConfirmByNonSenderIsForbidden(t *testing.T) {
	server, _ := setupServer(t)

	aliceToken := registerAndLogin(t, server.URL, "Alice", "alice@example.com")
	bobToken := registerAndLogin(t, server.URL, "Bob", "bob@example.com")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/transfers", aliceToken, gin.H{
		"to_email": "bob@example.com",
		"points":   100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	transferID := body["id"].(string)

	resp, _ = doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/transfers/%s/confirm", server.URL, transferID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// points stay put
	assert.Equal(t, 500, getPoints(t, server.URL, aliceToken))
	assert.Equal(t, 500, getPoints(t, server.URL, bobToken))
}

func TestDoubleConfirmConflicts(t *testing.T) {
	server, _ := setupServer(t)

	aliceToken := registerAndLogin(t, server.URL, "Alice", "alice@example.com")
	registerAndLogin(t, server.URL, "Bob", "bob@example.com")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/transfers", aliceToken, gin.H{
		"to_email": "bob@example.com",
		"points":   100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	transferID := body["id"].(string)

	confirmURL := fmt.Sprintf("%s/api/transfers/%s/confirm", server.URL, transferID)
	resp, _ = doJSON(t, http.MethodPost, confirmURL, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, confirmURL, aliceToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "transfer is completed", body["error"])

	assert.Equal(t, 400, getPoints(t, server.URL, aliceToken))
}

func TestTransferValidationErrors(t *testing.T) {
	server, _ := setupServer(t)

	aliceToken := registerAndLogin(t, server.URL, "Alice", "alice@example.com")

	// self transfer
	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/transfers", aliceToken, gin.H{
		"to_email": "alice@example.com",
		"points":   100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// non-positive amount
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/transfers", aliceToken, gin.H{
		"to_email": "bob@example.com",
		"points":   0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// unknown recipient
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/transfers", aliceToken, gin.H{
		"to_email": "ghost@example.com",
		"points":   100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// more than the caller holds
	registerAndLogin(t, server.URL, "Bob", "bob@example.com")
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/transfers", aliceToken, gin.H{
		"to_email": "bob@example.com",
		"points":   100000,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	server, _ := setupServer(t)

	registerAndLogin(t, server.URL, "Alice", "alice@example.com")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", gin.H{
		"name":     "Another Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already exists", body["error"])
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	server, _ := setupServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/users/points", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/transfers", "garbage-token", gin.H{
		"to_email": "bob@example.com",
		"points":   100,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
