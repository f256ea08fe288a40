package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/life-bridge/internal/api/http/handlers"
	"github.com/spec-kit/life-bridge/internal/auth"
	"github.com/spec-kit/life-bridge/internal/config"
	"github.com/spec-kit/life-bridge/internal/events"
	"github.com/spec-kit/life-bridge/internal/lock"
	"github.com/spec-kit/life-bridge/internal/notify"
	"github.com/spec-kit/life-bridge/internal/observability"
	"github.com/spec-kit/life-bridge/internal/repository/memory"
	"github.com/spec-kit/life-bridge/internal/service"
)

const (
	adminEmail    = "admin@lifebridge.test"
	adminPassword = "admin123"
)

type testServer struct {
	app   *fiber.App
	queue *notify.MemoryQueue
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher(logger)
	queue := notify.NewMemoryQueue(256)
	service.NewNotificationService(dispatcher, queue, store.Users(), logger).RegisterHandlers()

	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: 4}, store.Users())
	adminService := service.NewAdminService(service.AdminDependencies{
		UserRepo:     store.Users(),
		RequestRepo:  store.BloodRequests(),
		DonationRepo: store.Donations(),
		PickupRepo:   store.Pickups(),
		Logger:       logger,
	})
	require.NoError(t, adminService.EnsureDefaultAdmin(context.Background(), config.BootstrapConfig{
		Enabled:       true,
		AdminName:     "Admin",
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}, 4))

	donations := service.NewDonationService(service.DonationDependencies{
		DonationRepo: store.Donations(),
		UserRepo:     store.Users(),
		RequestRepo:  store.BloodRequests(),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	pickups := service.NewPickupService(service.PickupDependencies{
		PickupRepo:   store.Pickups(),
		RequestRepo:  store.BloodRequests(),
		DonationRepo: store.Donations(),
		UserRepo:     store.Users(),
		Locker:       lock.NewLocalLocker(),
		LockTTL:      time.Second,
		LockWait:     time.Second,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("life-bridge-api", "test", nil, nil, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Requests:       handlers.NewRequestsHandler(service.NewRequestService(store.BloodRequests(), store.Users(), dispatcher)),
		Donations:      handlers.NewDonationsHandler(donations),
		Pickups:        handlers.NewPickupsHandler(pickups),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store.Users()),
	})
	return &testServer{app: app, queue: queue}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) register(t *testing.T, name, email, role, group string) (token, id string) {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":       name,
		"email":      email,
		"password":   "secret123",
		"role":       role,
		"bloodGroup": group,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	return sessionOf(t, body)
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, status, body)
	token, _ := sessionOf(t, body)
	return token
}

func sessionOf(t *testing.T, body map[string]any) (token, id string) {
	t.Helper()
	data := body["data"].(map[string]any)
	token = data["auth"].(map[string]any)["token"].(string)
	id = data["user"].(map[string]any)["id"].(string)
	require.NotEmpty(t, token)
	return token, id
}

func dataOf(body map[string]any) map[string]any {
	data, _ := body["data"].(map[string]any)
	return data
}

func listOf(body map[string]any) []any {
	items, _ := body["data"].([]any)
	return items
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "in-process", deps["postgres"])
	assert.Equal(t, "in-process", deps["redis"])
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t)
	token, id := s.register(t, "Dana", "Dana@LifeBridge.test", "donor", "O-")

	status, body := s.do(t, fiber.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	me := dataOf(body)
	assert.Equal(t, id, me["id"])
	assert.Equal(t, "dana@lifebridge.test", me["email"])
	assert.NotContains(t, me, "password")
	assert.NotContains(t, me, "passwordHash")

	assert.NotEmpty(t, s.login(t, "dana@lifebridge.test", "secret123"))

	status, body = s.do(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{"email": "dana@lifebridge.test", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])

	status, body = s.do(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Dana Again", "email": "dana@lifebridge.test", "password": "secret123", "role": "donor",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestAuth_RejectsMissingAndBadTokens(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/api/requests", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.Equal(t, "No token provided", body["message"])

	status, body = s.do(t, fiber.MethodGet, "/api/requests", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", body["message"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "Dana", "dana@lifebridge.test", "donor", "O-")

	status, body := s.do(t, fiber.MethodGet, "/api/admin/stats", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Access denied. Admin privileges required.", body["message"])

	adminToken := s.login(t, adminEmail, adminPassword)
	status, body = s.do(t, fiber.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	users := dataOf(body)["users"].(map[string]any)
	assert.EqualValues(t, 2, users["total"])
	assert.EqualValues(t, 1, users["admins"])
}

func TestValidationErrorsAreFlattened(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "Rita", "rita@lifebridge.test", "recipient", "A+")

	status, body := s.do(t, fiber.MethodPost, "/api/requests", token, fiber.Map{"bloodGroup": "A+"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.Equal(t, "Missing required fields", body["message"])
	assert.ElementsMatch(t, []any{"units", "location"}, body["fields"])

	status, body = s.do(t, fiber.MethodPost, "/api/requests", token, fiber.Map{"bloodGroup": "Z+", "units": 2, "location": "Ward 4"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Len(t, body["validGroups"], 8)
}

func TestUnknownRouteAndMalformedID(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "Dana", "dana@lifebridge.test", "donor", "O-")

	status, body := s.do(t, fiber.MethodGet, "/api/nowhere", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, body = s.do(t, fiber.MethodGet, "/api/donations/not-a-uuid", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestPickupLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	recipientToken, _ := s.register(t, "Rita", "rita@lifebridge.test", "recipient", "A+")
	donorToken, donorID := s.register(t, "Dana", "dana@lifebridge.test", "donor", "A+")
	adminToken := s.login(t, adminEmail, adminPassword)

	status, body := s.do(t, fiber.MethodPost, "/api/blood-requests", recipientToken, fiber.Map{
		"bloodGroup": "A+", "units": "2", "location": "City Hospital",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "Request submitted and donors notified!", body["message"])
	requestID := dataOf(body)["id"].(string)

	status, body = s.do(t, fiber.MethodGet, "/api/requests/user", recipientToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, listOf(body), 1)

	status, body = s.do(t, fiber.MethodPost, "/api/pickups", donorToken, fiber.Map{
		"requestId": requestID, "date": "2026-11-02", "time": "10:30", "location": "City Hospital",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	pickupID := dataOf(body)["id"].(string)
	assert.Equal(t, "scheduled", dataOf(body)["status"])

	status, _ = s.do(t, fiber.MethodPut, "/api/admin/pickups/"+pickupID, donorToken, fiber.Map{"status": "completed"})
	assert.Equal(t, fiber.StatusForbidden, status)

	for i := 0; i < 2; i++ {
		status, body = s.do(t, fiber.MethodPut, "/api/admin/pickups/"+pickupID, adminToken, fiber.Map{"status": "completed"})
		require.Equal(t, fiber.StatusOK, status, body)
		assert.Equal(t, "completed", dataOf(body)["status"])
	}

	status, body = s.do(t, fiber.MethodGet, "/api/donations/user", donorToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	donations := listOf(body)
	require.Len(t, donations, 1)
	donation := donations[0].(map[string]any)
	assert.Equal(t, "completed", donation["status"])
	assert.Equal(t, pickupID, donation["pickupId"])
	assert.Equal(t, donorID, donation["donor"].(map[string]any)["id"])

	status, body = s.do(t, fiber.MethodGet, "/api/requests?excludeCompletedPickups=true", donorToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, listOf(body))

	status, body = s.do(t, fiber.MethodPut, "/api/admin/pickups/"+pickupID, adminToken, fiber.Map{"status": "scheduled"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "scheduled", dataOf(body)["status"])

	status, body = s.do(t, fiber.MethodPut, "/api/admin/pickups/"+pickupID, adminToken, fiber.Map{"status": "lost"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Len(t, body["validStatuses"], 3)

	assert.GreaterOrEqual(t, s.queue.Len(), 1)
}

func TestDonationOwnershipOverHTTP(t *testing.T) {
	s := newTestServer(t)
	donorToken, _ := s.register(t, "Dana", "dana@lifebridge.test", "donor", "B+")
	otherToken, _ := s.register(t, "Omar", "omar@lifebridge.test", "donor", "B+")

	status, body := s.do(t, fiber.MethodPost, "/api/donations", donorToken, fiber.Map{
		"bloodGroup": "B+", "units": 1, "location": "Clinic", "availableDate": "2026-11-03", "availableTime": "09:00",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "Donation offer submitted successfully", body["message"])
	id := dataOf(body)["id"].(string)

	status, body = s.do(t, fiber.MethodDelete, "/api/donations/"+id, otherToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Not authorized to delete this donation", body["message"])

	status, body = s.do(t, fiber.MethodDelete, "/api/donations/"+id, donorToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Donation removed", body["message"])

	status, _ = s.do(t, fiber.MethodGet, "/api/donations/"+id, donorToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAdminUpdateUser(t *testing.T) {
	s := newTestServer(t)
	_, donorID := s.register(t, "Dana", "dana@lifebridge.test", "donor", "O+")
	adminToken := s.login(t, adminEmail, adminPassword)

	status, body := s.do(t, fiber.MethodPut, "/api/admin/users/"+donorID, adminToken, fiber.Map{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []any{"isAdmin"}, body["fields"])

	status, body = s.do(t, fiber.MethodPut, "/api/admin/users/"+donorID, adminToken, fiber.Map{"isAdmin": true})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, dataOf(body)["isAdmin"])
	assert.Equal(t, "admin", dataOf(body)["role"])
}
