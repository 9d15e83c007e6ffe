package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/greenhouse-storefront/internal/cart"
	"github.com/angelmondragon/greenhouse-storefront/internal/catalog"
	checkoutsvc "github.com/angelmondragon/greenhouse-storefront/internal/checkout"
	"github.com/angelmondragon/greenhouse-storefront/internal/promotions"
	pkgAuth "github.com/angelmondragon/greenhouse-storefront/pkg/auth"
	"github.com/angelmondragon/greenhouse-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
	"github.com/angelmondragon/greenhouse-storefront/pkg/metrics"
	"github.com/angelmondragon/greenhouse-storefront/pkg/orderapi"
	"github.com/angelmondragon/greenhouse-storefront/pkg/pagination"
)

const testDevice = "8f14e45f-ceea-467a-9575-0a1b2c3d4e5f"

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

// memKV backs both the cart store and the idempotency middleware.
type memKV struct {
	data map[string]string
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = fmt.Sprint(value)
	if b, ok := value.([]byte); ok {
		m.data[key] = string(b)
	}
	return nil
}

func (m *memKV) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memKV) DeviceKey(deviceID, key string) string {
	return "gh:device:" + deviceID + ":" + key
}

func (m *memKV) IdempotencyKey(scope, id string) string {
	return "gh:idempotency:" + scope + ":" + id
}

type stubCatalog struct{}

func (stubCatalog) ListProducts(context.Context, catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{Products: []catalog.ProductDTO{}, Pagination: pagination.Meta{Page: 1, Limit: 24}}, nil
}

func (stubCatalog) GetProduct(_ context.Context, id int64) (*catalog.ProductDTO, error) {
	if id != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &catalog.ProductDTO{ID: 1, Name: "Garden Fork", Price: decimal.RequireFromString("29.99")}, nil
}

func (stubCatalog) ListCategories(context.Context) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{}, nil
}

func (stubCatalog) Home(context.Context) (*catalog.HomeResult, error) {
	return &catalog.HomeResult{}, nil
}

type stubPromotions struct{}

func (stubPromotions) ListActive(context.Context) ([]promotions.PromotionDTO, error) {
	return []promotions.PromotionDTO{}, nil
}

type countingOrders struct {
	calls int
}

func (c *countingOrders) SubmitOrder(context.Context, orderapi.SubmitOrderRequest) (string, error) {
	c.calls++
	return fmt.Sprintf("ord-%d", c.calls), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "test", Port: "0"},
		JWT:  config.JWTConfig{Secret: "secret", Issuer: "greenhouse", ExpirationMinutes: 30},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

type testEnv struct {
	router http.Handler
	kv     *memKV
	orders *countingOrders
	reg    *prometheus.Registry
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	kv := &memKV{data: map[string]string{}}
	reg := prometheus.NewRegistry()

	store, err := cart.NewStore(kv, logg, cart.Options{TTL: time.Hour, MaxLineQuantity: 999, Metrics: metrics.NewCartMetrics(reg)})
	if err != nil {
		t.Fatalf("new cart store: %v", err)
	}
	orders := &countingOrders{}
	checkout, err := checkoutsvc.NewService(store, orders, logg)
	if err != nil {
		t.Fatalf("new checkout service: %v", err)
	}

	router := NewRouter(cfg, logg, stubPinger{}, stubPinger{}, kv, reg, metrics.NewHTTPMetrics(reg), stubCatalog{}, stubPromotions{}, store, checkout)
	return &testEnv{router: router, kv: kv, orders: orders, reg: reg}
}

func (e *testEnv) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func buildToken(t *testing.T, cfg *config.Config, userID int64) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{UserID: userID})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	env := newTestEnv(t, testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		if resp := env.do(http.MethodGet, path, "", nil); resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCatalogRoutesArePublic(t *testing.T) {
	env := newTestEnv(t, testConfig())
	for _, path := range []string{"/api/v1/catalog/home", "/api/v1/catalog/products", "/api/v1/catalog/products/1", "/api/v1/catalog/categories", "/api/v1/promotions"} {
		if resp := env.do(http.MethodGet, path, "", nil); resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCartRequiresDeviceHeader(t *testing.T) {
	env := newTestEnv(t, testConfig())
	if resp := env.do(http.MethodGet, "/api/v1/cart", "", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without device got %d", resp.Code)
	}
	if resp := env.do(http.MethodGet, "/api/v1/cart", "", map[string]string{"X-Device-Id": "not-a-uuid"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid device got %d", resp.Code)
	}
}

func TestInvalidBearerTokenRejected(t *testing.T) {
	env := newTestEnv(t, testConfig())
	resp := env.do(http.MethodGet, "/api/v1/cart", "", map[string]string{
		"X-Device-Id":   testDevice,
		"Authorization": "Bearer nope",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestTransferRequiresBearerToken(t *testing.T) {
	env := newTestEnv(t, testConfig())
	resp := env.do(http.MethodPost, "/api/v1/cart/transfer", "", map[string]string{"X-Device-Id": testDevice})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestGuestCartFlowAndTransfer(t *testing.T) {
	cfg := testConfig()
	env := newTestEnv(t, cfg)
	guest := map[string]string{"X-Device-Id": testDevice}

	if resp := env.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":2}`, guest); resp.Code != http.StatusOK {
		t.Fatalf("add item: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if _, ok := env.kv.data[env.kv.DeviceKey(testDevice, cart.GuestKey)]; !ok {
		t.Fatalf("expected guest cart stored")
	}

	user := map[string]string{"X-Device-Id": testDevice, "Authorization": "Bearer " + buildToken(t, cfg, 42)}
	resp := env.do(http.MethodPost, "/api/v1/cart/transfer", "", user)
	if resp.Code != http.StatusOK {
		t.Fatalf("transfer: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"total_items":2`) {
		t.Fatalf("expected transferred cart in response got %s", resp.Body.String())
	}
	if _, ok := env.kv.data[env.kv.DeviceKey(testDevice, cart.GuestKey)]; ok {
		t.Fatalf("expected guest cart removed after transfer")
	}

	resp = env.do(http.MethodGet, "/api/v1/cart", "", guest)
	if !strings.Contains(resp.Body.String(), `"total_items":0`) {
		t.Fatalf("expected empty guest cart got %s", resp.Body.String())
	}
}

func TestCheckoutReplaysWithIdempotencyKey(t *testing.T) {
	env := newTestEnv(t, testConfig())
	guest := map[string]string{"X-Device-Id": testDevice}

	if resp := env.do(http.MethodPost, "/api/v1/checkout", `{}`, guest); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart got %d", resp.Code)
	}

	env.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`, guest)

	withKey := map[string]string{"X-Device-Id": testDevice, "Idempotency-Key": "chk-1"}
	first := env.do(http.MethodPost, "/api/v1/checkout", `{}`, withKey)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", first.Code, first.Body.String())
	}
	replay := env.do(http.MethodPost, "/api/v1/checkout", `{}`, withKey)
	if replay.Code != http.StatusCreated || replay.Body.String() != first.Body.String() {
		t.Fatalf("expected identical replay got %d %s", replay.Code, replay.Body.String())
	}
	if env.orders.calls != 1 {
		t.Fatalf("expected one order submission got %d", env.orders.calls)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.do(http.MethodGet, "/api/v1/catalog/products", "", nil)

	resp := env.do(http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `http_requests_total{method="GET",route="/api/v1/catalog/products",status="200"} 1`) {
		t.Fatalf("expected request counter in exposition, got %s", resp.Body.String())
	}
}
