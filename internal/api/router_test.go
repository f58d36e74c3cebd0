package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rank-boost/internal/common/config"
	apperrors "rank-boost/internal/common/errors"
	"rank-boost/internal/common/logger"
	"rank-boost/internal/common/validation"
	"rank-boost/internal/models"
	"rank-boost/internal/orderstore"
	"rank-boost/internal/recommendation"
	"rank-boost/pkg/roster"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Order   map[string]any    `json:"order"`
	Orders  []json.RawMessage `json:"orders"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newStaticRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>下单</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "404.html"), []byte("<h1>404</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.js"), []byte("console.log(1)"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.bin"), []byte{1, 2, 3}, 0o644))
	return root
}

func newTestRouter(t *testing.T, orders OrderService, ready ReadinessCheck) *gin.Engine {
	t.Helper()
	v, err := validation.NewValidator()
	require.NoError(t, err)

	return NewRouter(RouterOptions{
		Server: config.ServerConfig{
			StaticRoot:     newStaticRoot(t),
			NotFoundPage:   "404.html",
			RequestTimeout: 2000,
		},
		Orders:    orders,
		Validator: v,
		Logger:    logger.NewTestLogger(t),
		Ready:     ready,
	})
}

func newStoreRouter(t *testing.T) *gin.Engine {
	t.Helper()
	repo, err := orderstore.NewFileRepository(t.TempDir())
	require.NoError(t, err)
	engine, err := recommendation.NewEngine(roster.Default())
	require.NoError(t, err)
	store := orderstore.New(repo, engine, logger.NewTestLogger(t))
	return newTestRouter(t, store, nil)
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// stubOrders returns canned results.
type stubOrders struct {
	createErr error
	updateErr error
	orders    []*models.Order
}

func (s *stubOrders) Create(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.Order{ID: "ORD1", Status: models.StatusPending, Fields: req.Fields}, nil
}

func (s *stubOrders) List(ctx context.Context) []*models.Order {
	return s.orders
}

func (s *stubOrders) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.Order{ID: id, Status: status}, nil
}

// ==========================
// Order flow
// ==========================

func TestOrderFlow(t *testing.T) {
	r := newStoreRouter(t)

	w := do(r, http.MethodPost, "/submit-order", `{"currentLevel":"黄金","targetLevel":"铂金","serviceType":"rank-up","contact":"qq:1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)
	assert.True(t, created.Success)
	assert.Equal(t, "订单提交成功", created.Message)
	assert.Equal(t, "神医", created.Order["recommendedProvider"])
	assert.Equal(t, "pending", created.Order["status"])
	assert.Equal(t, "qq:1", created.Order["contact"])
	id, _ := created.Order["id"].(string)
	require.True(t, strings.HasPrefix(id, "ORD"))

	w = do(r, http.MethodPut, "/admin/orders/"+id, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.True(t, updated.Success)
	assert.Equal(t, "订单状态更新成功", updated.Message)
	assert.Equal(t, "completed", updated.Order["status"])

	w = do(r, http.MethodGet, "/admin/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode(t, w)
	assert.True(t, listed.Success)
	require.Len(t, listed.Orders, 1)

	var first map[string]any
	require.NoError(t, json.Unmarshal(listed.Orders[0], &first))
	assert.Equal(t, id, first["id"])
	assert.Equal(t, "completed", first["status"])
	assert.Equal(t, "rank-up", first["serviceType"])
}

func TestSubmitOrder_NonStringRankGetsFallback(t *testing.T) {
	r := newStoreRouter(t)

	w := do(r, http.MethodPost, "/submit-order", `{"currentLevel":3,"targetLevel":"铂金","serviceType":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created := decode(t, w)
	assert.True(t, created.Success)
	assert.Equal(t, "闪电侠", created.Order["recommendedProvider"])
	assert.Equal(t, float64(3), created.Order["currentLevel"])
	assert.Contains(t, created.Order, "serviceType")
	assert.Equal(t, "", created.Order["serviceType"])
}

func TestSubmitOrder_BodyTooLarge(t *testing.T) {
	r := newStoreRouter(t)

	body := `{"note":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	w := do(r, http.MethodPost, "/submit-order", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "订单提交失败: 请求数据格式错误", decode(t, w).Message)

	w = do(r, http.MethodGet, "/admin/orders", "")
	assert.JSONEq(t, `{"success":true,"orders":[]}`, w.Body.String())
}

func TestListOrders_EmptyIsArray(t *testing.T) {
	w := do(newStoreRouter(t), http.MethodGet, "/admin/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"orders":[]}`, w.Body.String())
}

func TestSubmitOrder_Failures(t *testing.T) {
	tests := []struct {
		name       string
		orders     *stubOrders
		body       string
		wantPrefix string
		wantText   string
	}{
		{"malformed json", &stubOrders{}, `{"currentLevel":`, "订单提交失败: ", "请求数据格式错误"},
		{"array body", &stubOrders{}, `[]`, "订单提交失败: ", "订单数据校验失败"},
		{"persistence failure", &stubOrders{createErr: apperrors.NewPersistenceError("ORD1", errors.New("disk full"))}, `{"currentLevel":"黄金"}`, "订单提交失败: ", "订单保存失败"},
		{"recommendation failure", &stubOrders{createErr: apperrors.NewRecommendationError("roster has no providers")}, `{}`, "订单提交失败: ", "推荐服务人员失败"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newTestRouter(t, tt.orders, nil), http.MethodPost, "/submit-order", tt.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantPrefix+tt.wantText, env.Message)
		})
	}
}

func TestUpdateOrderStatus_Failures(t *testing.T) {
	r := newStoreRouter(t)

	tests := []struct {
		name     string
		target   string
		body     string
		wantText string
	}{
		{"missing status", "/admin/orders/ORD1", `{}`, "请提供订单状态"},
		{"empty status", "/admin/orders/ORD1", `{"status":""}`, "请提供订单状态"},
		{"malformed body", "/admin/orders/ORD1", `{`, "请求数据格式错误"},
		{"non-string status", "/admin/orders/ORD1", `{"status":7}`, "请提供订单状态"},
		{"unknown order", "/admin/orders/ORD404", `{"status":"completed"}`, "找不到订单"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPut, tt.target, tt.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, "更新订单状态失败: "+tt.wantText, env.Message)
		})
	}

	w := do(r, http.MethodGet, "/admin/orders", "")
	assert.JSONEq(t, `{"success":true,"orders":[]}`, w.Body.String(), "a failed update creates no record")
}

func TestUpdateOrderStatus_PassesIDAndStatus(t *testing.T) {
	w := do(newTestRouter(t, &stubOrders{}, nil), http.MethodPut, "/admin/orders/ORD77", `{"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "ORD77", env.Order["id"])
	assert.Equal(t, "in_progress", env.Order["status"])
}

// ==========================
// CORS, request id, operational endpoints
// ==========================

func TestCORS(t *testing.T) {
	r := newStoreRouter(t)

	for _, target := range []string{"/submit-order", "/admin/orders/ORD1", "/anything.html"} {
		w := do(r, http.MethodOptions, target, "")
		assert.Equal(t, http.StatusNoContent, w.Code, target)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
	}

	w := do(r, http.MethodGet, "/admin/orders", "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := newStoreRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
}

func TestOperationalEndpoints(t *testing.T) {
	r := newTestRouter(t, &stubOrders{}, nil)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = do(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	do(r, http.MethodGet, "/admin/orders", "")
	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_request_duration_seconds")

	notReady := newTestRouter(t, &stubOrders{}, func(ctx context.Context) error { return errors.New("redis down") })
	w = do(notReady, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis down")
}
