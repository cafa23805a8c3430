package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnicost/internal/core/apperror"
	appctx "furnicost/internal/core/context"
	"furnicost/internal/core/id"
	"furnicost/internal/core/numerator"
	"furnicost/internal/core/types"
	"furnicost/internal/domain"
	"furnicost/internal/domain/audit"
	"furnicost/internal/domain/catalogs/complexity"
	"furnicost/internal/domain/costing"
	"furnicost/internal/domain/costingsvc"
	"furnicost/internal/domain/pricing"
	"furnicost/internal/infrastructure/cache"
	"furnicost/internal/infrastructure/http/v1/handlers"
	"furnicost/internal/infrastructure/metrics"
	"furnicost/pkg/logger"
)

// complexityStore keeps copies so that handler mutations only land through Update.
type complexityStore struct {
	mu    sync.Mutex
	items map[id.ID]complexity.Complexity
}

func newComplexityStore() *complexityStore {
	return &complexityStore{items: map[id.ID]complexity.Complexity{}}
}

func (s *complexityStore) Create(ctx context.Context, e *complexity.Complexity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[e.ID] = *e
	return nil
}

func (s *complexityStore) GetByID(ctx context.Context, eid id.ID) (*complexity.Complexity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[eid]
	if !ok {
		return nil, apperror.NewNotFound("paint complexity", eid.String())
	}
	return &e, nil
}

func (s *complexityStore) GetByCode(ctx context.Context, code string) (*complexity.Complexity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.Code == code && !e.DeletionMark {
			return &e, nil
		}
	}
	return nil, apperror.NewNotFound("paint complexity", code)
}

func (s *complexityStore) Update(ctx context.Context, e *complexity.Complexity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[e.ID]
	if !ok || cur.Version != e.Version {
		return apperror.NewConcurrentModification("paint complexity", e.ID.String())
	}
	e.Version++
	s.items[e.ID] = *e
	return nil
}

func (s *complexityStore) SetDeletionMark(ctx context.Context, eid id.ID, marked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[eid]
	if !ok {
		return apperror.NewNotFound("paint complexity", eid.String())
	}
	e.DeletionMark = marked
	s.items[eid] = e
	return nil
}

func (s *complexityStore) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*complexity.Complexity], error) {
	active, _ := s.ListActive(ctx)
	return domain.ListResult[*complexity.Complexity]{Items: active, TotalCount: int64(len(active)), Limit: f.Limit}, nil
}

func (s *complexityStore) ListActive(ctx context.Context) ([]*complexity.Complexity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*complexity.Complexity
	for _, e := range s.items {
		if !e.DeletionMark {
			out = append(out, &e)
		}
	}
	return out, nil
}

func (s *complexityStore) Exists(ctx context.Context, eid id.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[eid]
	return ok, nil
}

func (s *complexityStore) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := s.GetByCode(ctx, code)
	return err == nil, nil
}

type countingTx struct {
	mu    sync.Mutex
	calls int
}

func (c *countingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return fn(ctx)
}

type fakeCosting struct {
	known    id.ID
	lastCtx  context.Context
	lastIn   costing.Input
	lastMark types.Number
}

func (f *fakeCosting) Calculate(ctx context.Context, in costing.Input) costingsvc.Outcome {
	f.lastCtx = ctx
	f.lastIn = in
	return costingsvc.Outcome{IsRentable: true}
}

func (f *fakeCosting) CalculateForProduct(ctx context.Context, productID id.ID, labor, markup types.Number) (costingsvc.Outcome, error) {
	f.lastCtx = ctx
	f.lastMark = markup
	if productID != f.known {
		return costingsvc.Outcome{}, apperror.NewNotFound("product", productID.String())
	}
	return costingsvc.Outcome{Fingerprint: "abc"}, nil
}

func (f *fakeCosting) VerifyFingerprint(ctx context.Context, productID id.ID) (audit.Verification, error) {
	return audit.Verification{ProductKey: productID.String(), Match: true}, nil
}

func (f *fakeCosting) Requirements(ctx context.Context, productID id.ID) ([]costing.RequiredMaterial, error) {
	return []costing.RequiredMaterial{{Name: "Oak"}}, nil
}

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

type fixture struct {
	router  http.Handler
	tx      *countingTx
	costing *fakeCosting
	metrics *metrics.Metrics
}

func sequence() numerator.Generator {
	var mu sync.Mutex
	var n int64
	return numerator.GeneratorFunc(func(ctx context.Context, cfg numerator.Config) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return numerator.Format(cfg, n), nil
	})
}

func newFixture(t *testing.T, db handlers.Pinger) *fixture {
	t.Helper()
	f := &fixture{
		tx:      &countingTx{},
		costing: &fakeCosting{known: id.New()},
		metrics: metrics.New(),
	}
	f.router = NewRouter(RouterConfig{
		Logger:       logger.NewNop(),
		TxManager:    f.tx,
		DB:           db,
		CacheStats:   func() []cache.Stats { return []cache.Stats{{Name: "materials"}} },
		Info:         handlers.BuildInfo{App: "furnicost", Version: "test", Env: "test"},
		Metrics:      f.metrics,
		Complexities: complexity.NewService(newComplexityStore(), sequence()),
		Costing:      f.costing,
		Pricing:      pricing.NewCalculator(),
		Settings:     costing.Settings{Currency: "RUB"},
	})
	return f
}

func (f *fixture) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, pinger{})

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health/ready", nil).Code)

	w := f.do(http.MethodGet, "/health/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "furnicost", body["app"])
	assert.Len(t, body["caches"], 1)
	assert.NotContains(t, body, "database")
}

func TestHealth_NotReady(t *testing.T) {
	f := newFixture(t, pinger{err: errors.New("connection refused")})
	w := f.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")

	f = newFixture(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/health/ready", nil).Code)
}

func TestNoRoute(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(http.MethodGet, "/api/v1/catalog/materials", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decode(t, w)["code"])
}

func TestComplexityCRUD(t *testing.T) {
	f := newFixture(t, nil)
	const base = "/api/v1/catalog/paint-complexities"

	w := f.do(http.MethodPost, base, map[string]any{"name": "Carved", "coeff": "1.5"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	entityID, _ := created["id"].(string)
	require.NotEmpty(t, entityID)
	assert.NotEmpty(t, created["code"])
	assert.Equal(t, 1, f.tx.calls)

	w = f.do(http.MethodGet, base+"/"+entityID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Carved", decode(t, w)["name"])

	w = f.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["totalCount"])

	w = f.do(http.MethodPut, base+"/"+entityID, map[string]any{"name": "Deep carving", "version": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Deep carving", decode(t, w)["name"])

	w = f.do(http.MethodPut, base+"/"+entityID, map[string]any{"name": "Stale", "version": 1})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = f.do(http.MethodDelete, base+"/"+entityID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, base, nil)
	assert.EqualValues(t, 0, decode(t, w)["totalCount"])
}

func TestComplexity_BadRequests(t *testing.T) {
	f := newFixture(t, nil)
	const base = "/api/v1/catalog/paint-complexities"

	w := f.do(http.MethodPost, base, map[string]any{"coeff": "1.2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, base+"/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, base+"/"+id.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, base+`?filter={broken`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPricingRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/pricing/quote", map[string]any{"basePrice": 1000, "collection": "loft"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quote := decode(t, w)
	assert.Equal(t, "1500", quote["finalPrice"])
	assert.Equal(t, true, quote["isRentable"])

	w = f.do(http.MethodGet, "/api/v1/pricing/collections", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tables := decode(t, w)
	assert.Len(t, tables["collections"], len(pricing.DefaultCollectionMultipliers()))
	assert.NotEmpty(t, tables["materials"])
}

func TestCostingRoutes(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "/api/v1/costing/calculate", map[string]any{
		"product": map[string]any{"name": "Stool"},
		"markupPercent": "30",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["isRentable"])
	assert.Equal(t, "Stool", f.costing.lastIn.Product.Name)
	assert.Equal(t, "RUB", f.costing.lastIn.Datasets.Settings.Currency)

	known := f.costing.known.String()

	w = f.do(http.MethodPost, "/api/v1/costing/products/"+known+"/calculate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "abc", decode(t, w)["fingerprint"])
	assert.False(t, f.costing.lastMark.Valid())

	w = f.do(http.MethodPost, "/api/v1/costing/products/"+known+"/calculate", map[string]any{"markupPercent": 45})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.costing.lastMark.Valid())

	w = f.do(http.MethodPost, "/api/v1/costing/products/"+id.New().String()+"/calculate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/v1/costing/products/"+known+"/fingerprint/verify", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["match"])

	w = f.do(http.MethodGet, "/api/v1/costing/products/"+known+"/requirements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)

	w = f.do(http.MethodPost, "/api/v1/costing/calculate", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperatorAndTraceHeaders(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodGet, "/health/live", nil, "X-Request-ID", "req-42")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = f.do(http.MethodPost, "/api/v1/costing/calculate", map[string]any{}, "X-Operator", "  anna ")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.costing.lastCtx)
	assert.Equal(t, "anna", appctx.GetOperator(f.costing.lastCtx))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	f.do(http.MethodGet, "/health/live", nil)
	f.do(http.MethodGet, "/nowhere", nil)

	w := f.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `furnicost_http_requests_total{method="GET",route="/health/live",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
}
