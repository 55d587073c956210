package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/products-hexagonal-api/internal/app/dto"
	"github.com/mrops-br/products-hexagonal-api/internal/app/service"
	"github.com/mrops-br/products-hexagonal-api/internal/domain"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/event"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/http/response"
	"github.com/mrops-br/products-hexagonal-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func newRouter(uc service.ProductManagementUseCase) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewProductHandler(uc, logger)
	r := chi.NewRouter()
	r.Route("/api/products", h.Routes)
	return r
}

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := tracenoop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider().Meter("test")

	svc := service.NewProductManagementService(
		memory.NewProductRepository(tracer, logger),
		event.NewLoggingPublisher(logger, meter),
		tracer,
		meter,
		logger,
	)
	return newRouter(svc)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProduct(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func createProduct(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeProduct(t, rec)["id"].(string)
}

func TestCreateAndRetrieveProduct(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodPost, "/api/products", `{"name":"Test Product","price":25.99}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	created := decodeProduct(t, rec)
	assert.Equal(t, "Test Product", created["name"])
	assert.Equal(t, 25.99, created["price"])
	assert.Equal(t, "ACTIVE", created["status"])

	id := created["id"].(string)
	rec = do(t, h, http.MethodGet, "/api/products/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	found := decodeProduct(t, rec)
	assert.Equal(t, id, found["id"])
	assert.Equal(t, 25.99, found["price"])
	assert.Equal(t, "ACTIVE", found["status"])
}

func TestPriceIsSerializedWithTwoDecimals(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodPost, "/api/products", `{"name":"X","price":10}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":10.00`)
}

func TestListProducts(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	createProduct(t, h, `{"name":"Product 1","price":10.0}`)
	createProduct(t, h, `{"name":"Product 2","price":20.0}`)

	rec = do(t, h, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Product 1", list[0]["name"])
	assert.Equal(t, "Product 2", list[1]["name"])
}

func TestUpdateProduct(t *testing.T) {
	h := newTestRouter()
	id := createProduct(t, h, `{"name":"Original Name","price":15.0}`)

	rec := do(t, h, http.MethodPut, "/api/products/"+id, `{"name":"Updated Name","price":25.0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeProduct(t, rec)
	assert.Equal(t, id, updated["id"])
	assert.Equal(t, "Updated Name", updated["name"])
	assert.Equal(t, 25.0, updated["price"])
	assert.Equal(t, "ACTIVE", updated["status"])

	rec = do(t, h, http.MethodPut, "/api/products/"+id, `{"price":-5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decodeProduct(t, rec)
	assert.Equal(t, "Updated Name", updated["name"])
	assert.Equal(t, "INACTIVE", updated["status"])

	rec = do(t, h, http.MethodGet, "/api/products/"+id, "")
	assert.Equal(t, -5.0, decodeProduct(t, rec)["price"])
}

func TestDeleteProduct(t *testing.T) {
	h := newTestRouter()
	id := createProduct(t, h, `{"name":"Product to Delete","price":30.0}`)

	rec := do(t, h, http.MethodDelete, "/api/products/"+id, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/products/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/products/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActivateAndDeactivateProduct(t *testing.T) {
	h := newTestRouter()
	id := createProduct(t, h, `{"name":"Product to Toggle","price":40.0}`)

	rec := do(t, h, http.MethodPatch, "/api/products/"+id+"/deactivate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "INACTIVE", decodeProduct(t, rec)["status"])

	rec = do(t, h, http.MethodGet, "/api/products/"+id, "")
	assert.Equal(t, "INACTIVE", decodeProduct(t, rec)["status"])

	rec = do(t, h, http.MethodPatch, "/api/products/"+id+"/activate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ACTIVE", decodeProduct(t, rec)["status"])
}

func TestActivateProductWithNegativePriceFails(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodPost, "/api/products", `{"name":"Negative Price Product","price":-10.0}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeProduct(t, rec)
	assert.Equal(t, "INACTIVE", created["status"])

	rec = do(t, h, http.MethodPatch, "/api/products/"+created["id"].(string)+"/activate", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cannot activate product with negative price", body.Message)
	assert.Equal(t, http.StatusBadRequest, body.Status)
}

func TestBadRequests(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "blank name", body: `{"name":" ","price":1}`, message: "Product name cannot be empty"},
		{name: "missing price", body: `{"name":"X"}`, message: "Product price is required"},
		{name: "null price", body: `{"name":"X","price":null}`, message: "Product price is required"},
		{name: "malformed json", body: `{"name":`},
		{name: "non numeric price", body: `{"name":"X","price":"ten"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/products", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "bad_request", body.Error)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	h := newTestRouter()

	for _, req := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/products/unknown", ""},
		{http.MethodPut, "/api/products/unknown", `{"name":"X"}`},
		{http.MethodDelete, "/api/products/unknown", ""},
		{http.MethodPatch, "/api/products/unknown/activate", ""},
		{http.MethodPatch, "/api/products/unknown/deactivate", ""},
	} {
		rec := do(t, h, req.method, req.path, req.body)
		require.Equal(t, http.StatusNotFound, rec.Code, req.method+" "+req.path)

		var body response.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not_found", body.Error)
		assert.Equal(t, "Product not found with id: unknown", body.Message)
	}
}

type failingUseCase struct {
	service.ProductManagementUseCase
}

func (failingUseCase) FindAllProducts(context.Context) ([]*dto.ProductResponse, error) {
	return nil, errors.New("connection refused")
}

func (failingUseCase) FindProduct(context.Context, domain.ProductID) (*dto.ProductResponse, error) {
	return nil, errors.New("connection refused")
}

func TestUnexpectedErrorsMapToInternalServerError(t *testing.T) {
	h := newRouter(failingUseCase{})

	for _, path := range []string{"/api/products", "/api/products/p-1"} {
		rec := do(t, h, http.MethodGet, path, "")
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body response.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "internal_server_error", body.Error)
		assert.Equal(t, "An unexpected error occurred: connection refused", body.Message)
	}
}
