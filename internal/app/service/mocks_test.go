package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/products-hexagonal-api/internal/domain"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var errStorageDown = errors.New("storage unavailable")

type mockProductRepository struct {
	store   map[domain.ProductID]*domain.Product
	order   []domain.ProductID
	saves   int
	deletes []domain.ProductID
	calls   []string

	findErr   error
	saveErr   error
	deleteErr error
}

func newMockRepository() *mockProductRepository {
	return &mockProductRepository{store: make(map[domain.ProductID]*domain.Product)}
}

func (m *mockProductRepository) FindByID(_ context.Context, id domain.ProductID) (*domain.Product, error) {
	m.calls = append(m.calls, "find")
	if m.findErr != nil {
		return nil, m.findErr
	}
	if p, ok := m.store[id]; ok {
		return p.Clone(), nil
	}
	return nil, domain.ErrProductNotFound
}

func (m *mockProductRepository) FindAll(_ context.Context) ([]*domain.Product, error) {
	m.calls = append(m.calls, "findAll")
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]*domain.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id].Clone())
	}
	return out, nil
}

func (m *mockProductRepository) Save(_ context.Context, p *domain.Product) (*domain.Product, error) {
	m.calls = append(m.calls, "save")
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	m.saves++
	if _, ok := m.store[p.ID()]; !ok {
		m.order = append(m.order, p.ID())
	}
	m.store[p.ID()] = p.Clone()
	return p.Clone(), nil
}

func (m *mockProductRepository) DeleteByID(_ context.Context, id domain.ProductID) error {
	m.calls = append(m.calls, "delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, id)
	delete(m.store, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type publishedEvent struct {
	kind   string
	id     domain.ProductID
	status domain.ProductStatus
}

type mockEventPublisher struct {
	events []publishedEvent
	err    error
	repo   *mockProductRepository
}

func (m *mockEventPublisher) record(kind string, id domain.ProductID, status domain.ProductStatus) error {
	m.events = append(m.events, publishedEvent{kind: kind, id: id, status: status})
	if m.repo != nil {
		m.repo.calls = append(m.repo.calls, "publish:"+kind)
	}
	return m.err
}

func (m *mockEventPublisher) PublishProductCreated(_ context.Context, p *domain.Product) error {
	return m.record("created", p.ID(), p.Status())
}

func (m *mockEventPublisher) PublishProductUpdated(_ context.Context, p *domain.Product) error {
	return m.record("updated", p.ID(), p.Status())
}

func (m *mockEventPublisher) PublishProductDeleted(_ context.Context, id domain.ProductID) error {
	return m.record("deleted", id, "")
}

func (m *mockEventPublisher) PublishProductActivated(_ context.Context, p *domain.Product) error {
	return m.record("activated", p.ID(), p.Status())
}

func (m *mockEventPublisher) PublishProductDeactivated(_ context.Context, p *domain.Product) error {
	return m.record("deactivated", p.ID(), p.Status())
}

func (m *mockEventPublisher) Reset() {
	m.events = nil
}

func setup(t *testing.T) (*ProductManagementService, *mockProductRepository, *mockEventPublisher) {
	t.Helper()
	return setupWithTracer(t, tracenoop.NewTracerProvider().Tracer("test"))
}

func setupWithTracer(t *testing.T, tracer trace.Tracer) (*ProductManagementService, *mockProductRepository, *mockEventPublisher) {
	t.Helper()
	return setupWith(t, tracer, metricnoop.NewMeterProvider().Meter("test"))
}

func setupWithMeter(t *testing.T, meter metric.Meter) (*ProductManagementService, *mockProductRepository, *mockEventPublisher) {
	t.Helper()
	return setupWith(t, tracenoop.NewTracerProvider().Tracer("test"), meter)
}

func setupWith(t *testing.T, tracer trace.Tracer, meter metric.Meter) (*ProductManagementService, *mockProductRepository, *mockEventPublisher) {
	t.Helper()
	repo := newMockRepository()
	publisher := &mockEventPublisher{repo: repo}
	svc := NewProductManagementService(
		repo,
		publisher,
		tracer,
		meter,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc, repo, publisher
}
