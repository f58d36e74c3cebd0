// internal/orderstore/store.go
package orderstore

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "rank-boost/internal/common/errors"
	"rank-boost/internal/common/logger"
	"rank-boost/internal/common/metrics"
	"rank-boost/internal/common/observability"
	"rank-boost/internal/models"
	"rank-boost/internal/recommendation"
)

const (
	opCreate       = "create"
	opList         = "list"
	opUpdateStatus = "update_status"
)

// Store owns the order records. Create and UpdateStatus are serialized; List
// runs concurrently with them and relies on the repository for per-record atomicity.
type Store struct {
	mu     sync.Mutex
	repo   Repository
	engine *recommendation.Engine
	ids    *IDGenerator
	logger logger.Logger
	obs    *observability.Observability
}

type Option func(*Store)

func WithIDGenerator(g *IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

func WithObservability(obs *observability.Observability) Option {
	return func(s *Store) { s.obs = obs }
}

func New(repo Repository, engine *recommendation.Engine, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		engine: engine,
		ids:    NewIDGenerator(),
		logger: log.WithFields(map[string]interface{}{"component": "orderstore"}),
		obs:    observability.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create recommends a provider, stamps the envelope and persists the order.
// Caller-supplied envelope keys never reach the record.
func (s *Store) Create(ctx context.Context, req *models.OrderRequest) (*models.Order, error) {
	start := time.Now()

	rec := s.engine.Recommend(recommendation.Request{
		CurrentLevel: req.CurrentLevel(),
		TargetLevel:  req.TargetLevel(),
	})
	metrics.Recommendations.WithLabelValues(rec.Outcome()).Inc()

	providerName := rec.Provider.Name
	if providerName == "" {
		providerName = models.AutoMatchProvider
	}

	if len(req.Dropped) > 0 {
		s.logger.Warn("ignoring caller-supplied envelope fields", map[string]interface{}{
			"fields": req.Dropped,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ts := s.ids.Next()
	order := &models.Order{
		ID:                  id,
		Timestamp:           ts,
		Status:              models.StatusPending,
		RecommendedProvider: providerName,
		Fields:              req.Fields,
	}

	if err := s.repo.Save(ctx, order); err != nil {
		stdErr := apperrors.NewPersistenceError(id, err)
		s.fail(ctx, opCreate, start, stdErr)
		return nil, stdErr
	}

	metrics.OrdersCreated.Inc()
	s.obs.RecordOperation(ctx, opCreate, "ok", time.Since(start))
	s.logger.Info("order created", map[string]interface{}{
		"orderId":             order.ID,
		"currentLevel":        order.CurrentLevel(),
		"targetLevel":         order.TargetLevel(),
		"recommendedProvider": order.RecommendedProvider,
		"outcome":             rec.Outcome(),
	})
	return order, nil
}

// List returns every readable order, newest first. If storage cannot be read
// it logs, counts the failure and returns an empty slice instead of an error.
func (s *Store) List(ctx context.Context) []*models.Order {
	start := time.Now()

	orders, err := s.scan(ctx)
	if err != nil {
		metrics.OrderListDegraded.Inc()
		s.obs.RecordOperation(ctx, opList, string(apperrors.ErrCodeReadFailed), time.Since(start))
		s.logger.Warn("order listing degraded to empty result", map[string]interface{}{
			"error": err,
		})
		return []*models.Order{}
	}

	s.obs.RecordOperation(ctx, opList, "ok", time.Since(start))
	return orders
}

// UpdateStatus sets the status of an existing order and rewrites its record.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	start := time.Now()

	if status == "" {
		stdErr := apperrors.NewStatusRequiredError()
		s.fail(ctx, opUpdateStatus, start, stdErr)
		return nil, stdErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.scan(ctx)
	if err != nil {
		stdErr := apperrors.NewReadError(err)
		s.fail(ctx, opUpdateStatus, start, stdErr)
		return nil, stdErr
	}

	var found *models.Order
	for _, o := range orders {
		if o.ID == id {
			found = o
			break
		}
	}
	if found == nil {
		stdErr := apperrors.NewOrderNotFoundError(id)
		s.fail(ctx, opUpdateStatus, start, stdErr)
		return nil, stdErr
	}

	previous := found.Status
	updated := found.Clone()
	updated.Status = status
	if err := s.repo.Save(ctx, updated); err != nil {
		stdErr := apperrors.NewPersistenceError(id, err)
		s.fail(ctx, opUpdateStatus, start, stdErr)
		return nil, stdErr
	}

	metrics.OrderStatusUpdates.WithLabelValues(statusLabel(status)).Inc()
	s.obs.RecordOperation(ctx, opUpdateStatus, "ok", time.Since(start))
	s.logger.Info("order status updated", map[string]interface{}{
		"orderId": id,
		"from":    previous,
		"to":      status,
	})
	return updated, nil
}

func (s *Store) Close() error {
	return s.repo.Close()
}

// scan loads all records, skips corrupt ones and sorts newest first.
func (s *Store) scan(ctx context.Context) ([]*models.Order, error) {
	result, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range result.Corrupt {
		metrics.OrderCorruptRecords.Inc()
		s.logger.Error("skipping corrupt order record", map[string]interface{}{
			"key":   c.Key,
			"error": c.Err,
		})
	}

	orders := result.Orders
	if orders == nil {
		orders = []*models.Order{}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Timestamp > orders[j].Timestamp
	})
	return orders, nil
}

func (s *Store) fail(ctx context.Context, op string, start time.Time, err *apperrors.StandardError) {
	metrics.OrderStoreErrors.WithLabelValues(op, string(err.Code)).Inc()
	s.obs.RecordOperation(ctx, op, string(err.Code), time.Since(start))
	s.logger.Error("order store operation failed", map[string]interface{}{
		"operation": op,
		"errorCode": err.Code,
		"error":     err,
	})
}

// statusLabel bounds the metric label set; status itself is an open string.
func statusLabel(status string) string {
	switch status {
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled:
		return status
	default:
		return "other"
	}
}
