package insight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/verone/backoffice/internal/domain/catalog"
	"github.com/verone/backoffice/internal/domain/finance"
	"github.com/verone/backoffice/internal/domain/insight"
	"github.com/verone/backoffice/internal/domain/rental"
	"github.com/verone/backoffice/internal/domain/shared"
	"github.com/verone/backoffice/internal/domain/trade"
	"github.com/verone/backoffice/internal/infrastructure/scheduler"
	"github.com/verone/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// RunJobName names prediction runs submitted to the scheduler
const RunJobName = "insight-prediction-run"

// MetricsRecorder receives the outcome of prediction runs
type MetricsRecorder interface {
	ObserveSummary(s insight.BusinessSummary)
	ObservePredictionRun(published int, err error)
}

// PredictionServiceOption configures a PredictionService
type PredictionServiceOption func(*PredictionService)

// WithSnapshotCache shares snapshots across instances through the cache
func WithSnapshotCache(cache insight.SnapshotCache) PredictionServiceOption {
	return func(s *PredictionService) {
		s.cache = cache
	}
}

// WithMetrics publishes run outcomes to the recorder
func WithMetrics(metrics MetricsRecorder) PredictionServiceOption {
	return func(s *PredictionService) {
		s.metrics = metrics
	}
}

// WithRules replaces the default rule set
func WithRules(rules ...insight.Rule) PredictionServiceOption {
	return func(s *PredictionService) {
		s.rules = rules
	}
}

// PredictionService computes the business summary and derives predictions
// from it. The latest snapshot is kept in memory.
type PredictionService struct {
	orderRepo      trade.SalesOrderRepository
	invoiceRepo    finance.InvoiceRepository
	collectionRepo catalog.CollectionRepository
	contractRepo   rental.ContractRepository
	cache          insight.SnapshotCache
	metrics        MetricsRecorder
	rules          []insight.Rule
	logger         *zap.Logger
	now            func() time.Time

	mu     sync.RWMutex
	latest *insight.Snapshot
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(
	orderRepo trade.SalesOrderRepository,
	invoiceRepo finance.InvoiceRepository,
	collectionRepo catalog.CollectionRepository,
	contractRepo rental.ContractRepository,
	logger *zap.Logger,
	opts ...PredictionServiceOption,
) *PredictionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PredictionService{
		orderRepo:      orderRepo,
		invoiceRepo:    invoiceRepo,
		collectionRepo: collectionRepo,
		contractRepo:   contractRepo,
		rules:          insight.DefaultRules,
		logger:         logger,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Task returns the scheduler task performing one run
func (s *PredictionService) Task() scheduler.TaskFunc {
	return func(ctx context.Context) error {
		_, err := s.Run(ctx)
		return err
	}
}

// ComputeSummary aggregates persisted activity over the summary window
func (s *PredictionService) ComputeSummary(ctx context.Context) (insight.BusinessSummary, error) {
	end := s.now()
	summary := insight.NewBusinessSummary(end)
	excluded := trade.NonRevenueStatuses()

	current, err := s.orderRepo.Summarize(ctx, summary.PeriodStart, end, excluded)
	if err != nil {
		return summary, fmt.Errorf("summarize orders: %w", err)
	}
	previous, err := s.orderRepo.Summarize(ctx, summary.PeriodStart.Add(-insight.SummaryWindow), summary.PeriodStart, excluded)
	if err != nil {
		return summary, fmt.Errorf("summarize previous orders: %w", err)
	}
	summary.OrdersCount = current.OrdersCount
	summary.RevenueTTC = current.RevenueTTC
	summary.RevenueHT = current.RevenueHT
	summary.TotalCommission = current.TotalCommission
	summary.PreviousRevenueHT = previous.RevenueHT

	if summary.OpenInvoicesAmount, err = s.invoiceRepo.SumOutstanding(ctx); err != nil {
		return summary, fmt.Errorf("sum open invoices: %w", err)
	}
	if summary.ActiveCollections, err = s.collectionRepo.CountActive(ctx); err != nil {
		return summary, fmt.Errorf("count active collections: %w", err)
	}

	contracts, err := s.contractRepo.FindAllForStatistics(ctx, shared.DefaultFilter())
	if err != nil {
		return summary, fmt.Errorf("load contracts: %w", err)
	}
	stats := rental.ComputeStatistics(contracts, end)
	summary.ActiveContracts = stats.Active
	summary.TotalContracts = stats.Total

	summary.Finalize()
	return summary, nil
}

// Run computes a fresh summary, evaluates the rules and replaces the latest
// snapshot. Predictions of the previous run that no rule produced again are
// carried over until they expire.
func (s *PredictionService) Run(ctx context.Context) (snapshot *insight.Snapshot, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "insight", "run")
	defer func() {
		telemetry.EndSpan(span, err)
		if s.metrics != nil {
			published := 0
			if snapshot != nil {
				published = len(snapshot.Predictions)
			}
			s.metrics.ObservePredictionRun(published, err)
		}
	}()

	summary, err := s.ComputeSummary(ctx)
	if err != nil {
		s.logger.Error("Prediction run failed", zap.Error(err))
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveSummary(summary)
	}

	now := s.now()
	fresh := insight.Evaluate(summary, now, s.rules)
	predictions := s.mergeWithPrevious(ctx, fresh, now)

	snapshot = &insight.Snapshot{
		Summary:     summary,
		Predictions: predictions,
		GeneratedAt: now,
	}
	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, snapshot); cacheErr != nil {
			s.logger.Warn("Failed to cache prediction snapshot", zap.Error(cacheErr))
		}
	}

	s.logger.Info("Prediction run completed",
		zap.Int64("orders", summary.OrdersCount),
		zap.String("revenue_ttc", summary.RevenueTTC.StringFixed(2)),
		zap.Int("predictions", len(predictions)),
	)
	return snapshot, nil
}

func (s *PredictionService) mergeWithPrevious(ctx context.Context, fresh []insight.Prediction, now time.Time) []insight.Prediction {
	previous := s.snapshot(ctx)
	if previous == nil {
		return insight.PruneExpired(fresh, now)
	}

	produced := make(map[insight.PredictionType]struct{}, len(fresh))
	for _, p := range fresh {
		produced[p.Type] = struct{}{}
	}
	merged := append([]insight.Prediction{}, fresh...)
	for _, p := range previous.Predictions {
		if _, ok := produced[p.Type]; !ok {
			merged = append(merged, p)
		}
	}
	merged = insight.PruneExpired(merged, now)
	insight.SortPredictions(merged)
	return merged
}

// Summary returns the summary of the latest snapshot, running once when
// no snapshot exists yet
func (s *PredictionService) Summary(ctx context.Context) (*SummaryResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToSummaryResponse(snapshot)
	return &resp, nil
}

// Predictions returns the unexpired predictions of the latest snapshot
func (s *PredictionService) Predictions(ctx context.Context, filter PredictionFilter) (*PredictionsResponse, error) {
	snapshot, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	live := filter.apply(insight.PruneExpired(snapshot.Predictions, s.now()))
	return &PredictionsResponse{
		Predictions: live,
		GeneratedAt: snapshot.GeneratedAt,
		Total:       len(live),
	}, nil
}

// TriggerRun performs a run immediately
func (s *PredictionService) TriggerRun(ctx context.Context) (*RunResponse, error) {
	snapshot, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	return &RunResponse{
		Summary:     ToSummaryResponse(snapshot),
		Predictions: snapshot.Predictions,
	}, nil
}

func (s *PredictionService) current(ctx context.Context) (*insight.Snapshot, error) {
	if snapshot := s.snapshot(ctx); snapshot != nil {
		return snapshot, nil
	}
	return s.Run(ctx)
}

// snapshot returns the in-memory snapshot, falling back to the cache
func (s *PredictionService) snapshot(ctx context.Context) *insight.Snapshot {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()
	if latest != nil || s.cache == nil {
		return latest
	}

	cached, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("Failed to read cached prediction snapshot", zap.Error(err))
		return nil
	}
	if cached != nil {
		s.mu.Lock()
		if s.latest == nil {
			s.latest = cached
		}
		latest = s.latest
		s.mu.Unlock()
	}
	return latest
}
