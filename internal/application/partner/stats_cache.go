package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verone/backoffice/internal/domain/partner"
	"github.com/verone/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultStatsTTL is used when the configured TTL is not positive
const DefaultStatsTTL = 5 * time.Minute

// StatsCache stores computed enseigne statistics
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func statsCacheKey(enseigneID uuid.UUID) string {
	return fmt.Sprintf("enseigne:stats:%s", enseigneID)
}

// StatsInvalidator drops cached enseigne statistics when membership changes
type StatsInvalidator struct {
	cache  StatsCache
	logger *zap.Logger
}

// NewStatsInvalidator creates a new StatsInvalidator
func NewStatsInvalidator(cache StatsCache, logger *zap.Logger) *StatsInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsInvalidator{cache: cache, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *StatsInvalidator) EventTypes() []string {
	return []string{
		partner.EventTypeEnseigneMembersChanged,
		partner.EventTypeEnseigneParentChanged,
		partner.EventTypeOrganisationArchived,
		partner.EventTypeOrganisationUnarchived,
	}
}

// Handle implements shared.EventHandler
func (h *StatsInvalidator) Handle(ctx context.Context, evt shared.DomainEvent) error {
	var enseigneID uuid.UUID
	switch e := evt.(type) {
	case *partner.EnseigneMembersChangedEvent:
		enseigneID = e.EnseigneID
	case *partner.EnseigneParentChangedEvent:
		enseigneID = e.EnseigneID
	case *partner.OrganisationArchivedEvent:
		if e.EnseigneID == nil {
			return nil
		}
		enseigneID = *e.EnseigneID
	default:
		return nil
	}

	if err := h.cache.Delete(ctx, statsCacheKey(enseigneID)); err != nil {
		return fmt.Errorf("invalidate enseigne stats: %w", err)
	}
	h.logger.Debug("Enseigne stats invalidated",
		zap.String("enseigne_id", enseigneID.String()),
		zap.String("event_type", evt.EventType()),
	)
	return nil
}

var _ shared.EventHandler = (*StatsInvalidator)(nil)
