package router

import (
	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/usecase"
	"flight-history-collector/pkg/logger"
)

// TargetRouter routes targets to the collector registered for their kind
type TargetRouter struct {
	collectors map[entity.TargetKind]usecase.TargetCollector
	logger     logger.Logger
}

// NewTargetRouter creates a new target router
func NewTargetRouter(logger logger.Logger) *TargetRouter {
	return &TargetRouter{
		collectors: make(map[entity.TargetKind]usecase.TargetCollector),
		logger:     logger,
	}
}

// Register registers the collector for a target kind, replacing any previous one
func (r *TargetRouter) Register(kind entity.TargetKind, collector usecase.TargetCollector) {
	r.collectors[kind] = collector
	r.logger.Debug("Registered collector", "kind", kind.String())
}

// GetCollector returns the collector for a target
func (r *TargetRouter) GetCollector(target entity.Target) usecase.TargetCollector {
	return r.collectors[target.Kind()]
}
