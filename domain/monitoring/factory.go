package monitoring

import (
	"github.com/akeren/landing-api/config/router"
	"github.com/akeren/landing-api/internal/log"
	"github.com/akeren/landing-api/pkg/factory"
	"gorm.io/gorm"
)

// MonitoringRequestsPerMinute is tighter than the router default.
const MonitoringRequestsPerMinute = 10

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	cache    Cache
	limiters factory.RateLimiterFactory
}

func NewMonitoringControllerFactory(db *gorm.DB, logger *log.Logger, cache Cache, limiters factory.RateLimiterFactory) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		db:       db,
		logger:   logger,
		cache:    cache,
		limiters: limiters,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache, f.limiters)
}
