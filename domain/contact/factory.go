package contact

import (
	"github.com/akeren/landing-api/config/router"
	"github.com/akeren/landing-api/internal/log"
	"github.com/akeren/landing-api/pkg/factory"
	"gorm.io/gorm"
)

type ContactServiceFactory interface {
	CreateService() ContactService
	CreateController() *router.RESTController
}

type DefaultContactServiceFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	limiters factory.RateLimiterFactory
	opts     Options
}

func NewContactServiceFactory(db *gorm.DB, logger *log.Logger, limiters factory.RateLimiterFactory, opts Options) ContactServiceFactory {
	return &DefaultContactServiceFactory{
		db:       db,
		logger:   logger,
		limiters: limiters,
		opts:     opts,
	}
}

func (f *DefaultContactServiceFactory) CreateService() ContactService {
	return NewContactService(f.logger, NewContactRepository(f.db), f.opts.Mode)
}

func (f *DefaultContactServiceFactory) CreateController() *router.RESTController {
	return NewContactController(f.db, f.logger, f.limiters, f.opts)
}
