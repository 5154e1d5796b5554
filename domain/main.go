package domain

import (
	"fmt"
	"time"

	"github.com/akeren/landing-api/config"
	"github.com/akeren/landing-api/domain/contact"
	"github.com/akeren/landing-api/domain/monitoring"
	"github.com/akeren/landing-api/domain/waitlist"
	"github.com/akeren/landing-api/pkg/constants"
	"github.com/akeren/landing-api/pkg/factory"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) error {
	mode, err := contact.ParseValidationMode(appConfig.Config.ContactValidationMode)
	if err != nil {
		return fmt.Errorf("setup contact domain: %w", err)
	}

	submissionLimiters := factory.NewDefaultRateLimiterFactory(constants.SubmissionRequestsPerMinute, time.Minute, appConfig.Cache, appConfig.Logger)
	monitoringLimiters := factory.NewDefaultRateLimiterFactory(monitoring.MonitoringRequestsPerMinute, time.Minute, appConfig.Cache, appConfig.Logger)

	rs := appConfig.RouterService
	rs.MountController(monitoring.NewMonitoringControllerFactory(appConfig.DB, appConfig.Logger, appConfig.Cache, monitoringLimiters).CreateController())
	rs.MountController(contact.NewContactServiceFactory(appConfig.DB, appConfig.Logger, submissionLimiters, contact.Options{
		Mode:        mode,
		CORSEnabled: appConfig.Config.ContactCORSEnabled,
	}).CreateController())
	rs.MountController(waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, submissionLimiters).CreateController())

	return nil
}
