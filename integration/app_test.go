package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"time"

	"github.com/akeren/landing-api/config"
	"github.com/akeren/landing-api/config/router"
	"github.com/akeren/landing-api/domain"
	"github.com/akeren/landing-api/internal/log"
	"github.com/akeren/landing-api/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testApp is the full router and domain wiring over a throwaway SQLite file.
type testApp struct {
	db        *gorm.DB
	server    *httptest.Server
	appConfig *config.ApplicationConfig
}

func startTestApp(s *suite.Suite, appCfg *config.AppConfig) *testApp {
	db, err := gorm.Open(sqlite.Open(filepath.Join(s.T().TempDir(), "landing.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(models.ModelRegistry...))

	logger := log.NewLogger(io.Discard, slog.LevelError)

	appConfig := &config.ApplicationConfig{
		DB:     db,
		Logger: logger,
		Config: appCfg,
	}
	appConfig.RouterService = router.CreateRouterService(logger, nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	s.Require().NoError(domain.SetupCoreDomain(appConfig))

	return &testApp{
		db:        db,
		server:    httptest.NewServer(appConfig.RouterService.GetEngine()),
		appConfig: appConfig,
	}
}

func (app *testApp) close() {
	if app == nil {
		return
	}
	app.server.Close()
	if sqlDB, err := app.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func defaultAppConfig() *config.AppConfig {
	return &config.AppConfig{
		RateLimitRequests:     100,
		RateLimitWindow:       time.Minute,
		RequestTimeout:        30 * time.Second,
		ContactValidationMode: "strict",
		ContactCORSEnabled:    true,
	}
}

type apiResponse struct {
	status int
	header http.Header
	raw    string
	body   map[string]any
}

func (app *testApp) do(s *suite.Suite, method, path string, payload any) apiResponse {
	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(p)
	default:
		encoded, err := json.Marshal(p)
		s.Require().NoError(err)
		body = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequest(method, app.server.URL+path, body)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	out := apiResponse{status: resp.StatusCode, header: resp.Header, raw: string(raw)}
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}
