package migrations

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
)

type testLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (l *testLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *testLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *testLogger) Error(string, ...any) {}

func (l *testLogger) hasInfo(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.infos {
		if m == msg {
			return true
		}
	}
	return false
}

type fakeMigrator struct {
	upErr     error
	stepsErr  error
	gotSteps  int
	version   uint
	closed    atomic.Bool
	blockUpCh chan struct{}
}

func (m *fakeMigrator) Up() error {
	if m.blockUpCh != nil {
		<-m.blockUpCh
	}
	return m.upErr
}

func (m *fakeMigrator) Steps(n int) error {
	m.gotSteps = n
	return m.stepsErr
}

func (m *fakeMigrator) Version() (uint, bool, error) {
	if m.version == 0 {
		return 0, false, migrate.ErrNilVersion
	}
	return m.version, false, nil
}

func (m *fakeMigrator) Close() (error, error) {
	if m.closed.CompareAndSwap(false, true) && m.blockUpCh != nil {
		close(m.blockUpCh)
	}
	return nil, nil
}

// stubFactories swaps the package factories for the duration of the test and
// records the source URL handed to the migrator factory.
func stubFactories(t *testing.T, m *fakeMigrator, initErr error) *string {
	t.Helper()

	origDriverFactory := driverFactory
	origMigratorFactory := migratorFactory
	t.Cleanup(func() {
		driverFactory = origDriverFactory
		migratorFactory = origMigratorFactory
	})

	var sourceURL string
	driverFactory = func(_ *sql.DB, cfg Config) (database.Driver, error) {
		if cfg.MigrationsTable == "" {
			t.Fatalf("expected migrations table to be defaulted")
		}
		return nil, nil
	}
	migratorFactory = func(u string, _ database.Driver) (migrator, error) {
		sourceURL = u
		if initErr != nil {
			return nil, initErr
		}
		return m, nil
	}

	return &sourceURL
}

func TestUp_NilDB(t *testing.T) {
	if err := Up(context.Background(), nil, Config{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUp_ContextAlreadyCancelled_SkipsDriver(t *testing.T) {
	sourceURL := stubFactories(t, &fakeMigrator{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if *sourceURL != "" {
		t.Fatalf("expected no migrator creation when ctx already cancelled")
	}
}

func TestUp_DeadlineClosesMigrator(t *testing.T) {
	m := &fakeMigrator{blockUpCh: make(chan struct{})}
	stubFactories(t, m, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := Up(ctx, &sql.DB{}, Config{Dir: t.TempDir()})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if !m.closed.Load() {
		t.Fatalf("expected migrator.Close on ctx cancellation")
	}
}

func TestUp_ErrNoChange_ReturnsNil(t *testing.T) {
	stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)
	logger := &testLogger{}

	if err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !logger.hasInfo("No migrations to apply") {
		t.Fatalf("expected 'No migrations to apply' log")
	}
}

func TestUp_Success_LogsApplied(t *testing.T) {
	stubFactories(t, &fakeMigrator{version: 2}, nil)
	logger := &testLogger{}

	if err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir(), Logger: logger}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !logger.hasInfo("Migrations applied successfully") {
		t.Fatalf("expected 'Migrations applied successfully' log")
	}
}

func TestUp_MigratorInitError(t *testing.T) {
	stubFactories(t, nil, errors.New("boom"))

	err := Up(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "migrations: init") {
		t.Fatalf("expected wrapped init error, got %v", err)
	}
}

func TestUp_BuildsEscapedFileSourceURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sql migrations")
	sourceURL := stubFactories(t, &fakeMigrator{upErr: migrate.ErrNoChange}, nil)

	if err := Up(context.Background(), &sql.DB{}, Config{Dir: dir}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	parsed, err := url.Parse(*sourceURL)
	if err != nil {
		t.Fatalf("sourceURL is not a valid URL: %v", err)
	}
	abs, _ := filepath.Abs(dir)
	if parsed.Scheme != "file" || parsed.Path != filepath.ToSlash(abs) {
		t.Fatalf("unexpected source URL %q", *sourceURL)
	}
}

func TestDown_StepsBackwards(t *testing.T) {
	m := &fakeMigrator{version: 1}
	stubFactories(t, m, nil)

	if err := Down(context.Background(), &sql.DB{}, Config{Dir: t.TempDir()}, 2); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if m.gotSteps != -2 {
		t.Fatalf("expected Steps(-2), got Steps(%d)", m.gotSteps)
	}
}

func TestDown_RejectsNonPositiveSteps(t *testing.T) {
	if err := Down(context.Background(), &sql.DB{}, Config{}, 0); err == nil {
		t.Fatalf("expected error for zero steps")
	}
}
