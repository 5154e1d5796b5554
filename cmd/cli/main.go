package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/akeren/landing-api/config"
	"github.com/akeren/landing-api/domain/contact"
	"github.com/akeren/landing-api/domain/waitlist"
	"github.com/akeren/landing-api/internal/log"
	"github.com/akeren/landing-api/pkg/migrations"
	"github.com/akeren/landing-api/pkg/utils"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger)

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "migrate":
		err = runMigrations(logger, func(ctx context.Context, db *gorm.DB, cfg migrations.Config) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return migrations.Up(ctx, sqlDB, cfg)
		})

	case "migrate-down":
		steps := 1
		if len(args) > 1 {
			if steps, err = strconv.Atoi(args[1]); err != nil {
				err = fmt.Errorf("invalid step count %q: %w", args[1], err)
				break
			}
		}
		err = runMigrations(logger, func(ctx context.Context, db *gorm.DB, cfg migrations.Config) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return migrations.Down(ctx, sqlDB, cfg, steps)
		})

	case "stats":
		err = printStats(logger, os.Stdout)

	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Command failed", "command", args[0], "error", err.Error())
		os.Exit(1)
	}
}

func openDatabase(ctx context.Context, logger *log.Logger) (*gorm.DB, error) {
	db, err := config.NewDatabase(ctx, logger, config.NewDBConfigFromEnv())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func runMigrations(logger *log.Logger, op func(context.Context, *gorm.DB, migrations.Config) error) error {
	dbCfg := config.NewDBConfigFromEnv()
	if dbCfg.Driver == config.DriverSQLite {
		return fmt.Errorf("SQL migrations target PostgreSQL; start the server with --auto-migrate when DB_DRIVER=sqlite")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := openDatabase(ctx, logger)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	cfg := migrations.Config{
		Dir:    utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
		Logger: logger,
	}
	if err := op(ctx, db, cfg); err != nil {
		return err
	}

	logger.Info("Database migrations completed")
	return nil
}

type counter interface {
	Count(ctx context.Context) (int64, error)
}

func printStats(logger *log.Logger, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := openDatabase(ctx, logger)
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	return writeStats(ctx, out, []statSource{
		{label: "waitlist entries", source: waitlist.NewWaitlistRepository(db)},
		{label: "contact submissions", source: contact.NewContactRepository(db)},
	})
}

type statSource struct {
	label  string
	source counter
}

func writeStats(ctx context.Context, out io.Writer, sources []statSource) error {
	title := cases.Title(language.English)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for _, s := range sources {
		count, err := s.source.Count(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", s.label, err)
		}
		fmt.Fprintf(w, "%s\t%d\n", title.String(s.label), count)
	}

	return w.Flush()
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage: cli <command>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  migrate            Apply pending SQL migrations and exit")
	fmt.Fprintln(out, "  migrate-down [n]   Roll back the last n migrations (default 1)")
	fmt.Fprintln(out, "  stats              Print row counts for waitlist entries and contact submissions")
	fmt.Fprintln(out, "  help               Show this message")
}
