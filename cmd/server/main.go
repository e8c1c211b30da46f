package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-manager/internal/budgets"
	"finance-manager/internal/clients"
	"finance-manager/internal/config"
	"finance-manager/internal/events"
	"finance-manager/internal/expenses"
	"finance-manager/internal/handlers"
	"finance-manager/internal/httpapi"
	"finance-manager/internal/logging"
	"finance-manager/internal/notifications"
	"finance-manager/internal/storage"
	"finance-manager/internal/users"

	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(stderr)

	service := fs.String("service", os.Getenv("SERVICE"), "Service to run: user, budget, expense or notification")
	port := fs.Int("port", 0, "Port to listen on (overrides PORT)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*service)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Port = *port
	}

	logger := logging.New(cfg.Service, cfg.LogLevel, stdout)

	mux, closeAll, err := setupRouter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeAll()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.Middleware(cfg.Service, logger, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpapi.Serve(ctx, srv, logger)
}

// setupRouter wires the dependencies of cfg.Service and returns its routes
// together with a function releasing what was opened.
func setupRouter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*http.ServeMux, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Error().Err(err).Msg("close")
			}
		}
	}

	mux := http.NewServeMux()
	httpClient := clients.NewHTTPClient(cfg.HTTPClientTimeout)

	fail := func(err error) (*http.ServeMux, func(), error) {
		closeAll()
		return nil, func() {}, err
	}

	switch cfg.Service {
	case config.ServiceUser:
		db, err := openDB(ctx, cfg, logger, storage.TableUsers)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, db)

		svc, err := users.NewService(db, cfg.CacheSize)
		if err != nil {
			return fail(err)
		}
		handlers.NewUsers(svc).Register(mux)
		httpapi.MountOps(mux, db)

	case config.ServiceBudget:
		db, err := openDB(ctx, cfg, logger, storage.TableBudgets)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, db)

		svc, err := budgets.NewService(db, cfg.CacheSize)
		if err != nil {
			return fail(err)
		}
		userClient := clients.NewUserClient(cfg.Services.User, httpClient)
		handlers.NewBudgets(svc, userClient).Register(mux)
		httpapi.MountOps(mux, db)

	case config.ServiceExpense:
		db, err := openDB(ctx, cfg, logger, storage.TableExpenses)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, db)

		svc, err := expenses.NewService(db, cfg.CacheSize)
		if err != nil {
			return fail(err)
		}

		var pub events.Publisher = events.Noop{}
		if cfg.NATSURL != "" {
			nats, err := events.Connect(cfg.NATSURL, "finance-manager-"+cfg.Service, logger)
			if err != nil {
				return fail(fmt.Errorf("connect nats: %w", err))
			}
			pub = nats
		}
		closers = append(closers, pub)

		tracker := expenses.NewTracker(svc,
			clients.NewUserClient(cfg.Services.User, httpClient),
			clients.NewBudgetClient(cfg.Services.Budget, httpClient),
			clients.NewNotificationClient(cfg.Services.Notification, httpClient),
			pub,
		)
		handlers.NewExpenses(svc, tracker).Register(mux)
		httpapi.MountOps(mux, db)

	case config.ServiceNotification:
		var mailer notifications.Mailer = notifications.NewLogMailer(logger)
		if cfg.Mail.Host != "" {
			smtp, err := notifications.NewSMTPMailer(cfg.Mail)
			if err != nil {
				return fail(fmt.Errorf("smtp: %w", err))
			}
			mailer = smtp
		} else {
			logger.Warn().Msg("SMTP_HOST not set, notifications are only logged")
		}

		log, err := notifications.OpenLog(cfg.NotificationLog)
		if err != nil {
			return fail(fmt.Errorf("open notification log: %w", err))
		}
		closers = append(closers, log)

		notifier := notifications.NewNotifier(mailer, log, cfg.Mail.To, logger)
		handlers.NewNotifications(notifier).Register(mux)
		httpapi.MountOps(mux, nil)

	default:
		return fail(fmt.Errorf("unknown service %q", cfg.Service))
	}

	return mux, closeAll, nil
}

func openDB(ctx context.Context, cfg *config.Config, logger zerolog.Logger, table string) (*storage.DB, error) {
	db, err := storage.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx, table); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info().Str("driver", db.Driver()).Str("table", table).Msg("database ready")
	return db, nil
}
