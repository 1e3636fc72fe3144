package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/escopo/escopo-backend-go/internal/config"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	appHTTP "github.com/escopo/escopo-backend-go/internal/handler/http"
	"github.com/escopo/escopo-backend-go/internal/pkg/database"
	"github.com/escopo/escopo-backend-go/internal/pkg/jwt"
	"github.com/escopo/escopo-backend-go/internal/pkg/logging"
	"github.com/escopo/escopo-backend-go/internal/pkg/metrics"
	"github.com/escopo/escopo-backend-go/internal/repository/postgresql"
	employeeService "github.com/escopo/escopo-backend-go/internal/service/employee"
	payrollService "github.com/escopo/escopo-backend-go/internal/service/payroll"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := logging.New(os.Stdout, logging.Options{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		App:     cfg.App.Name,
		Version: cfg.App.Version,
	})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := db.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("error applying migrations: %w", err)
		}
		logger.Info("migrations applied", slog.Any("versions", applied))
	}

	tables, err := loadTaxTables(cfg.Payroll.TaxTablesFile)
	if err != nil {
		return err
	}
	logger.Info("tax tables loaded", slog.Any("years", tables.Years()))

	employeeRepo := postgresql.NewEmployeeRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	txManager := postgresql.NewTxManager(db)

	m := metrics.New(cfg.Payroll.MetricsNamespace)

	payrollSvc := payrollService.NewPayrollService(txManager, payrollRepo, employeeRepo, tables, m, logger)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(JWTService, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
		Metrics:        m.Handler(),
	}, payrollHandler, employeeHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.App.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}

// loadTaxTables reads path when set and falls back to the tables built into the binary.
func loadTaxTables(path string) (*payroll.TaxTableSet, error) {
	if path == "" {
		return payroll.NewTaxTableSet(payroll.DefaultTaxTables()...)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening tax tables: %w", err)
	}
	defer f.Close()

	tables, err := payroll.ReadTaxTables(f)
	if err != nil {
		return nil, err
	}
	return payroll.NewTaxTableSet(tables...)
}
