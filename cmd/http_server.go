package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/activity"
	activitypg "github.com/crmkit/lead-management/internal/activity/postgres"
	"github.com/crmkit/lead-management/internal/audit"
	auditpg "github.com/crmkit/lead-management/internal/audit/postgres"
	"github.com/crmkit/lead-management/internal/auth"
	authpg "github.com/crmkit/lead-management/internal/auth/postgres"
	"github.com/crmkit/lead-management/internal/billing"
	billingpg "github.com/crmkit/lead-management/internal/billing/postgres"
	"github.com/crmkit/lead-management/internal/catalog"
	catalogpg "github.com/crmkit/lead-management/internal/catalog/postgres"
	"github.com/crmkit/lead-management/internal/contact"
	contactpg "github.com/crmkit/lead-management/internal/contact/postgres"
	counterpg "github.com/crmkit/lead-management/internal/counter/postgres"
	"github.com/crmkit/lead-management/internal/expense"
	expensepg "github.com/crmkit/lead-management/internal/expense/postgres"
	"github.com/crmkit/lead-management/internal/followup"
	followuppg "github.com/crmkit/lead-management/internal/followup/postgres"
	"github.com/crmkit/lead-management/internal/lead"
	leadpg "github.com/crmkit/lead-management/internal/lead/postgres"
	"github.com/crmkit/lead-management/internal/organization"
	organizationpg "github.com/crmkit/lead-management/internal/organization/postgres"
	"github.com/crmkit/lead-management/internal/referrer"
	referrerpg "github.com/crmkit/lead-management/internal/referrer/postgres"
	"github.com/crmkit/lead-management/internal/report"
	reportpg "github.com/crmkit/lead-management/internal/report/postgres"
	"github.com/crmkit/lead-management/internal/role"
	rolepg "github.com/crmkit/lead-management/internal/role/postgres"
	"github.com/crmkit/lead-management/internal/transport/rest"
	"github.com/crmkit/lead-management/internal/user"
	userpg "github.com/crmkit/lead-management/internal/user/postgres"
	"github.com/crmkit/lead-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the same pgx pool the health check pings.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	lg := logger.LoggerWrapper()
	router := chi.NewRouter()

	handlers := buildHandlers(config, gormDB, lg)
	rest.RegisterAllRoutes(router, db.DB, handlers, config, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// buildHandlers constructs the full service graph. Order matters for the
// cross-module links: leads before contacts and follow-ups, follow-ups before
// activities, organizations before billing.
func buildHandlers(config *internal.Config, gormDB *gorm.DB, lg *slog.Logger) rest.Handlers {
	auditService := audit.NewService(auditpg.NewAuditRepository(gormDB), lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authpg.NewRepository(gormDB), tokenGen, config.Security.BCryptCost)

	counterRepo := counterpg.NewCounterRepository(gormDB)

	leadService := lead.NewService(leadpg.NewLeadRepository(gormDB), auditService, lg)
	contactService := contact.NewService(contactpg.NewContactRepository(gormDB), leadService, auditService, lg)
	leadService.SetContactConverter(contactService)

	followUpService := followup.NewService(followuppg.NewFollowUpRepository(gormDB), leadService, auditService, lg)
	activityService := activity.NewService(activitypg.NewActivityRepository(gormDB), followUpService, contactService, auditService, lg)

	organizationService := organization.NewService(organizationpg.NewOrganizationRepository(gormDB), auditService, lg)
	billingService := billing.NewService(billingpg.NewBillingRepository(gormDB), counterRepo, organizationService, auditService, lg)

	catalogManager := catalog.NewManager(catalogpg.NewServiceRepository(gormDB), auditService, lg)
	referrerService := referrer.NewService(referrerpg.NewReferrerRepository(gormDB), auditService, lg)
	expenseService := expense.NewService(expensepg.NewExpenseRepository(gormDB), auditService, lg)
	userService := user.NewService(userpg.NewUserRepository(gormDB), auditService, lg, config.Security.BCryptCost)
	roleService := role.NewService(rolepg.NewRoleRepository(gormDB), auditService, lg)
	reportService := report.NewService(reportpg.NewReportRepository(gormDB), lg)

	return rest.Handlers{
		Auth:         auth.NewHandler(authService, config.Security.RefreshTokenDuration),
		User:         user.NewHandler(userService),
		Organization: organization.NewHandler(organizationService),
		Role:         role.NewHandler(roleService),
		Lead:         lead.NewHandler(leadService),
		Contact:      contact.NewHandler(contactService),
		FollowUp:     followup.NewHandler(followUpService),
		Activity:     activity.NewHandler(activityService),
		Billing:      billing.NewHandler(billingService),
		Catalog:      catalog.NewHandler(catalogManager),
		Referrer:     referrer.NewHandler(referrerService),
		Expense:      expense.NewHandler(expenseService),
		Report:       report.NewHandler(reportService),
		Audit:        audit.NewHandler(auditService),
	}
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
