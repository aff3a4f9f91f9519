package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/binti59/finance-app/internal/domain/account"
	"github.com/binti59/finance-app/internal/domain/asset"
	"github.com/binti59/finance-app/internal/domain/budget"
	"github.com/binti59/finance-app/internal/domain/category"
	"github.com/binti59/finance-app/internal/domain/goal"
	"github.com/binti59/finance-app/internal/domain/insights"
	"github.com/binti59/finance-app/internal/domain/kpi"
	"github.com/binti59/finance-app/internal/domain/liability"
	"github.com/binti59/finance-app/internal/domain/notification"
	"github.com/binti59/finance-app/internal/domain/report"
	"github.com/binti59/finance-app/internal/domain/transaction"
	"github.com/binti59/finance-app/internal/domain/user"
	"github.com/binti59/finance-app/internal/infrastructure/firebase"
	"github.com/binti59/finance-app/internal/infrastructure/postgres"
	httpiface "github.com/binti59/finance-app/internal/interfaces/http"
	"github.com/binti59/finance-app/internal/shared/auth"
	"github.com/binti59/finance-app/internal/shared/config"
)

// Dependencies holds everything the HTTP layer and the scheduler need.
// Built once at startup and torn down in Close.
type Dependencies struct {
	DB  *postgres.DB
	JWT *auth.JWT

	Users user.Repository

	KPIService          *kpi.Service
	BudgetService       *budget.Service
	NotificationService *notification.Service

	AuthHandler         *httpiface.AuthHandler
	AccountHandler      *httpiface.AccountHandler
	TransactionHandler  *httpiface.TransactionHandler
	CategoryHandler     *httpiface.CategoryHandler
	BudgetHandler       *httpiface.BudgetHandler
	AssetHandler        *httpiface.AssetHandler
	LiabilityHandler    *httpiface.LiabilityHandler
	GoalHandler         *httpiface.GoalHandler
	KPIHandler          *httpiface.KPIHandler
	InsightsHandler     *httpiface.InsightsHandler
	ReportHandler       *httpiface.ReportHandler
	NotificationHandler *httpiface.NotificationHandler
}

func NewDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	budgetRepo := postgres.NewBudgetRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	liabilityRepo := postgres.NewLiabilityRepository(db)
	goalRepo := postgres.NewGoalRepository(db)
	kpiRepo := postgres.NewKPIRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	if err := categoryRepo.SeedDefaults(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed default categories: %w", err)
	}

	// Push notifications are optional: without Firebase credentials the
	// notification service still records in-app notifications.
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fbClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, notificationRepo.DeactivateToken, log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize firebase: %w", err)
		}
		messenger = fbClient
	} else {
		log.Warn().Msg("firebase credentials not configured, push delivery disabled")
	}

	accountService := account.NewService(accountRepo, transactionRepo)
	transactionService := transaction.NewService(transactionRepo, accountRepo)
	categoryService := category.NewService(categoryRepo)
	budgetService := budget.NewService(budgetRepo, categoryRepo, transactionRepo)
	assetService := asset.NewService(assetRepo)
	liabilityService := liability.NewService(liabilityRepo)
	goalService := goal.NewService(goalRepo)
	kpiService := kpi.NewService(kpiRepo, assetRepo, liabilityRepo, transactionRepo)
	insightsService := insights.NewService(accountRepo, assetRepo, liabilityRepo, transactionRepo, categoryRepo, kpiRepo)
	reportService := report.NewService(reportRepo, kpiService, budgetService, assetService, insightsService)
	notificationService := notification.NewService(notificationRepo, messenger, log)

	jwt := auth.NewJWT(cfg.JWT.Secret)

	return &Dependencies{
		DB:  db,
		JWT: jwt,

		Users: userRepo,

		KPIService:          kpiService,
		BudgetService:       budgetService,
		NotificationService: notificationService,

		AuthHandler:         httpiface.NewAuthHandler(userRepo, jwt),
		AccountHandler:      httpiface.NewAccountHandler(accountService),
		TransactionHandler:  httpiface.NewTransactionHandler(transactionService),
		CategoryHandler:     httpiface.NewCategoryHandler(categoryService),
		BudgetHandler:       httpiface.NewBudgetHandler(budgetService),
		AssetHandler:        httpiface.NewAssetHandler(assetService),
		LiabilityHandler:    httpiface.NewLiabilityHandler(liabilityService),
		GoalHandler:         httpiface.NewGoalHandler(goalService),
		KPIHandler:          httpiface.NewKPIHandler(kpiService),
		InsightsHandler:     httpiface.NewInsightsHandler(insightsService),
		ReportHandler:       httpiface.NewReportHandler(reportService),
		NotificationHandler: httpiface.NewNotificationHandler(notificationService),
	}, nil
}

func (d *Dependencies) Close() error {
	return d.DB.Close()
}
