package main

import (
	"net/http"

	httpiface "github.com/binti59/finance-app/internal/interfaces/http"
	"github.com/binti59/finance-app/internal/shared/config"
	"github.com/binti59/finance-app/internal/shared/middleware"
)

// SetupRoutes builds the full route table and wraps it in the shared
// middleware chain. Everything under /api except the auth entry points
// requires a valid token.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	authed := middleware.Auth(deps.JWT)

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}

	mux.HandleFunc("/health", httpiface.HandleHealth)

	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)
	protected("/api/auth/me", deps.AuthHandler.HandleMe)

	protected("/api/accounts", deps.AccountHandler.HandleAccounts)
	protected("/api/accounts/{id}", deps.AccountHandler.HandleAccountByID)
	protected("/api/accounts/{id}/history", deps.AccountHandler.HandleBalanceHistory)

	protected("/api/transactions", deps.TransactionHandler.HandleTransactions)
	protected("/api/transactions/recurring", deps.TransactionHandler.HandleRecurring)
	protected("/api/transactions/{id}", deps.TransactionHandler.HandleTransactionByID)

	protected("/api/categories", deps.CategoryHandler.HandleCategories)
	protected("/api/categories/{id}", deps.CategoryHandler.HandleCategoryByID)

	protected("/api/budgets", deps.BudgetHandler.HandleBudgets)
	protected("/api/budgets/performance", deps.BudgetHandler.HandlePerformance)
	protected("/api/budgets/recommendations", deps.BudgetHandler.HandleRecommendations)
	protected("/api/budgets/{id}", deps.BudgetHandler.HandleBudgetByID)

	protected("/api/assets", deps.AssetHandler.HandleAssets)
	protected("/api/assets/performance", deps.AssetHandler.HandlePerformance)
	protected("/api/assets/allocation", deps.AssetHandler.HandleAllocation)
	protected("/api/assets/{id}", deps.AssetHandler.HandleAssetByID)

	protected("/api/liabilities", deps.LiabilityHandler.HandleLiabilities)
	protected("/api/liabilities/summary", deps.LiabilityHandler.HandleSummary)
	protected("/api/liabilities/{id}", deps.LiabilityHandler.HandleLiabilityByID)

	protected("/api/goals", deps.GoalHandler.HandleGoals)
	protected("/api/goals/recommendations", deps.GoalHandler.HandleRecommendations)
	protected("/api/goals/{id}", deps.GoalHandler.HandleGoalByID)
	protected("/api/goals/{id}/progress", deps.GoalHandler.HandleProgress)

	protected("/api/kpis", deps.KPIHandler.HandleKPIs)
	protected("/api/kpis/net-worth", deps.KPIHandler.HandleNetWorth)
	protected("/api/kpis/savings-rate", deps.KPIHandler.HandleSavingsRate)
	protected("/api/kpis/fi-index", deps.KPIHandler.HandleFIIndex)
	protected("/api/kpis/freedom-number", deps.KPIHandler.HandleFreedomNumber)
	protected("/api/kpis/health-score", deps.KPIHandler.HandleHealthScore)

	protected("/api/insights/dashboard", deps.InsightsHandler.HandleDashboard)
	protected("/api/insights/summary", deps.InsightsHandler.HandleSummary)
	protected("/api/insights/cashflow", deps.InsightsHandler.HandleCashflow)
	protected("/api/insights/expenses", deps.InsightsHandler.HandleExpenseBreakdown)

	protected("/api/reports", deps.ReportHandler.HandleReports)
	protected("/api/reports/generate", deps.ReportHandler.HandleGenerate)
	protected("/api/reports/{id}", deps.ReportHandler.HandleReportByID)
	protected("/api/reports/{id}/export", deps.ReportHandler.HandleExport)

	protected("/api/notifications", deps.NotificationHandler.HandleNotifications)
	protected("/api/notifications/devices", deps.NotificationHandler.HandleDevices)
	protected("/api/notifications/preferences", deps.NotificationHandler.HandlePreferences)
	protected("/api/notifications/{id}/opened", deps.NotificationHandler.HandleOpened)

	var handler http.Handler = mux
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(middleware.Tracing(handler))
	}
	handler = middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(handler))
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
	}
	return handler
}
