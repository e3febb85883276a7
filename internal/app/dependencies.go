package app

import (
	"database/sql"

	"github.com/cashplan/cashplan/internal/config"
	"github.com/cashplan/cashplan/internal/event_bus"
	"github.com/cashplan/cashplan/internal/utils"
	"github.com/cashplan/cashplan/pkg/account"
	"github.com/cashplan/cashplan/pkg/calculator"
	"github.com/cashplan/cashplan/pkg/expense"
	"github.com/cashplan/cashplan/pkg/income"
	"github.com/cashplan/cashplan/pkg/planner"
	"github.com/cashplan/cashplan/pkg/profile"
	"github.com/cashplan/cashplan/pkg/stats"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	ProfileService profile.Service
	ProfileHandler *profile.Handler

	IncomeRepo    income.Repo
	IncomeService income.Service
	IncomeHandler *income.Handler

	ExpenseRepo    expense.Repo
	ExpenseService expense.Service
	ExpenseHandler *expense.Handler

	PlannerRepo    planner.Repo
	PlannerService planner.Service
	PlannerHandler *planner.Handler

	AccountRepo    account.Repo
	AccountService account.Service
	AccountHandler *account.Handler

	StatsService stats.Service
	StatsHandler *stats.Handler

	CalculatorHandler *calculator.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.ProfileService = profile.NewProfileService(profile.NewProfileRepo(db))
	deps.ProfileHandler = profile.NewHandler(deps.ProfileService)

	deps.IncomeRepo = income.NewIncomeRepo(db)
	deps.IncomeService = income.NewIncomeService(deps.IncomeRepo, deps.Clock)
	deps.IncomeHandler = income.NewHandler(deps.IncomeService)

	deps.ExpenseRepo = expense.NewExpenseRepo(db)
	deps.ExpenseService = expense.NewExpenseService(deps.ExpenseRepo, deps.EventBus)
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseService)

	deps.PlannerRepo = planner.NewPlannerRepo(db)
	deps.PlannerService = planner.NewPlannerService(deps.PlannerRepo, deps.ExpenseService, deps.IncomeService, deps.EventBus)
	deps.PlannerHandler = planner.NewHandler(deps.PlannerService)

	deps.AccountRepo = account.NewAccountRepo(db)
	deps.AccountService = account.NewAccountService(deps.AccountRepo)
	deps.AccountHandler = account.NewHandler(deps.AccountService)

	deps.StatsService = stats.NewStatsService(deps.ExpenseService, deps.PlannerService, deps.AccountService)
	deps.StatsHandler = stats.NewHandler(deps.StatsService)

	deps.CalculatorHandler = calculator.NewHandler()

	return deps
}
