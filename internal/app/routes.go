package app

import (
	"github.com/cashplan/cashplan/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Income sources
	r.HandleFunc("/api/income", deps.IncomeHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/income", deps.IncomeHandler.Register).Methods("POST")
	r.HandleFunc("/api/income/{id}", deps.IncomeHandler.Update).Methods("PUT")
	r.HandleFunc("/api/income/{id}", deps.IncomeHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/income/projection", deps.IncomeHandler.GetProjection).Methods("GET")

	// Expense categories and items
	r.HandleFunc("/api/expense/{kind}", deps.ExpenseHandler.GetCategories).Methods("GET")
	r.HandleFunc("/api/expense/{kind}/category", deps.ExpenseHandler.CreateCategory).Methods("POST")
	r.HandleFunc("/api/expense/category/{id}", deps.ExpenseHandler.UpdateCategory).Methods("PUT")
	r.HandleFunc("/api/expense/category/{id}", deps.ExpenseHandler.DeleteCategory).Methods("DELETE")
	r.HandleFunc("/api/expense/category/{id}/item", deps.ExpenseHandler.AddExpense).Methods("POST")
	r.HandleFunc("/api/expense/item/{id}", deps.ExpenseHandler.UpdateExpense).Methods("PUT")
	r.HandleFunc("/api/expense/item/{id}", deps.ExpenseHandler.DeleteExpense).Methods("DELETE")

	// Weekly planner
	r.HandleFunc("/api/planner", deps.PlannerHandler.GetGrid).Methods("GET")
	r.HandleFunc("/api/planner/populate", deps.PlannerHandler.AutoPopulate).Methods("POST")
	r.HandleFunc("/api/planner/entry/{name}", deps.PlannerHandler.GetEntry).Methods("GET")
	r.HandleFunc("/api/planner/entry/{name}/week/{week}", deps.PlannerHandler.SetWeekAmount).Methods("PUT")
	r.HandleFunc("/api/planner/entry/{name}/week/{week}/status", deps.PlannerHandler.SetStatus).Methods("PUT")

	// Accounts
	r.HandleFunc("/api/account", deps.AccountHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/account", deps.AccountHandler.Create).Methods("POST")
	r.HandleFunc("/api/account/{id}", deps.AccountHandler.Update).Methods("PUT")
	r.HandleFunc("/api/account/{id}", deps.AccountHandler.Delete).Methods("DELETE")

	// Stats
	r.HandleFunc("/api/stats/monthly", deps.StatsHandler.GetMonthlySummary).Methods("GET")

	// Calculator widget
	r.HandleFunc("/api/calculator", deps.CalculatorHandler.Calculate).Methods("POST")

	// Profile management
	r.HandleFunc("/api/profile/current", deps.ProfileHandler.CurrentProfile).Methods("GET")
	r.HandleFunc("/api/profile/current", deps.ProfileHandler.UpdateProfile).Methods("PUT")
	r.HandleFunc("/api/profile", deps.ProfileHandler.CreateProfile).Methods("POST")
	r.HandleFunc("/api/profile", deps.ProfileHandler.GetAvailableProfiles).Methods("GET")
	r.HandleFunc("/api/profile/{id}", deps.ProfileHandler.DeleteProfile).Methods("DELETE")
}
