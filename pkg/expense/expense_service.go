package expense

import (
	"context"
	"errors"
	"fmt"

	"github.com/cashplan/cashplan/internal/event_bus"
	"github.com/cashplan/cashplan/pkg/profile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidKind = errors.New("invalid expense collection kind")
var ErrInvalidTransferStatus = errors.New("invalid transfer status")

type Service interface {
	GetCategories(ctx context.Context, kind Kind) ([]Category, error)
	CreateCategory(ctx context.Context, category Category) (Category, error)
	UpdateCategory(ctx context.Context, category Category) (bool, error)
	DeleteCategory(ctx context.Context, categoryId int) (bool, error)

	AddExpense(ctx context.Context, categoryId int, e Expense) (Expense, error)
	UpdateExpense(ctx context.Context, e Expense) (Expense, error)
	DeleteExpense(ctx context.Context, id string) (bool, error)

	// NormalizedExpenses flattens both collections into the uniform
	// weekly-plannable list the planner and stats consume.
	NormalizedExpenses(ctx context.Context) ([]Normalized, error)
}

type ServiceImpl struct {
	repo     Repo
	eventBus *event_bus.EventBus
}

func NewExpenseService(repo Repo, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *ServiceImpl) GetCategories(ctx context.Context, kind Kind) ([]Category, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.repo.GetCategories(ctx, profileId, kind)
}

func (s *ServiceImpl) CreateCategory(ctx context.Context, category Category) (Category, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Category{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	if !category.Kind.IsValid() {
		return Category{}, fmt.Errorf("%w: %q", ErrInvalidKind, category.Kind)
	}

	maxPosition, err := s.repo.FindMaxCategoryPosition(ctx, profileId, category.Kind)
	if err != nil {
		return Category{}, err
	}
	category.Position = maxPosition + 100

	id, err := s.repo.StoreCategory(ctx, profileId, category)
	if err != nil {
		return Category{}, err
	}
	category.Id = id
	return category, nil
}

func (s *ServiceImpl) UpdateCategory(ctx context.Context, category Category) (bool, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current profile: %w", err)
	}
	updated, err := s.repo.UpdateCategory(ctx, profileId, category)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("category not updated, probably because it does not exist (%d) or the profile (%d) is not the owner",
			category.Id, profileId)
		return false, fmt.Errorf("category not updated")
	}
	return true, nil
}

func (s *ServiceImpl) DeleteCategory(ctx context.Context, categoryId int) (bool, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.DeleteCategory(ctx, profileId, categoryId)
}

func (s *ServiceImpl) AddExpense(ctx context.Context, categoryId int, e Expense) (Expense, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	applyDefaults(&e)
	if !e.TransferStatus.IsValid() {
		return Expense{}, fmt.Errorf("%w: %q", ErrInvalidTransferStatus, e.TransferStatus)
	}

	maxPosition, err := s.repo.FindMaxExpensePosition(ctx, categoryId)
	if err != nil {
		return Expense{}, err
	}
	e.Position = maxPosition + 100
	e.Id = uuid.NewString()

	if err := s.repo.StoreExpense(ctx, profileId, categoryId, e); err != nil {
		return Expense{}, err
	}

	s.publishChanged(ctx, profileId, e)
	return e, nil
}

func (s *ServiceImpl) UpdateExpense(ctx context.Context, e Expense) (Expense, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	if !e.TransferStatus.IsValid() {
		return Expense{}, fmt.Errorf("%w: %q", ErrInvalidTransferStatus, e.TransferStatus)
	}

	updated, err := s.repo.UpdateExpense(ctx, profileId, e)
	if err != nil {
		return Expense{}, err
	}
	if !updated {
		return Expense{}, ErrExpenseNotFound
	}

	s.publishChanged(ctx, profileId, e)
	return e, nil
}

func (s *ServiceImpl) DeleteExpense(ctx context.Context, id string) (bool, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current profile: %w", err)
	}

	e, category, err := s.repo.GetExpense(ctx, profileId, id)
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.repo.DeleteExpense(ctx, profileId, id)
	if err != nil {
		return false, err
	}
	if deleted && s.eventBus != nil {
		err := s.eventBus.Publish(event_bus.NewEvent(ctx, "expense.removed", event_bus.ExpenseRemoved{
			Name:        e.Name,
			CategoryKey: category.Key,
		}))
		if err != nil {
			log.Warnf("failed to publish expense removed event: %v", err)
		}
	}
	return deleted, nil
}

func (s *ServiceImpl) NormalizedExpenses(ctx context.Context) ([]Normalized, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}
	monthly, err := s.repo.GetCategories(ctx, profileId, KindMonthly)
	if err != nil {
		return nil, err
	}
	annual, err := s.repo.GetCategories(ctx, profileId, KindAnnual)
	if err != nil {
		return nil, err
	}
	return Normalize(monthly, annual), nil
}

func (s *ServiceImpl) publishChanged(ctx context.Context, profileId int, e Expense) {
	if s.eventBus == nil {
		return
	}
	_, category, err := s.repo.GetExpense(ctx, profileId, e.Id)
	if err != nil {
		log.Warnf("failed to load expense %s for event publication: %v", e.Id, err)
		return
	}

	monthlyAmount := e.BaseAmount()
	if category.Kind == KindAnnual {
		monthlyAmount = monthlyAmount.Div(twelve)
	}
	err = s.eventBus.Publish(event_bus.NewEvent(ctx, "expense.changed", event_bus.ExpenseChanged{
		Name:          e.Name,
		CategoryKey:   category.Key,
		CategoryName:  category.Name,
		MonthlyAmount: monthlyAmount,
		IsAnnual:      category.Kind == KindAnnual,
		DueDate:       e.DueDate,
	}))
	if err != nil {
		log.Warnf("failed to publish expense changed event: %v", err)
	}
}

// applyDefaults fills the creation defaults: zero realized amount, unpaid,
// untransferred, no hold requirement.
func applyDefaults(e *Expense) {
	if !e.Actual.Valid && !e.Amount.Valid {
		e.Actual = decimal.NullDecimal{Decimal: decimal.Zero, Valid: true}
	}
	if e.TransferStatus == "" {
		e.TransferStatus = TransferNone
	}
}
