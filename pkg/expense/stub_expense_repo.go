package expense

import (
	"context"
	"sort"
)

type StubRepo struct {
	nextCategoryId int
	categories     map[int]Category
	expenses       map[string]stubExpense
}

type stubExpense struct {
	categoryId int
	expense    Expense
}

func NewStubExpenseRepo() *StubRepo {
	return &StubRepo{categories: map[int]Category{}, expenses: map[string]stubExpense{}}
}

func (s *StubRepo) StoreCategory(ctx context.Context, profileId int, category Category) (int, error) {
	s.nextCategoryId++
	category.Id = s.nextCategoryId
	category.Expenses = nil
	s.categories[category.Id] = category
	return category.Id, nil
}

func (s *StubRepo) GetCategories(ctx context.Context, profileId int, kind Kind) ([]Category, error) {
	var categories []Category
	for _, category := range s.categories {
		if category.Kind != kind {
			continue
		}
		category.Expenses = s.expensesOf(category.Id)
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Position < categories[j].Position })
	return categories, nil
}

func (s *StubRepo) UpdateCategory(ctx context.Context, profileId int, category Category) (bool, error) {
	existing, ok := s.categories[category.Id]
	if !ok {
		return false, nil
	}
	category.Kind = existing.Kind
	category.Expenses = nil
	s.categories[category.Id] = category
	return true, nil
}

func (s *StubRepo) DeleteCategory(ctx context.Context, profileId int, categoryId int) (bool, error) {
	if _, ok := s.categories[categoryId]; !ok {
		return false, nil
	}
	delete(s.categories, categoryId)
	for id, se := range s.expenses {
		if se.categoryId == categoryId {
			delete(s.expenses, id)
		}
	}
	return true, nil
}

func (s *StubRepo) FindMaxCategoryPosition(ctx context.Context, profileId int, kind Kind) (int, error) {
	max := 0
	for _, category := range s.categories {
		if category.Kind == kind && category.Position > max {
			max = category.Position
		}
	}
	return max, nil
}

func (s *StubRepo) StoreExpense(ctx context.Context, profileId int, categoryId int, e Expense) error {
	if _, ok := s.categories[categoryId]; !ok {
		return ErrCategoryNotFound
	}
	s.expenses[e.Id] = stubExpense{categoryId: categoryId, expense: e}
	return nil
}

func (s *StubRepo) GetExpense(ctx context.Context, profileId int, id string) (Expense, Category, error) {
	se, ok := s.expenses[id]
	if !ok {
		return Expense{}, Category{}, ErrExpenseNotFound
	}
	category := s.categories[se.categoryId]
	return se.expense, category, nil
}

func (s *StubRepo) UpdateExpense(ctx context.Context, profileId int, e Expense) (bool, error) {
	se, ok := s.expenses[e.Id]
	if !ok {
		return false, nil
	}
	e.Position = se.expense.Position
	s.expenses[e.Id] = stubExpense{categoryId: se.categoryId, expense: e}
	return true, nil
}

func (s *StubRepo) DeleteExpense(ctx context.Context, profileId int, id string) (bool, error) {
	if _, ok := s.expenses[id]; !ok {
		return false, nil
	}
	delete(s.expenses, id)
	return true, nil
}

func (s *StubRepo) FindMaxExpensePosition(ctx context.Context, categoryId int) (int, error) {
	max := 0
	for _, se := range s.expenses {
		if se.categoryId == categoryId && se.expense.Position > max {
			max = se.expense.Position
		}
	}
	return max, nil
}

func (s *StubRepo) expensesOf(categoryId int) []Expense {
	var expenses []Expense
	for _, se := range s.expenses {
		if se.categoryId == categoryId {
			expenses = append(expenses, se.expense)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].Position < expenses[j].Position })
	return expenses
}

func (s *StubRepo) Cleanup() {
	s.categories = map[int]Category{}
	s.expenses = map[string]stubExpense{}
	s.nextCategoryId = 0
}
