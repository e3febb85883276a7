package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrCategoryNotFound = errors.New("category not found")
var ErrExpenseNotFound = errors.New("expense not found")

type Repo interface {
	StoreCategory(ctx context.Context, profileId int, category Category) (int, error)
	GetCategories(ctx context.Context, profileId int, kind Kind) ([]Category, error)
	UpdateCategory(ctx context.Context, profileId int, category Category) (bool, error)
	DeleteCategory(ctx context.Context, profileId int, categoryId int) (bool, error)
	FindMaxCategoryPosition(ctx context.Context, profileId int, kind Kind) (int, error)

	StoreExpense(ctx context.Context, profileId int, categoryId int, e Expense) error
	GetExpense(ctx context.Context, profileId int, id string) (Expense, Category, error)
	UpdateExpense(ctx context.Context, profileId int, e Expense) (bool, error)
	DeleteExpense(ctx context.Context, profileId int, id string) (bool, error)
	FindMaxExpensePosition(ctx context.Context, categoryId int) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewExpenseRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) StoreCategory(ctx context.Context, profileId int, category Category) (int, error) {
	query := `INSERT INTO expense_category (profile_id, key, name, kind, position) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		profileId,
		category.Key,
		category.Name,
		string(category.Kind),
		category.Position,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve last insert id: %w", err)
	}
	return int(lastInsertID), nil
}

func (r *RepoImpl) GetCategories(ctx context.Context, profileId int, kind Kind) ([]Category, error) {
	query := `SELECT id, key, name, kind, position
				FROM expense_category WHERE profile_id = ? AND kind = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, profileId, string(kind))
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		var categoryKind string
		if err := rows.Scan(&category.Id, &category.Key, &category.Name, &categoryKind, &category.Position); err != nil {
			return nil, fmt.Errorf("could not scan category: %w", err)
		}
		category.Kind = Kind(categoryKind)
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	for i := range categories {
		expenses, err := r.loadExpenses(ctx, categories[i].Id)
		if err != nil {
			return nil, err
		}
		categories[i].Expenses = expenses
	}
	return categories, nil
}

func (r *RepoImpl) UpdateCategory(ctx context.Context, profileId int, category Category) (bool, error) {
	query := `UPDATE expense_category SET key = ?, name = ?, position = ? WHERE id = ? AND profile_id = ?`
	result, err := r.db.ExecContext(ctx, query, category.Key, category.Name, category.Position, category.Id, profileId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) DeleteCategory(ctx context.Context, profileId int, categoryId int) (bool, error) {
	// expenses cascade via the schema's foreign key
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM expense_category WHERE id = ? AND profile_id = ?`, categoryId, profileId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) FindMaxCategoryPosition(ctx context.Context, profileId int, kind Kind) (int, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT MAX(position) FROM expense_category WHERE profile_id = ? AND kind = ?`, profileId, string(kind))
	var maxPosition sql.NullInt64
	if err := row.Scan(&maxPosition); err != nil {
		return 0, fmt.Errorf("could not find max position: %w", err)
	}
	if !maxPosition.Valid {
		return 0, nil
	}
	return int(maxPosition.Int64), nil
}

func (r *RepoImpl) StoreExpense(ctx context.Context, profileId int, categoryId int, e Expense) error {
	// ownership check: the category must belong to the profile
	var owner int
	err := r.db.QueryRowContext(ctx,
		`SELECT profile_id FROM expense_category WHERE id = ?`, categoryId).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != profileId) {
		return ErrCategoryNotFound
	} else if err != nil {
		return fmt.Errorf("could not verify category: %w", err)
	}

	query := `INSERT INTO expense (
                    id,
                    category_id,
                    name,
                    projected,
                    actual,
                    amount_legacy,
                    due_date,
                    account_id,
                    paid,
                    transferred,
                    transfer_status,
                    position
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.Id,
		categoryId,
		e.Name,
		e.Projected,
		e.Actual,
		e.Amount,
		nullString(e.DueDate),
		nullInt(e.AccountId),
		e.Paid,
		e.Transferred,
		string(e.TransferStatus),
		e.Position,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetExpense(ctx context.Context, profileId int, id string) (Expense, Category, error) {
	query := `SELECT e.id, e.name, e.projected, e.actual, e.amount_legacy, e.due_date, e.account_id,
					e.paid, e.transferred, e.transfer_status, e.position,
					c.id, c.key, c.name, c.kind, c.position
				FROM expense e
				JOIN expense_category c ON c.id = e.category_id
				WHERE e.id = ? AND c.profile_id = ?`
	row := r.db.QueryRowContext(ctx, query, id, profileId)

	var e Expense
	var category Category
	var dueDate sql.NullString
	var accountId sql.NullInt64
	var transferStatus, categoryKind string
	err := row.Scan(
		&e.Id, &e.Name, &e.Projected, &e.Actual, &e.Amount, &dueDate, &accountId,
		&e.Paid, &e.Transferred, &transferStatus, &e.Position,
		&category.Id, &category.Key, &category.Name, &categoryKind, &category.Position,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Expense{}, Category{}, ErrExpenseNotFound
	} else if err != nil {
		err := fmt.Errorf("could not scan expense: %w", err)
		log.Error(err)
		return Expense{}, Category{}, err
	}
	e.DueDate = dueDate.String
	e.AccountId = int(accountId.Int64)
	e.TransferStatus = TransferStatus(transferStatus)
	category.Kind = Kind(categoryKind)
	return e, category, nil
}

func (r *RepoImpl) UpdateExpense(ctx context.Context, profileId int, e Expense) (bool, error) {
	query := `UPDATE expense SET
                  name = ?,
                  projected = ?,
                  actual = ?,
                  amount_legacy = ?,
                  due_date = ?,
                  account_id = ?,
                  paid = ?,
                  transferred = ?,
                  transfer_status = ?
              WHERE id = ? AND category_id IN (SELECT id FROM expense_category WHERE profile_id = ?)`
	result, err := r.db.ExecContext(ctx, query,
		e.Name,
		e.Projected,
		e.Actual,
		e.Amount,
		nullString(e.DueDate),
		nullInt(e.AccountId),
		e.Paid,
		e.Transferred,
		string(e.TransferStatus),
		e.Id,
		profileId,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) DeleteExpense(ctx context.Context, profileId int, id string) (bool, error) {
	query := `DELETE FROM expense
				WHERE id = ? AND category_id IN (SELECT id FROM expense_category WHERE profile_id = ?)`
	result, err := r.db.ExecContext(ctx, query, id, profileId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) FindMaxExpensePosition(ctx context.Context, categoryId int) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT MAX(position) FROM expense WHERE category_id = ?`, categoryId)
	var maxPosition sql.NullInt64
	if err := row.Scan(&maxPosition); err != nil {
		return 0, fmt.Errorf("could not find max position: %w", err)
	}
	if !maxPosition.Valid {
		return 0, nil
	}
	return int(maxPosition.Int64), nil
}

func (r *RepoImpl) loadExpenses(ctx context.Context, categoryId int) ([]Expense, error) {
	query := `SELECT id, name, projected, actual, amount_legacy, due_date, account_id,
					paid, transferred, transfer_status, position
				FROM expense WHERE category_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, categoryId)
	if err != nil {
		return nil, fmt.Errorf("could not query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		var dueDate sql.NullString
		var accountId sql.NullInt64
		var transferStatus string
		if err := rows.Scan(
			&e.Id, &e.Name, &e.Projected, &e.Actual, &e.Amount, &dueDate, &accountId,
			&e.Paid, &e.Transferred, &transferStatus, &e.Position,
		); err != nil {
			return nil, fmt.Errorf("could not scan expense: %w", err)
		}
		e.DueDate = dueDate.String
		e.AccountId = int(accountId.Int64)
		e.TransferStatus = TransferStatus(transferStatus)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
