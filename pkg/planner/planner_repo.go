package planner

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	GetState(ctx context.Context, profileId int) (State, error)
	GetEntry(ctx context.Context, profileId int, name string) (Entry, bool, error)
	SaveEntry(ctx context.Context, profileId int, name string, entry Entry) error
}

type RepoImpl struct {
	db *sql.DB
}

func NewPlannerRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) GetState(ctx context.Context, profileId int) (State, error) {
	query := `SELECT e.expense_name, w.week_index, w.amount, w.paid, w.transferred
				FROM planner_entry e
				LEFT JOIN planner_week w ON w.entry_id = e.id
				WHERE e.profile_id = ?`
	rows, err := r.db.QueryContext(ctx, query, profileId)
	if err != nil {
		err := fmt.Errorf("could not query planner state: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	state := State{}
	for rows.Next() {
		var name string
		var weekIndex sql.NullInt64
		var amount decimal.NullDecimal
		var paid, transferred sql.NullBool
		if err := rows.Scan(&name, &weekIndex, &amount, &paid, &transferred); err != nil {
			return nil, fmt.Errorf("could not scan planner row: %w", err)
		}

		entry := state[name]
		if weekIndex.Valid {
			week := int(weekIndex.Int64)
			if week >= 0 && week < budget.WeeksPerMonth {
				entry.Weeks[week] = amount.Decimal
				entry.Paid[week] = paid.Bool
				entry.Transferred[week] = transferred.Bool
			}
		}
		state[name] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return state, nil
}

func (r *RepoImpl) GetEntry(ctx context.Context, profileId int, name string) (Entry, bool, error) {
	query := `SELECT w.week_index, w.amount, w.paid, w.transferred
				FROM planner_entry e
				LEFT JOIN planner_week w ON w.entry_id = e.id
				WHERE e.profile_id = ? AND e.expense_name = ?`
	rows, err := r.db.QueryContext(ctx, query, profileId, name)
	if err != nil {
		err := fmt.Errorf("could not query planner entry: %w", err)
		log.Error(err)
		return Entry{}, false, err
	}
	defer rows.Close()

	var entry Entry
	found := false
	for rows.Next() {
		found = true
		var weekIndex sql.NullInt64
		var amount decimal.NullDecimal
		var paid, transferred sql.NullBool
		if err := rows.Scan(&weekIndex, &amount, &paid, &transferred); err != nil {
			return Entry{}, false, fmt.Errorf("could not scan planner row: %w", err)
		}
		if weekIndex.Valid {
			week := int(weekIndex.Int64)
			if week >= 0 && week < budget.WeeksPerMonth {
				entry.Weeks[week] = amount.Decimal
				entry.Paid[week] = paid.Bool
				entry.Transferred[week] = transferred.Bool
			}
		}
	}
	if err := rows.Err(); err != nil {
		return Entry{}, false, fmt.Errorf("error iterating over rows: %w", err)
	}
	return entry, found, nil
}

// SaveEntry upserts the entry row and rewrites its week rows. Weeks with no
// allocation and no flags are not stored; reads pad them back to zero.
func (r *RepoImpl) SaveEntry(ctx context.Context, profileId int, name string, entry Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var entryId int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM planner_entry WHERE profile_id = ? AND expense_name = ?`,
		profileId, name,
	).Scan(&entryId)
	if err == sql.ErrNoRows {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO planner_entry (profile_id, expense_name) VALUES (?, ?)`,
			profileId, name,
		)
		if err != nil {
			err := fmt.Errorf("could not insert planner entry: %w", err)
			log.Error(err)
			return err
		}
		lastInsertID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("could not retrieve last insert id: %w", err)
		}
		entryId = int(lastInsertID)
	} else if err != nil {
		return fmt.Errorf("could not query planner entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM planner_week WHERE entry_id = ?`, entryId); err != nil {
		return fmt.Errorf("could not delete planner weeks: %w", err)
	}
	for week := 0; week < budget.WeeksPerMonth; week++ {
		if entry.Weeks[week].IsZero() && !entry.Paid[week] && !entry.Transferred[week] {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO planner_week (entry_id, week_index, amount, paid, transferred) VALUES (?, ?, ?, ?, ?)`,
			entryId, week, entry.Weeks[week], entry.Paid[week], entry.Transferred[week],
		)
		if err != nil {
			return fmt.Errorf("could not insert planner week: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
