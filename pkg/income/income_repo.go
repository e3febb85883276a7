package income

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrSourceNotFound = errors.New("income source not found")

type Repo interface {
	Store(ctx context.Context, profileId int, source Source) (int, error)
	GetAll(ctx context.Context, profileId int) ([]Source, error)
	Get(ctx context.Context, profileId int, id int) (Source, error)
	Update(ctx context.Context, profileId int, source Source) (bool, error)
	Delete(ctx context.Context, profileId int, id int) (bool, error)
	FindMaxPosition(ctx context.Context, profileId int) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewIncomeRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, profileId int, source Source) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	legacyWeeks, err := encodeLegacyWeeks(source.LegacyWeeks)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO income_source (
                    profile_id,
                    name,
                    frequency,
                    projected_amount,
                    actual_amount,
                    actual_mode,
                    legacy_weeks,
                    position
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, query,
		profileId,
		source.Name,
		string(source.Frequency),
		source.ProjectedAmount,
		source.ActualAmount,
		string(source.ActualMode),
		legacyWeeks,
		source.Position,
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

	if err := insertPayDates(ctx, tx, int(lastInsertID), source); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return int(lastInsertID), nil
}

func (r *RepoImpl) GetAll(ctx context.Context, profileId int) ([]Source, error) {
	query := `SELECT id, name, frequency, projected_amount, actual_amount, actual_mode, legacy_weeks, position
				FROM income_source WHERE profile_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, profileId)
	if err != nil {
		err := fmt.Errorf("could not query income sources: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	for i := range sources {
		if err := r.loadPayDates(ctx, &sources[i]); err != nil {
			return nil, err
		}
	}
	return sources, nil
}

func (r *RepoImpl) Get(ctx context.Context, profileId int, id int) (Source, error) {
	query := `SELECT id, name, frequency, projected_amount, actual_amount, actual_mode, legacy_weeks, position
				FROM income_source WHERE profile_id = ? AND id = ?`
	rows, err := r.db.QueryContext(ctx, query, profileId, id)
	if err != nil {
		return Source{}, fmt.Errorf("could not query income source: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Source{}, err
		}
		return Source{}, ErrSourceNotFound
	}
	source, err := scanSource(rows)
	if err != nil {
		return Source{}, err
	}
	if err := r.loadPayDates(ctx, &source); err != nil {
		return Source{}, err
	}
	return source, nil
}

func (r *RepoImpl) Update(ctx context.Context, profileId int, source Source) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	legacyWeeks, err := encodeLegacyWeeks(source.LegacyWeeks)
	if err != nil {
		return false, err
	}

	query := `UPDATE income_source SET
                  name = ?,
                  frequency = ?,
                  projected_amount = ?,
                  actual_amount = ?,
                  actual_mode = ?,
                  legacy_weeks = ?
              WHERE id = ? AND profile_id = ?`
	result, err := tx.ExecContext(ctx, query,
		source.Name,
		string(source.Frequency),
		source.ProjectedAmount,
		source.ActualAmount,
		string(source.ActualMode),
		legacyWeeks,
		source.ID,
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
	if rowsAffected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM income_pay_date WHERE income_source_id = ?`, source.ID); err != nil {
		return false, fmt.Errorf("could not clear pay dates: %w", err)
	}
	if err := insertPayDates(ctx, tx, source.ID, source); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

func (r *RepoImpl) Delete(ctx context.Context, profileId int, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM income_source WHERE id = ? AND profile_id = ?`, id, profileId)
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

func (r *RepoImpl) FindMaxPosition(ctx context.Context, profileId int) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT MAX(position) FROM income_source WHERE profile_id = ?`, profileId)
	var maxPosition sql.NullInt64
	if err := row.Scan(&maxPosition); err != nil {
		return 0, fmt.Errorf("could not find max position: %w", err)
	}
	if !maxPosition.Valid {
		return 0, nil
	}
	return int(maxPosition.Int64), nil
}

func (r *RepoImpl) loadPayDates(ctx context.Context, source *Source) error {
	query := `SELECT pay_date, actual FROM income_pay_date WHERE income_source_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, source.ID)
	if err != nil {
		return fmt.Errorf("could not query pay dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var date string
		var actual decimal.NullDecimal
		if err := rows.Scan(&date, &actual); err != nil {
			return fmt.Errorf("could not scan pay date: %w", err)
		}
		source.PayDates = append(source.PayDates, date)
		source.PayActuals = append(source.PayActuals, actual)
	}
	return rows.Err()
}

func insertPayDates(ctx context.Context, tx *sql.Tx, sourceId int, source Source) error {
	query := `INSERT INTO income_pay_date (income_source_id, position, pay_date, actual) VALUES (?, ?, ?, ?)`
	for i, date := range source.PayDates {
		var actual decimal.NullDecimal
		if i < len(source.PayActuals) {
			actual = source.PayActuals[i]
		}
		if _, err := tx.ExecContext(ctx, query, sourceId, i, date, actual); err != nil {
			return fmt.Errorf("could not insert pay date: %w", err)
		}
	}
	return nil
}

func scanSource(rows *sql.Rows) (Source, error) {
	var source Source
	var frequency, actualMode string
	var legacyWeeks sql.NullString
	if err := rows.Scan(
		&source.ID,
		&source.Name,
		&frequency,
		&source.ProjectedAmount,
		&source.ActualAmount,
		&actualMode,
		&legacyWeeks,
		&source.Position,
	); err != nil {
		err := fmt.Errorf("could not scan income source: %w", err)
		log.Error(err)
		return Source{}, err
	}
	source.Frequency = Frequency(frequency)
	source.ActualMode = ActualMode(actualMode)
	if legacyWeeks.Valid && legacyWeeks.String != "" {
		if err := json.Unmarshal([]byte(legacyWeeks.String), &source.LegacyWeeks); err != nil {
			return Source{}, fmt.Errorf("could not decode legacy weeks: %w", err)
		}
	}
	return source, nil
}

// encodeLegacyWeeks keeps the pre-pay-dates weekly vector as an opaque JSON
// blob; nothing but the projector ever reads it.
func encodeLegacyWeeks(weeks []decimal.Decimal) (sql.NullString, error) {
	if len(weeks) == 0 {
		return sql.NullString{}, nil
	}
	encoded, err := json.Marshal(weeks)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("could not encode legacy weeks: %w", err)
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}
