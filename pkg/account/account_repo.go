package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrAccountNotFound = errors.New("account not found")

type Repo interface {
	Store(ctx context.Context, profileId int, account Account) (int, error)
	GetAll(ctx context.Context, profileId int) ([]Account, error)
	Get(ctx context.Context, profileId int, id int) (Account, error)
	Update(ctx context.Context, profileId int, account Account) (bool, error)
	Delete(ctx context.Context, profileId int, id int) (bool, error)
	FindMaxPosition(ctx context.Context, profileId int) (int, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) Store(ctx context.Context, profileId int, account Account) (int, error) {
	query := `INSERT INTO account (profile_id, name, balance, position) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, profileId, account.Name, account.Balance, account.Position)
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

func (r *RepoImpl) GetAll(ctx context.Context, profileId int) ([]Account, error) {
	query := `SELECT id, name, balance, position FROM account WHERE profile_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, profileId)
	if err != nil {
		err := fmt.Errorf("could not query accounts: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var account Account
		if err := rows.Scan(&account.Id, &account.Name, &account.Balance, &account.Position); err != nil {
			return nil, fmt.Errorf("could not scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return accounts, nil
}

func (r *RepoImpl) Get(ctx context.Context, profileId int, id int) (Account, error) {
	query := `SELECT id, name, balance, position FROM account WHERE profile_id = ? AND id = ?`
	var account Account
	err := r.db.QueryRowContext(ctx, query, profileId, id).
		Scan(&account.Id, &account.Name, &account.Balance, &account.Position)
	if err == sql.ErrNoRows {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("could not query account: %w", err)
	}
	return account, nil
}

func (r *RepoImpl) Update(ctx context.Context, profileId int, account Account) (bool, error) {
	query := `UPDATE account SET name = ?, balance = ? WHERE profile_id = ? AND id = ?`
	result, err := r.db.ExecContext(ctx, query, account.Name, account.Balance, profileId, account.Id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not retrieve affected rows: %w", err)
	}
	return affected > 0, nil
}

func (r *RepoImpl) Delete(ctx context.Context, profileId int, id int) (bool, error) {
	query := `DELETE FROM account WHERE profile_id = ? AND id = ?`
	result, err := r.db.ExecContext(ctx, query, profileId, id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not retrieve affected rows: %w", err)
	}
	return affected > 0, nil
}

func (r *RepoImpl) FindMaxPosition(ctx context.Context, profileId int) (int, error) {
	query := `SELECT COALESCE(MAX(position), 0) FROM account WHERE profile_id = ?`
	var maxPosition int
	if err := r.db.QueryRowContext(ctx, query, profileId).Scan(&maxPosition); err != nil {
		return 0, fmt.Errorf("could not query max position: %w", err)
	}
	return maxPosition, nil
}
