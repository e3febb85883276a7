package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repo interface {
	CreateProfile(ctx context.Context, p Profile) (int, error)
	GetProfile(ctx context.Context, id int) (Profile, error)
	GetProfileByUid(ctx context.Context, uid string) (Profile, error)
	UpdateProfile(ctx context.Context, id int, p Profile) (Profile, error)
	DeleteProfile(ctx context.Context, id int) error
	GetAllProfiles(ctx context.Context) ([]Profile, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

func (r *RepoImpl) CreateProfile(ctx context.Context, p Profile) (int, error) {
	query := `INSERT INTO profile (uid, display_name, currency) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, p.Uid, p.DisplayName, p.Settings.Currency)
	if err != nil {
		log.Errorf("failed to create profile: %v", err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve last insert id: %w", err)
	}
	return int(id), nil
}

func (r *RepoImpl) GetProfile(ctx context.Context, id int) (Profile, error) {
	query := `SELECT id, uid, display_name, currency FROM profile WHERE id = ?`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *RepoImpl) GetProfileByUid(ctx context.Context, uid string) (Profile, error) {
	query := `SELECT id, uid, display_name, currency FROM profile WHERE uid = ?`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, uid))
}

func (r *RepoImpl) scanProfile(row *sql.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.Id, &p.Uid, &p.DisplayName, &p.Settings.Currency)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	} else if err != nil {
		log.Errorf("failed to get profile: %v", err)
		return Profile{}, err
	}
	return p, nil
}

func (r *RepoImpl) UpdateProfile(ctx context.Context, id int, p Profile) (Profile, error) {
	query := `UPDATE profile SET display_name = ?, currency = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, p.DisplayName, p.Settings.Currency, id)
	if err != nil {
		log.Errorf("failed to update profile: %v", err)
		return Profile{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return Profile{}, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return Profile{}, ErrProfileNotFound
	}
	p.Id = id
	return p, nil
}

func (r *RepoImpl) DeleteProfile(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profile WHERE id = ?`, id)
	if err != nil {
		log.Errorf("failed to delete profile: %v", err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAllProfiles(ctx context.Context) ([]Profile, error) {
	query := `SELECT id, uid, display_name, currency FROM profile ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Errorf("failed to list profiles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.Id, &p.Uid, &p.DisplayName, &p.Settings.Currency); err != nil {
			return nil, fmt.Errorf("could not scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return profiles, nil
}
