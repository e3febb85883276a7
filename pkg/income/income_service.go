package income

import (
	"context"
	"errors"
	"fmt"

	"github.com/cashplan/cashplan/internal/utils"
	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/cashplan/cashplan/pkg/profile"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidFrequency = errors.New("invalid income frequency")
var ErrTooManyPayDates = errors.New("too many pay dates for frequency")

type Service interface {
	GetAll(ctx context.Context) ([]Source, error)
	Create(ctx context.Context, source Source) (Source, error)
	Update(ctx context.Context, source Source) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// WeeklyProjection returns the derived budget month and the 5-week income
	// vector for it, computed over all of the profile's sources.
	WeeklyProjection(ctx context.Context) (budget.Month, WeeklyIncome, error)
}

type ServiceImpl struct {
	repo  Repo
	clock utils.Clock
}

func NewIncomeService(repo Repo, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Source, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.GetAll(ctx, profileId)
}

func (s *ServiceImpl) Create(ctx context.Context, source Source) (Source, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	if err := validateSource(source); err != nil {
		return Source{}, err
	}

	maxPosition, err := s.repo.FindMaxPosition(ctx, profileId)
	if err != nil {
		return Source{}, err
	}
	source.Position = maxPosition + 100

	id, err := s.repo.Store(ctx, profileId, source)
	if err != nil {
		return Source{}, err
	}
	source.ID = id
	return source, nil
}

func (s *ServiceImpl) Update(ctx context.Context, source Source) (bool, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current profile: %w", err)
	}
	if err := validateSource(source); err != nil {
		return false, err
	}

	updated, err := s.repo.Update(ctx, profileId, source)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("income source not updated, probably because it does not exist (%d) or the profile (%d) is not the owner",
			source.ID, profileId)
		return false, fmt.Errorf("income source not updated")
	}
	return true, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current profile: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, profileId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("income source not deleted, probably because it does not exist (%d) or the profile (%d) is not the owner",
			id, profileId)
		return false, fmt.Errorf("income source not deleted")
	}
	return true, nil
}

func (s *ServiceImpl) WeeklyProjection(ctx context.Context) (budget.Month, WeeklyIncome, error) {
	sources, err := s.GetAll(ctx)
	if err != nil {
		return budget.Month{}, WeeklyIncome{}, err
	}
	month := DeriveMonth(sources, s.clock)
	return month, Project(sources, month), nil
}

func validateSource(source Source) error {
	if !source.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, source.Frequency)
	}
	if len(source.PayDates) > source.Frequency.MaxPayDates() {
		return fmt.Errorf("%w: %q allows at most %d", ErrTooManyPayDates, source.Frequency, source.Frequency.MaxPayDates())
	}
	return nil
}
