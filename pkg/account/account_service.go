package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/cashplan/cashplan/pkg/profile"
)

var ErrEmptyName = errors.New("account name must not be empty")

type Service interface {
	GetAll(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	Update(ctx context.Context, account Account) (Account, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewAccountService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Account, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.GetAll(ctx, profileId)
}

func (s *ServiceImpl) Create(ctx context.Context, account Account) (Account, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	if account.Name == "" {
		return Account{}, ErrEmptyName
	}

	maxPosition, err := s.repo.FindMaxPosition(ctx, profileId)
	if err != nil {
		return Account{}, err
	}
	account.Position = maxPosition + 100

	id, err := s.repo.Store(ctx, profileId, account)
	if err != nil {
		return Account{}, err
	}
	account.Id = id
	return account, nil
}

func (s *ServiceImpl) Update(ctx context.Context, account Account) (Account, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return Account{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	if account.Name == "" {
		return Account{}, ErrEmptyName
	}

	updated, err := s.repo.Update(ctx, profileId, account)
	if err != nil {
		return Account{}, err
	}
	if !updated {
		return Account{}, ErrAccountNotFound
	}
	return s.repo.Get(ctx, profileId, account.Id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	profileId, err := profile.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.Delete(ctx, profileId, id)
}
