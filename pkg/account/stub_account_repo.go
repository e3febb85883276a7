package account

import (
	"context"
	"sort"
)

type StubRepo struct {
	nextId   int
	accounts map[int]Account
}

func NewStubAccountRepo() *StubRepo {
	return &StubRepo{accounts: map[int]Account{}}
}

func (s *StubRepo) Store(ctx context.Context, profileId int, account Account) (int, error) {
	s.nextId++
	account.Id = s.nextId
	s.accounts[account.Id] = account
	return account.Id, nil
}

func (s *StubRepo) GetAll(ctx context.Context, profileId int) ([]Account, error) {
	var accounts []Account
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Position < accounts[j].Position })
	return accounts, nil
}

func (s *StubRepo) Get(ctx context.Context, profileId int, id int) (Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

func (s *StubRepo) Update(ctx context.Context, profileId int, account Account) (bool, error) {
	existing, ok := s.accounts[account.Id]
	if !ok {
		return false, nil
	}
	account.Position = existing.Position
	s.accounts[account.Id] = account
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, profileId int, id int) (bool, error) {
	if _, ok := s.accounts[id]; !ok {
		return false, nil
	}
	delete(s.accounts, id)
	return true, nil
}

func (s *StubRepo) FindMaxPosition(ctx context.Context, profileId int) (int, error) {
	max := 0
	for _, account := range s.accounts {
		if account.Position > max {
			max = account.Position
		}
	}
	return max, nil
}

func (s *StubRepo) Cleanup() {
	s.accounts = map[int]Account{}
	s.nextId = 0
}
