package planner

import (
	"context"
)

type StubRepo struct {
	entries map[string]Entry
}

func NewStubPlannerRepo() *StubRepo {
	return &StubRepo{entries: map[string]Entry{}}
}

func (s *StubRepo) GetState(ctx context.Context, profileId int) (State, error) {
	state := State{}
	for name, entry := range s.entries {
		state[name] = entry
	}
	return state, nil
}

func (s *StubRepo) GetEntry(ctx context.Context, profileId int, name string) (Entry, bool, error) {
	entry, ok := s.entries[name]
	return entry, ok, nil
}

func (s *StubRepo) SaveEntry(ctx context.Context, profileId int, name string, entry Entry) error {
	s.entries[name] = entry
	return nil
}

func (s *StubRepo) Cleanup() {
	s.entries = map[string]Entry{}
}
