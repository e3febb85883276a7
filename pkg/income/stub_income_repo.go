package income

import (
	"context"
	"sort"
)

type StubRepo struct {
	nextId  int
	sources map[int]Source
}

func NewStubIncomeRepo() *StubRepo {
	return &StubRepo{sources: map[int]Source{}}
}

func (s *StubRepo) Store(ctx context.Context, profileId int, source Source) (int, error) {
	s.nextId++
	source.ID = s.nextId
	s.sources[source.ID] = source
	return source.ID, nil
}

func (s *StubRepo) GetAll(ctx context.Context, profileId int) ([]Source, error) {
	sources := make([]Source, 0, len(s.sources))
	for _, source := range s.sources {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Position < sources[j].Position })
	return sources, nil
}

func (s *StubRepo) Get(ctx context.Context, profileId int, id int) (Source, error) {
	source, ok := s.sources[id]
	if !ok {
		return Source{}, ErrSourceNotFound
	}
	return source, nil
}

func (s *StubRepo) Update(ctx context.Context, profileId int, source Source) (bool, error) {
	if _, ok := s.sources[source.ID]; !ok {
		return false, nil
	}
	s.sources[source.ID] = source
	return true, nil
}

func (s *StubRepo) Delete(ctx context.Context, profileId int, id int) (bool, error) {
	if _, ok := s.sources[id]; !ok {
		return false, nil
	}
	delete(s.sources, id)
	return true, nil
}

func (s *StubRepo) FindMaxPosition(ctx context.Context, profileId int) (int, error) {
	max := 0
	for _, source := range s.sources {
		if source.Position > max {
			max = source.Position
		}
	}
	return max, nil
}

func (s *StubRepo) Cleanup() {
	s.sources = map[int]Source{}
	s.nextId = 0
}
