package profile

import (
	"context"
)

type StubRepo struct {
	nextId   int
	profiles map[int]Profile
}

func NewStubProfileRepo() *StubRepo {
	return &StubRepo{profiles: map[int]Profile{}}
}

func (s *StubRepo) CreateProfile(ctx context.Context, p Profile) (int, error) {
	s.nextId++
	p.Id = s.nextId
	s.profiles[p.Id] = p
	return p.Id, nil
}

func (s *StubRepo) GetProfile(ctx context.Context, id int) (Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

func (s *StubRepo) GetProfileByUid(ctx context.Context, uid string) (Profile, error) {
	for _, p := range s.profiles {
		if p.Uid == uid {
			return p, nil
		}
	}
	return Profile{}, ErrProfileNotFound
}

func (s *StubRepo) UpdateProfile(ctx context.Context, id int, p Profile) (Profile, error) {
	if _, ok := s.profiles[id]; !ok {
		return Profile{}, ErrProfileNotFound
	}
	p.Id = id
	s.profiles[id] = p
	return p, nil
}

func (s *StubRepo) DeleteProfile(ctx context.Context, id int) error {
	delete(s.profiles, id)
	return nil
}

func (s *StubRepo) GetAllProfiles(ctx context.Context) ([]Profile, error) {
	profiles := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *StubRepo) Cleanup() {
	s.profiles = map[int]Profile{}
	s.nextId = 0
}
