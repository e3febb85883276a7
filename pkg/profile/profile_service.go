package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service interface {
	GetCurrentProfile(ctx context.Context) (Profile, error)
	GetProfileByUid(ctx context.Context, uid string) (Profile, error)
	CreateProfile(ctx context.Context, p Profile) (Profile, error)
	UpdateProfile(ctx context.Context, p Profile) (Profile, error)
	DeleteProfile(ctx context.Context, id int) error
	GetAllProfiles(ctx context.Context) ([]Profile, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewProfileService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetCurrentProfile(ctx context.Context) (Profile, error) {
	profileId, err := CurrentId(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.GetProfile(ctx, profileId)
}

func (s *ServiceImpl) GetProfileByUid(ctx context.Context, uid string) (Profile, error) {
	return s.repo.GetProfileByUid(ctx, uid)
}

func (s *ServiceImpl) CreateProfile(ctx context.Context, p Profile) (Profile, error) {
	p.Uid = uuid.NewString()
	if p.Settings.Currency == "" {
		p.Settings.Currency = "USD"
	}
	id, err := s.repo.CreateProfile(ctx, p)
	if err != nil {
		return Profile{}, err
	}
	p.Id = id
	return p, nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	profileId, err := CurrentId(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.UpdateProfile(ctx, profileId, p)
}

func (s *ServiceImpl) DeleteProfile(ctx context.Context, id int) error {
	return s.repo.DeleteProfile(ctx, id)
}

func (s *ServiceImpl) GetAllProfiles(ctx context.Context) ([]Profile, error) {
	return s.repo.GetAllProfiles(ctx)
}
