package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "eventro/internal/errors"
	"eventro/internal/logger"
	"eventro/internal/models"
	"eventro/internal/storage"
)

type ProfileService struct {
	profiles ProfileStore
	cache    ProfileCache
	store    ObjectStore
}

// NewProfileService creates the service; cache and store may be nil
func NewProfileService(profiles ProfileStore, cache ProfileCache, store ObjectStore) *ProfileService {
	return &ProfileService{profiles: profiles, cache: cache, store: store}
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	log := logger.WithContext(ctx)

	if s.cache != nil {
		cached, err := s.cache.GetProfile(ctx, id)
		if err != nil {
			log.Warn("Profile cache read failed", "profile_id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, profile); err != nil {
			log.Warn("Profile cache write failed", "profile_id", id, "error", err)
		}
	}
	return profile, nil
}

// Upsert creates or updates the caller's own profile
func (s *ProfileService) Upsert(ctx context.Context, id string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	profile := &models.Profile{
		ID:        id,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     normalizeEmail(req.Email),
	}
	if profile.FirstName == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: first name and email are required", apperrors.ErrInvalidInput)
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.invalidate(ctx, id)
	return profile, nil
}

func (s *ProfileService) UploadAvatar(ctx context.Context, id string, file Upload) (*models.Profile, error) {
	return s.upload(ctx, id, "avatars", file, s.profiles.UpdateAvatarURL)
}

func (s *ProfileService) UploadBanner(ctx context.Context, id string, file Upload) (*models.Profile, error) {
	return s.upload(ctx, id, "banners", file, s.profiles.UpdateBannerURL)
}

func (s *ProfileService) upload(ctx context.Context, id, prefix string, file Upload, save func(ctx context.Context, id, url string) error) (*models.Profile, error) {
	if s.store == nil {
		return nil, apperrors.ErrStorageDisabled
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	url, err := s.store.Upload(ctx, storage.ObjectKey(prefix, id, file.Filename), file.Reader, file.Size, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", prefix, err)
	}
	if err := save(ctx, id, url); err != nil {
		return nil, fmt.Errorf("failed to save %s url: %w", prefix, err)
	}

	s.invalidate(ctx, id)
	return s.profiles.GetByID(ctx, id)
}

func (s *ProfileService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProfile(ctx, id); err != nil {
		logger.WithContext(ctx).Warn("Profile cache invalidation failed", "profile_id", id, "error", err)
	}
}
