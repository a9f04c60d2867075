package service

import (
	"context"
	"fmt"

	"backend/internal/repository"
)

// SettingService exposes the key-value store consumed by the UI layers
// (business mode, currency, locale). Nothing in the transactional core
// reads these values.
type SettingService interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

type settingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

func (s *settingService) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: key is empty", ErrInvalidArgument)
	}
	return s.repo.Get(ctx, key)
}

func (s *settingService) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidArgument)
	}
	return s.repo.Set(ctx, key, value)
}

func (s *settingService) All(ctx context.Context) (map[string]string, error) {
	return s.repo.All(ctx)
}
