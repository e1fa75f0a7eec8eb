package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/collection-calendar/internal/model"
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	codePattern  = regexp.MustCompile(`^[a-z0-9_]{2,64}$`)
)

type CatalogService struct {
	repo CatalogStore
}

type CreateGarbageTypeInput struct {
	Code      string
	NamePT    string
	NameEN    string
	NameES    string
	ColorHex  string
	Icon      string
	Principal model.Principal
}

func NewCatalogService(repo CatalogStore) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListCities(ctx context.Context) ([]model.City, error) {
	cities, err := s.repo.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []model.City{}
	}
	return cities, nil
}

func (s *CatalogService) GetCity(ctx context.Context, id uuid.UUID) (*model.City, error) {
	city, err := s.repo.GetCity(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return city, nil
}

func (s *CatalogService) GetZone(ctx context.Context, id uuid.UUID) (*model.Zone, error) {
	zone, err := s.repo.GetZone(ctx, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return zone, nil
}

func (s *CatalogService) ListGarbageTypes(ctx context.Context) ([]model.GarbageType, error) {
	types, err := s.repo.ListGarbageTypes(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []model.GarbageType{}
	}
	return types, nil
}

func (s *CatalogService) CreateGarbageType(ctx context.Context, input CreateGarbageTypeInput) (*model.GarbageType, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	gt := model.GarbageType{
		Code:     strings.ToLower(strings.TrimSpace(input.Code)),
		NamePT:   strings.TrimSpace(input.NamePT),
		NameEN:   strings.TrimSpace(input.NameEN),
		NameES:   strings.TrimSpace(input.NameES),
		ColorHex: strings.TrimSpace(input.ColorHex),
		Icon:     strings.TrimSpace(input.Icon),
	}
	if !codePattern.MatchString(gt.Code) {
		return nil, fmt.Errorf("%w: code must match %s", ErrInvalidInput, codePattern.String())
	}
	if gt.NamePT == "" || gt.NameEN == "" || gt.NameES == "" {
		return nil, fmt.Errorf("%w: names in pt, en and es are required", ErrInvalidInput)
	}
	if !colorPattern.MatchString(gt.ColorHex) {
		return nil, fmt.Errorf("%w: color_hex must be #RRGGBB", ErrInvalidInput)
	}

	saved, err := s.repo.CreateGarbageType(ctx, gt)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return saved, nil
}
