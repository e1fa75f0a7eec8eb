package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Lookups(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.store)
	ctx := context.Background()

	cities, err := svc.ListCities(ctx)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Len(t, cities[0].Zones, 1)

	city, err := svc.GetCity(ctx, f.city.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lisboa", city.Name)

	_, err = svc.GetCity(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetZone(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	types, err := svc.ListGarbageTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 2)
}

func TestCatalogService_CreateGarbageType(t *testing.T) {
	f := newFixture()
	svc := NewCatalogService(f.store)
	ctx := context.Background()
	input := CreateGarbageTypeInput{
		Code:      " Organico ",
		NamePT:    "Orgânico",
		NameEN:    "Organic",
		NameES:    "Orgánico",
		ColorHex:  "#92400e",
		Principal: admin,
	}

	gt, err := svc.CreateGarbageType(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "organico", gt.Code)

	_, err = svc.CreateGarbageType(ctx, input)
	assert.ErrorIs(t, err, ErrConflict)

	denied := input
	denied.Principal = editor
	_, err = svc.CreateGarbageType(ctx, denied)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	badColor := input
	badColor.Code = "other"
	badColor.ColorHex = "brown"
	_, err = svc.CreateGarbageType(ctx, badColor)
	assert.ErrorIs(t, err, ErrInvalidInput)

	noName := input
	noName.Code = "other"
	noName.NameES = ""
	_, err = svc.CreateGarbageType(ctx, noName)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
