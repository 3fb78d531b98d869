package service

import (
	"context"
	"testing"

	"invoice_server/internal/model"
	"invoice_server/internal/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyService_DefaultsUntilSaved(t *testing.T) {
	svc := NewCompanyService(repotest.NewCompany())

	c, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCompanyName, c.Name)
	assert.Nil(t, c.CreatedAt)
}

func TestCompanyService_Update(t *testing.T) {
	ctx := context.Background()
	svc := NewCompanyService(repotest.NewCompany())

	_, err := svc.Update(ctx, model.UpdateCompanyRequest{Address: strPtr("12 Market Road")})
	assert.ErrorIs(t, err, ErrValidation)

	saved, err := svc.Update(ctx, model.UpdateCompanyRequest{
		Address: strPtr("12 Market Road"),
		Phone:   strPtr("9949249432"),
		GSTIN:   strPtr("36ABCDE1234F1Z5"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCompanyName, saved.Name)
	require.NotNil(t, saved.CreatedAt)
	created := *saved.CreatedAt

	again, err := svc.Update(ctx, model.UpdateCompanyRequest{Tagline: strPtr("Quality you can trust")})
	require.NoError(t, err)
	assert.Equal(t, "36ABCDE1234F1Z5", again.GSTIN)
	assert.Equal(t, "Quality you can trust", again.Tagline)
	assert.Equal(t, created, *again.CreatedAt)
	assert.True(t, again.UpdatedAt.After(created))

	_, err = svc.Update(ctx, model.UpdateCompanyRequest{Phone: strPtr("")})
	assert.ErrorIs(t, err, ErrValidation)
}
