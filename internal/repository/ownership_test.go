package repository

import (
	"testing"

	"invoice_server/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestOwnerFilter_SuffixMatch(t *testing.T) {
	f := OwnerFilterFor(model.NewPhonePrincipal("9949249432", model.RoleUser))

	assert.True(t, f.Matches("", "+919949249432"))
	assert.True(t, f.Matches("919949249432", ""))
	assert.False(t, f.Matches("", "1234567890"))
	assert.False(t, f.Matches("9949249432-old", ""))
}

func TestOwnerFilter_NormalizesPrincipalKey(t *testing.T) {
	f := OwnerFilterFor(model.NewPhonePrincipal("+91 99492 49432", model.RoleUser))
	assert.Equal(t, "9949249432", f.Key())

	where, args := f.Where(3)
	assert.Equal(t, "(user_id LIKE $3 OR user_phone LIKE $3)", where)
	assert.Equal(t, []any{"%9949249432"}, args)
}

func TestOwnerFilter_ShortKeyMatchesNothing(t *testing.T) {
	for _, p := range []model.Principal{
		model.NewPhonePrincipal("12345", model.RoleUser),
		{},
		{Kind: model.PrincipalStaff, ID: "b3c1a9e0-ffff-aaaa-bbbb-cccccccccccc"},
	} {
		f := OwnerFilterFor(p)
		assert.True(t, f.MatchesNothing(), "principal %+v", p)
		assert.False(t, f.Matches(p.ID, p.ID))
		where, args := f.Where(1)
		assert.Equal(t, "FALSE", where)
		assert.Nil(t, args)
	}
}

func TestOwnerFilter_FallsBackToPhoneFields(t *testing.T) {
	f := OwnerFilterFor(model.Principal{PhoneNumber: "0 99492 49432"})
	assert.Equal(t, "9949249432", f.Key())
	assert.True(t, f.Matches("", "9949249432"))
}

func TestUnrestricted(t *testing.T) {
	f := Unrestricted()
	assert.False(t, f.MatchesNothing())
	assert.True(t, f.Matches("", ""))
	where, args := f.Where(1)
	assert.Equal(t, "TRUE", where)
	assert.Nil(t, args)
}
