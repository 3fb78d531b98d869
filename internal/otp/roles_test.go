package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"invoice_server/internal/model"
)

func TestAdminPhones_RoleFor(t *testing.T) {
	admins := ParseAdminPhones("+91 99492 49432, 8000000001,,  ")

	assert.Equal(t, 2, admins.Len())
	assert.Equal(t, model.RoleAdmin, admins.RoleFor("9949249432"))
	assert.Equal(t, model.RoleAdmin, admins.RoleFor("+919949249432"))
	assert.Equal(t, model.RoleAdmin, admins.RoleFor(" 80000 00001 "))
	assert.Equal(t, model.RoleUser, admins.RoleFor("9876543210"))
	assert.Equal(t, model.RoleUser, admins.RoleFor(""))
}

func TestAdminPhones_Empty(t *testing.T) {
	admins := ParseAdminPhones("")
	assert.Equal(t, 0, admins.Len())
	assert.Equal(t, model.RoleUser, admins.RoleFor("9949249432"))
}
