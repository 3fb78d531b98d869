package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBillFields_Apply_OnlyTouchesSetFields(t *testing.T) {
	b := NewBill()
	b.BillNo = "B-1"
	b.UserPhone = "+919949249432"

	status := BillStatusCancelled
	total := 118.0
	BillFields{Status: &status, GrandTotal: &total}.Apply(b)

	assert.Equal(t, "B-1", b.BillNo)
	assert.Equal(t, "+919949249432", b.UserPhone)
	assert.Equal(t, BillStatusCancelled, b.Status)
	assert.Equal(t, 118.0, b.GrandTotal)
	assert.Equal(t, DefaultGSTRate, b.CGSTRate)
}

func TestBillFields_Apply_CanOverwriteOwnership(t *testing.T) {
	b := NewBill()
	b.UserID = "9949249432"
	other := "1234567890"
	BillFields{UserID: &other}.Apply(b)
	assert.Equal(t, "1234567890", b.UserID)
}

func TestBottleOrderFields_Apply_Dates(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	o := NewBottleOrder(now)
	assert.Equal(t, BottleOrderStatusPending, o.Status)
	assert.Nil(t, o.DeliveryDate)

	delivered := now.Add(48 * time.Hour)
	BottleOrderFields{DeliveryDate: &delivered}.Apply(o)
	if assert.NotNil(t, o.DeliveryDate) {
		assert.True(t, o.DeliveryDate.Equal(delivered))
	}
	assert.True(t, o.OrderDate.Equal(now))
}

func TestPrincipal_OwnerKeySource(t *testing.T) {
	assert.Equal(t, "+919876543210", NewPhonePrincipal("+919876543210", RoleUser).OwnerKeySource())
	assert.Equal(t, "0999", Principal{Phone: "0999"}.OwnerKeySource())
	assert.Equal(t, "555", Principal{PhoneNumber: "555"}.OwnerKeySource())
	assert.Equal(t, "", Principal{}.OwnerKeySource())
}

func TestNewStaffPrincipal_StripsSecrets(t *testing.T) {
	p := NewStaffPrincipal(&User{ID: "u1", Name: "Admin", Email: "a@b.c", PasswordHash: "hash", Role: RoleAdmin})
	assert.Equal(t, PrincipalStaff, p.Kind)
	assert.Equal(t, "u1", p.ID)
	assert.True(t, p.IsAdmin())
}
