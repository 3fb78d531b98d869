package otp

import (
	"strings"

	"invoice_server/internal/model"
	"invoice_server/internal/utils"
)

// AdminPhones is the configured allowlist of phone numbers that receive the
// admin role when they verify an OTP.
type AdminPhones struct {
	normalized map[string]struct{}
}

// ParseAdminPhones reads a comma separated list such as "+91 99492 49432, 9876543210".
func ParseAdminPhones(list string) AdminPhones {
	return NewAdminPhones(strings.Split(list, ",")...)
}

func NewAdminPhones(phones ...string) AdminPhones {
	a := AdminPhones{normalized: make(map[string]struct{})}
	for _, p := range phones {
		if n := utils.NormalizePhone(strings.TrimSpace(p)); n != "" {
			a.normalized[n] = struct{}{}
		}
	}
	return a
}

// RoleFor returns "admin" for allowlisted numbers and "user" otherwise.
func (a AdminPhones) RoleFor(phone string) string {
	n := utils.NormalizePhone(phone)
	if n == "" {
		return model.RoleUser
	}
	if _, ok := a.normalized[n]; ok {
		return model.RoleAdmin
	}
	return model.RoleUser
}

func (a AdminPhones) Len() int { return len(a.normalized) }
