package repository

import (
	"fmt"
	"strings"

	"invoice_server/internal/model"
	"invoice_server/internal/utils"
)

// minOwnerKeyDigits is the shortest key that may scope a query. Anything
// shorter matches nothing.
const minOwnerKeyDigits = 10

// OwnerFilter restricts owned records (bills, bottle orders) to those whose
// user_id or user_phone ends with the caller's normalized phone.
type OwnerFilter struct {
	key          string
	unrestricted bool
}

// OwnerFilterFor derives the filter from the principal's id, phone or phone
// number, whichever is set first.
func OwnerFilterFor(p model.Principal) OwnerFilter {
	return OwnerFilter{key: utils.NormalizePhone(p.OwnerKeySource())}
}

// Unrestricted returns a filter that matches every record. Only the admin
// routes use it.
func Unrestricted() OwnerFilter {
	return OwnerFilter{unrestricted: true}
}

func (f OwnerFilter) Key() string { return f.key }

func (f OwnerFilter) MatchesNothing() bool {
	return !f.unrestricted && len(f.key) < minOwnerKeyDigits
}

// Where renders the predicate, numbering its placeholder $n.
func (f OwnerFilter) Where(n int) (string, []any) {
	switch {
	case f.unrestricted:
		return "TRUE", nil
	case f.MatchesNothing():
		return "FALSE", nil
	}
	// key is ten digits, so it carries no LIKE metacharacters
	return fmt.Sprintf("(user_id LIKE $%d OR user_phone LIKE $%d)", n, n), []any{"%" + f.key}
}

// Matches applies the same rule in memory.
func (f OwnerFilter) Matches(userID, userPhone string) bool {
	switch {
	case f.unrestricted:
		return true
	case f.MatchesNothing():
		return false
	}
	return strings.HasSuffix(userID, f.key) || strings.HasSuffix(userPhone, f.key)
}
