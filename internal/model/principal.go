package model

const (
	PrincipalStaff = "staff"
	PrincipalPhone = "phone"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role"`
}

// NewStaffPrincipal builds a principal from a staff record. The password
// hash never leaves the record.
func NewStaffPrincipal(u *User) Principal {
	return Principal{
		Kind:  PrincipalStaff,
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// NewPhonePrincipal builds a principal for an OTP-verified phone; the phone
// as supplied by the client doubles as the identifier.
func NewPhonePrincipal(phone, role string) Principal {
	return Principal{
		Kind:  PrincipalPhone,
		ID:    phone,
		Phone: phone,
		Role:  role,
	}
}

// OwnerKeySource returns the raw phone-like value used to scope owned
// records: the identifier first, then phone, then phone number.
func (p Principal) OwnerKeySource() string {
	switch {
	case p.ID != "":
		return p.ID
	case p.Phone != "":
		return p.Phone
	default:
		return p.PhoneNumber
	}
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
