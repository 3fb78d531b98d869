package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTypePhone marks tokens minted for OTP-verified phone users.
	TokenTypePhone = "phone"
	// TokenValidityHours is the lifetime of every token: 7 days.
	TokenValidityHours = 7 * 24
)

var ErrInvalidClaims = errors.New("invalid token claims")

// jwtClaims is the wire payload shared by both token kinds. Type is the
// discriminator; staff tokens leave it empty and carry the staff id in sub.
type jwtClaims struct {
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
	Type  string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Claims is the decoded token: either *StaffClaims or *PhoneClaims.
type Claims interface {
	TokenRole() string
	isClaims()
}

// StaffClaims identifies a password-authenticated staff member.
type StaffClaims struct {
	StaffID   string
	Role      string
	ExpiresAt time.Time
}

// PhoneClaims identifies an OTP-verified phone user.
type PhoneClaims struct {
	Phone     string
	Role      string
	ExpiresAt time.Time
}

func (c *StaffClaims) TokenRole() string { return c.Role }
func (c *PhoneClaims) TokenRole() string { return c.Role }
func (*StaffClaims) isClaims()          {}
func (*PhoneClaims) isClaims()          {}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey       string
	expirationHours int64
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey string, expirationHours int64) *JWTUtil {
	return &JWTUtil{secretKey: secretKey, expirationHours: expirationHours}
}

// IssueStaffToken signs a token for a staff credential record.
func (ju *JWTUtil) IssueStaffToken(staffID, role string) (string, error) {
	return ju.sign(&jwtClaims{
		Role:             role,
		RegisteredClaims: ju.registered(staffID),
	})
}

// IssuePhoneToken signs a token for a phone number verified by OTP.
func (ju *JWTUtil) IssuePhoneToken(phone, role string) (string, error) {
	return ju.sign(&jwtClaims{
		Role:             role,
		Phone:            phone,
		Type:             TokenTypePhone,
		RegisteredClaims: ju.registered(""),
	})
}

func (ju *JWTUtil) registered(subject string) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour * time.Duration(ju.expirationHours))),
	}
}

func (ju *JWTUtil) sign(claims *jwtClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies signature and expiry and decodes the payload into
// the variant named by its type field.
func (ju *JWTUtil) ValidateToken(tokenString string) (Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	raw, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	switch raw.Type {
	case TokenTypePhone:
		if raw.Phone == "" || raw.Role == "" {
			return nil, fmt.Errorf("%w: phone token without phone or role", ErrInvalidClaims)
		}
		return &PhoneClaims{Phone: raw.Phone, Role: raw.Role, ExpiresAt: raw.ExpiresAt.Time}, nil
	case "":
		if raw.Subject == "" || raw.Role == "" {
			return nil, fmt.Errorf("%w: staff token without subject or role", ErrInvalidClaims)
		}
		return &StaffClaims{StaffID: raw.Subject, Role: raw.Role, ExpiresAt: raw.ExpiresAt.Time}, nil
	default:
		return nil, fmt.Errorf("%w: unknown token type %q", ErrInvalidClaims, raw.Type)
	}
}
