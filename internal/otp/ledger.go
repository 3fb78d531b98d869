// Package otp keeps pending one-time codes keyed by the phone string the
// client submitted. Codes are single use and expire after five minutes.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"
)

const (
	// TTL is how long an issued code stays valid.
	TTL = 5 * time.Minute

	codeMin = 100000
	codeMax = 999999
)

var (
	ErrNotFound = errors.New("otp: no pending code")
	ErrExpired  = errors.New("otp: code expired")
	ErrMismatch = errors.New("otp: code mismatch")
)

// Entry is one pending code.
type Entry struct {
	Code           string    `json:"code"`
	ExpiresAt      time.Time `json:"expiresAt"`
	DeliveryHandle string    `json:"deliveryHandle"`
}

// Ledger issues and consumes codes. Issue replaces any pending code for the
// key; Verify deletes the entry on success and on expiry.
type Ledger interface {
	Issue(ctx context.Context, phoneKey, deliveryHandle string) (string, error)
	Verify(ctx context.Context, phoneKey, code string) error
	Delete(ctx context.Context, phoneKey string) error
}

// GenerateCode returns a uniformly random code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

// codesEqual compares in constant time. Codes of different length are a
// plain mismatch.
func codesEqual(supplied, stored string) bool {
	if len(supplied) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}

// check applies the expiry and code rules to a fetched entry. The bool
// reports whether the caller must delete the entry.
func check(e Entry, code string, now time.Time) (bool, error) {
	if now.After(e.ExpiresAt) {
		return true, ErrExpired
	}
	if !codesEqual(code, e.Code) {
		return false, ErrMismatch
	}
	return true, nil
}
