package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"invoice_server/internal/metrics"
	"invoice_server/internal/model"
	"invoice_server/internal/notify"
	"invoice_server/internal/otp"
	"invoice_server/internal/repository"
	"invoice_server/internal/utils"

	"github.com/sirupsen/logrus"
)

// AuthService provides authentication related services
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	RequestOTP(ctx context.Context, phone, fcmToken string) error
	VerifyOTP(ctx context.Context, phone, code string) (model.Principal, string, error)
	ChangePassword(ctx context.Context, p model.Principal, currentPassword, newPassword string) error
}

// OTPDeliverer hands an issued code to the user.
type OTPDeliverer interface {
	DeliverOTP(ctx context.Context, handle, phone, code string) notify.Delivery
}

// AuthDeps are the collaborators of the auth service.
type AuthDeps struct {
	Users       repository.UserRepository
	JWT         *utils.JWTUtil
	Ledger      otp.Ledger
	AdminPhones otp.AdminPhones
	Deliverer   OTPDeliverer
	Metrics     *metrics.Metrics
	Logger      *logrus.Logger
}

type authService struct {
	AuthDeps
}

// NewAuthService creates a new AuthService
func NewAuthService(deps AuthDeps) AuthService {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &authService{AuthDeps: deps}
}

// Login authenticates a staff member by email and password and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", invalid("Email and password are required")
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
			return nil, "", ErrInvalidCredentials
		}
		s.Metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.Metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.JWT.IssueStaffToken(user.ID, user.Role)
	if err != nil {
		s.Metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	s.Metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return user, token, nil
}

// RequestOTP records a fresh code for phone and hands it to the deliverer.
// Delivery problems are logged and counted, never returned.
func (s *authService) RequestOTP(ctx context.Context, phone, fcmToken string) error {
	if phone == "" {
		return invalid("Phone required")
	}
	handle := fcmToken
	if handle == "" {
		handle = notify.DevSkipHandle
	}

	code, err := s.Ledger.Issue(ctx, phone, handle)
	if err != nil {
		return fmt.Errorf("failed to issue OTP: %w", err)
	}
	s.Metrics.OTPIssuedTotal.Inc()

	delivery := s.Deliverer.DeliverOTP(ctx, handle, phone, code)
	s.Metrics.RecordDelivery(delivery.Channel, delivery.Err)
	return nil
}

// VerifyOTP consumes the pending code and mints a phone token. The role is
// decided here, from the admin allowlist, and then trusted for the life of
// the token.
func (s *authService) VerifyOTP(ctx context.Context, phone, code string) (model.Principal, string, error) {
	if phone == "" || code == "" {
		return model.Principal{}, "", invalid("Phone and OTP required")
	}

	if err := s.Ledger.Verify(ctx, phone, code); err != nil {
		result := metrics.ResultError
		switch {
		case errors.Is(err, otp.ErrNotFound):
			result = metrics.ResultNotFound
		case errors.Is(err, otp.ErrExpired):
			result = metrics.ResultExpired
		case errors.Is(err, otp.ErrMismatch):
			result = metrics.ResultMismatch
		}
		s.Metrics.OTPVerificationsTotal.WithLabelValues(result).Inc()
		if result == metrics.ResultError {
			return model.Principal{}, "", fmt.Errorf("failed to verify OTP: %w", err)
		}
		s.Logger.WithFields(logrus.Fields{"phone": phone, "result": result}).Info("OTP verification rejected")
		return model.Principal{}, "", fmt.Errorf("%w: %w", ErrInvalidOTP, err)
	}

	role := s.AdminPhones.RoleFor(phone)
	token, err := s.JWT.IssuePhoneToken(phone, role)
	if err != nil {
		s.Metrics.OTPVerificationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return model.Principal{}, "", fmt.Errorf("failed to generate token: %w", err)
	}
	s.Metrics.OTPVerificationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return model.NewPhonePrincipal(phone, role), token, nil
}

// ChangePassword replaces a staff member's password. Phone principals have
// no password.
func (s *authService) ChangePassword(ctx context.Context, p model.Principal, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return invalid("Current and new password are required")
	}
	if p.Kind != model.PrincipalStaff {
		return invalid("Password change is only available for staff accounts")
	}

	user, err := s.Users.FindByID(ctx, p.ID)
	if err != nil {
		return notFound(err)
	}
	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	return nil
}
