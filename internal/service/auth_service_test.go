package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"invoice_server/internal/metrics"
	"invoice_server/internal/model"
	"invoice_server/internal/notify"
	"invoice_server/internal/otp"
	"invoice_server/internal/repository/repotest"
	"invoice_server/internal/utils"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliverer struct {
	mu      sync.Mutex
	codes   map[string]string
	handles []string
	result  notify.Delivery
}

func (d *fakeDeliverer) DeliverOTP(ctx context.Context, handle, phone, code string) notify.Delivery {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.codes == nil {
		d.codes = map[string]string{}
	}
	d.codes[phone] = code
	d.handles = append(d.handles, handle)
	if d.result.Channel == "" {
		return notify.Delivery{Channel: notify.ChannelLog}
	}
	return d.result
}

type authFixture struct {
	svc       AuthService
	users     *repotest.Users
	ledger    *otp.MemoryLedger
	deliverer *fakeDeliverer
	metrics   *metrics.Metrics
	jwt       *utils.JWTUtil
}

func newAuthFixture(t *testing.T, adminPhones string) *authFixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	f := &authFixture{
		users:     repotest.NewUsers(),
		ledger:    otp.NewMemoryLedger(),
		deliverer: &fakeDeliverer{},
		metrics:   metrics.NewNop(),
		jwt:       utils.NewJWTUtil("test-secret", utils.TokenValidityHours),
	}
	f.svc = NewAuthService(AuthDeps{
		Users:       f.users,
		JWT:         f.jwt,
		Ledger:      f.ledger,
		AdminPhones: otp.ParseAdminPhones(adminPhones),
		Deliverer:   f.deliverer,
		Metrics:     f.metrics,
		Logger:      logger,
	})
	return f
}

func (f *authFixture) addStaff(t *testing.T, email, password string) *model.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &model.User{Name: "Admin", Email: email, PasswordHash: hash, Role: model.RoleAdmin}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t, "")
	staff := f.addStaff(t, "admin@example.com", "correct-horse")

	_, _, err := f.svc.Login(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.svc.Login(context.Background(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, token, err := f.svc.Login(context.Background(), "  Admin@Example.com ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, user.ID)

	claims, err := f.jwt.ValidateToken(token)
	require.NoError(t, err)
	sc, ok := claims.(*utils.StaffClaims)
	require.True(t, ok)
	assert.Equal(t, staff.ID, sc.StaffID)
	assert.Equal(t, model.RoleAdmin, sc.Role)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess)))
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	f := newAuthFixture(t, "")
	_, _, err := f.svc.Login(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Email and password are required")
}

func TestAuthService_Login_StoreError(t *testing.T) {
	f := newAuthFixture(t, "")
	f.users.Err = errors.New("connection refused")

	_, _, err := f.svc.Login(context.Background(), "admin@example.com", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RequestAndVerifyOTP(t *testing.T) {
	f := newAuthFixture(t, "")
	ctx := context.Background()

	require.NoError(t, f.svc.RequestOTP(ctx, "9876543210", ""))
	assert.Equal(t, []string{notify.DevSkipHandle}, f.deliverer.handles)
	code := f.deliverer.codes["9876543210"]
	require.Len(t, code, 6)

	p, token, err := f.svc.VerifyOTP(ctx, "9876543210", code)
	require.NoError(t, err)
	assert.Equal(t, model.NewPhonePrincipal("9876543210", model.RoleUser), p)

	claims, err := f.jwt.ValidateToken(token)
	require.NoError(t, err)
	pc, ok := claims.(*utils.PhoneClaims)
	require.True(t, ok)
	assert.Equal(t, "9876543210", pc.Phone)
	assert.Equal(t, model.RoleUser, pc.Role)

	_, _, err = f.svc.VerifyOTP(ctx, "9876543210", code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
	assert.ErrorIs(t, err, otp.ErrNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OTPIssuedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OTPVerificationsTotal.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OTPVerificationsTotal.WithLabelValues(metrics.ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OTPDeliveriesTotal.WithLabelValues(notify.ChannelLog, metrics.ResultSuccess)))
}

func TestAuthService_VerifyOTP_Mismatch(t *testing.T) {
	f := newAuthFixture(t, "")
	ctx := context.Background()
	require.NoError(t, f.svc.RequestOTP(ctx, "9876543210", ""))

	wrong := "000000"
	if f.deliverer.codes["9876543210"] == wrong {
		wrong = "111111"
	}
	_, _, err := f.svc.VerifyOTP(ctx, "9876543210", wrong)
	assert.ErrorIs(t, err, ErrInvalidOTP)
	assert.ErrorIs(t, err, otp.ErrMismatch)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OTPVerificationsTotal.WithLabelValues(metrics.ResultMismatch)))
}

func TestAuthService_VerifyOTP_AdminAllowlist(t *testing.T) {
	f := newAuthFixture(t, "+91 99492 49432, 1112223334")
	ctx := context.Background()

	require.NoError(t, f.svc.RequestOTP(ctx, "919949249432", ""))
	p, _, err := f.svc.VerifyOTP(ctx, "919949249432", f.deliverer.codes["919949249432"])
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, p.Role)
	assert.Equal(t, "919949249432", p.ID)
}

func TestAuthService_RequestOTP_DeliveryFailureIsNotAnError(t *testing.T) {
	f := newAuthFixture(t, "")
	f.deliverer.result = notify.Delivery{Channel: notify.ChannelLog, Err: errors.New("fcm down")}

	handle := "fcm-registration-token-that-is-definitely-longer-than-fifty-characters"
	require.NoError(t, f.svc.RequestOTP(context.Background(), "9876543210", handle))
	assert.Equal(t, []string{handle}, f.deliverer.handles)

	entry, ok := f.ledger.Pending("9876543210")
	require.True(t, ok)
	assert.Equal(t, handle, entry.DeliveryHandle)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OTPDeliveriesTotal.WithLabelValues(notify.ChannelLog, metrics.ResultError)))
}

func TestAuthService_OTPValidation(t *testing.T) {
	f := newAuthFixture(t, "")
	assert.ErrorIs(t, f.svc.RequestOTP(context.Background(), "", ""), ErrValidation)
	_, _, err := f.svc.VerifyOTP(context.Background(), "9876543210", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := newAuthFixture(t, "")
	ctx := context.Background()
	staff := f.addStaff(t, "admin@example.com", "old-password")
	p := model.NewStaffPrincipal(staff)

	assert.ErrorIs(t, f.svc.ChangePassword(ctx, p, "nope", "new-password"), ErrWrongPassword)
	require.NoError(t, f.svc.ChangePassword(ctx, p, "old-password", "new-password"))

	_, _, err := f.svc.Login(ctx, "admin@example.com", "new-password")
	assert.NoError(t, err)
	_, _, err = f.svc.Login(ctx, "admin@example.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ChangePassword_PhonePrincipal(t *testing.T) {
	f := newAuthFixture(t, "")
	err := f.svc.ChangePassword(context.Background(), model.NewPhonePrincipal("9876543210", model.RoleUser), "a", "b")
	assert.ErrorIs(t, err, ErrValidation)
}
