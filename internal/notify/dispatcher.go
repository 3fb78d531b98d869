package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	// DevSkipHandle asks for log-only delivery; clients without push send it
	// (or nothing, which means the same).
	DevSkipHandle = "dev-skip"

	ChannelFCM = "fcm"
	ChannelLog = "log"

	minHandleLength = 50
)

// Delivery reports how a code was delivered. Err is set when push was
// attempted and failed; the code was logged instead.
type Delivery struct {
	Channel string
	Err     error
}

// Dispatcher routes OTP deliveries to push when possible and to the log
// otherwise. It never fails the caller.
type Dispatcher struct {
	sender Sender
	logger *logrus.Logger
}

// NewDispatcher returns a dispatcher; sender may be nil when push is not
// configured.
func NewDispatcher(sender Sender, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, logger: logger}
}

// ValidHandle is a cheap format check for FCM registration tokens.
func ValidHandle(handle string) bool {
	return len(handle) > minHandleLength && !strings.HasPrefix(handle, "dev-")
}

func OTPMessage(phone, code string) Message {
	data := map[string]string{"otp": code, "phone": phone, "type": "otp"}
	return Message{
		Title: "Your verification code",
		Body:  fmt.Sprintf("OTP: %s", code),
		Data:  data,
	}
}

func (d *Dispatcher) DeliverOTP(ctx context.Context, handle, phone, code string) Delivery {
	entry := d.logger.WithField("phone", phone)

	switch {
	case handle == "" || handle == DevSkipHandle:
		entry.WithField("otp", code).Info("OTP issued (dev mode - enter manually)")
		return Delivery{Channel: ChannelLog}
	case !ValidHandle(handle):
		entry.Warn("Invalid FCM token format, falling back to log")
		entry.WithField("otp", code).Info("OTP issued")
		return Delivery{Channel: ChannelLog}
	case d.sender == nil:
		entry.WithField("otp", code).Info("OTP issued (push not configured)")
		return Delivery{Channel: ChannelLog}
	}

	if err := d.sender.Send(ctx, handle, OTPMessage(phone, code)); err != nil {
		if errors.Is(err, ErrInvalidHandle) {
			entry.WithError(err).Warn("FCM rejected device token, OTP logged")
		} else {
			entry.WithError(err).Warn("FCM send failed")
		}
		entry.WithField("otp", code).Info("OTP issued")
		return Delivery{Channel: ChannelLog, Err: err}
	}
	entry.Info("OTP sent via FCM")
	return Delivery{Channel: ChannelFCM}
}
