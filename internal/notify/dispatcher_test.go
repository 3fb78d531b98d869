package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	handles []string
	msgs    []Message
	err     error
}

func (s *recordingSender) Send(ctx context.Context, handle string, msg Message) error {
	s.handles = append(s.handles, handle)
	s.msgs = append(s.msgs, msg)
	return s.err
}

var validHandle = strings.Repeat("a", 64)

func loggedOTP(hook *test.Hook) string {
	for _, e := range hook.AllEntries() {
		if v, ok := e.Data["otp"]; ok {
			return v.(string)
		}
	}
	return ""
}

func TestValidHandle(t *testing.T) {
	assert.True(t, ValidHandle(validHandle))
	assert.False(t, ValidHandle("short"))
	assert.False(t, ValidHandle("dev-"+validHandle))
	assert.False(t, ValidHandle(strings.Repeat("a", minHandleLength)))
}

func TestDispatcher_DevSkipLogsOnly(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := &recordingSender{}
	d := NewDispatcher(sender, logger)

	for _, h := range []string{"", DevSkipHandle} {
		hook.Reset()
		got := d.DeliverOTP(context.Background(), h, "9876543210", "123456")
		assert.Equal(t, ChannelLog, got.Channel)
		assert.NoError(t, got.Err)
		assert.Equal(t, "123456", loggedOTP(hook))
	}
	assert.Empty(t, sender.handles)
}

func TestDispatcher_InvalidHandleFallsBack(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := &recordingSender{}
	d := NewDispatcher(sender, logger)

	got := d.DeliverOTP(context.Background(), "garbage", "9876543210", "123456")
	assert.Equal(t, ChannelLog, got.Channel)
	assert.Empty(t, sender.handles)
	assert.Equal(t, logrus.WarnLevel, hook.AllEntries()[0].Level)
	assert.Equal(t, "123456", loggedOTP(hook))
}

func TestDispatcher_NoSenderConfigured(t *testing.T) {
	logger, hook := test.NewNullLogger()
	d := NewDispatcher(nil, logger)

	got := d.DeliverOTP(context.Background(), validHandle, "9876543210", "123456")
	assert.Equal(t, ChannelLog, got.Channel)
	assert.Equal(t, "123456", loggedOTP(hook))
}

func TestDispatcher_PushSuccess(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := &recordingSender{}
	d := NewDispatcher(sender, logger)

	got := d.DeliverOTP(context.Background(), validHandle, "9876543210", "123456")
	assert.Equal(t, ChannelFCM, got.Channel)
	assert.NoError(t, got.Err)
	assert.Equal(t, []string{validHandle}, sender.handles)
	assert.Equal(t, "123456", sender.msgs[0].Data["otp"])
	assert.Empty(t, loggedOTP(hook), "code must not be logged when push succeeded")
}

func TestDispatcher_PushFailureFallsBack(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sender := &recordingSender{err: errors.New("connection refused")}
	d := NewDispatcher(sender, logger)

	got := d.DeliverOTP(context.Background(), validHandle, "9876543210", "123456")
	assert.Equal(t, ChannelLog, got.Channel)
	assert.Error(t, got.Err)
	assert.Equal(t, "123456", loggedOTP(hook))
}
