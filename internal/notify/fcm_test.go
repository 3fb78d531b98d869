package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// newTestFCMSender points a real messaging client at handler.
func newTestFCMSender(t *testing.T, handler http.HandlerFunc) *FCMSender {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := newFCMSender(context.Background(), "invoice-test",
		option.WithEndpoint(server.URL), option.WithoutAuthentication())
	require.NoError(t, err)
	return s
}

func fcmError(status int, code, errorCode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"rejected","status":%q,"details":[{"@type":"type.googleapis.com/google.firebase.fcm.v1.FcmError","errorCode":%q}]}}`,
			status, code, errorCode)
	}
}

func TestFCMSender_Send_Success(t *testing.T) {
	var got struct {
		Message struct {
			Token        string            `json:"token"`
			Data         map[string]string `json:"data"`
			Notification struct {
				Title string `json:"title"`
				Body  string `json:"body"`
			} `json:"notification"`
			Android struct {
				Priority     string `json:"priority"`
				DirectBootOK bool   `json:"direct_boot_ok"`
				Notification struct {
					ChannelID string `json:"channel_id"`
				} `json:"notification"`
			} `json:"android"`
			APNS struct {
				Payload map[string]any `json:"payload"`
			} `json:"apns"`
		} `json:"message"`
	}
	s := newTestFCMSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/projects/invoice-test/messages:send"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"projects/invoice-test/messages/1"}`))
	})

	err := s.Send(context.Background(), "device-token", OTPMessage("9876543210", "123456"))
	require.NoError(t, err)

	assert.Equal(t, "device-token", got.Message.Token)
	assert.Equal(t, "123456", got.Message.Data["otp"])
	assert.Equal(t, "9876543210", got.Message.Data["phone"])
	assert.Equal(t, "otp", got.Message.Data["type"])
	assert.Equal(t, "OTP: 123456", got.Message.Notification.Body)
	assert.Equal(t, "high", got.Message.Android.Priority)
	assert.Equal(t, "otp", got.Message.Android.Notification.ChannelID)
	assert.True(t, got.Message.Android.DirectBootOK)
	aps, ok := got.Message.APNS.Payload["aps"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "default", aps["sound"])
}

func TestFCMSender_Send_RejectedHandle(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unregistered", fcmError(http.StatusNotFound, "NOT_FOUND", "UNREGISTERED")},
		{"invalid argument", fcmError(http.StatusBadRequest, "INVALID_ARGUMENT", "INVALID_ARGUMENT")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestFCMSender(t, tt.handler)
			err := s.Send(context.Background(), "stale-token", OTPMessage("9876543210", "123456"))
			assert.ErrorIs(t, err, ErrInvalidHandle)
		})
	}
}

func TestFCMSender_Send_OtherFailure(t *testing.T) {
	s := newTestFCMSender(t, fcmError(http.StatusForbidden, "PERMISSION_DENIED", "SENDER_ID_MISMATCH"))

	err := s.Send(context.Background(), "device-token", OTPMessage("9876543210", "123456"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidHandle)
	assert.Contains(t, err.Error(), "notify: fcm send")
}

type stubMessagingClient struct {
	sent []*messaging.Message
	err  error
}

func (c *stubMessagingClient) Send(ctx context.Context, m *messaging.Message) (string, error) {
	c.sent = append(c.sent, m)
	return "projects/p/messages/1", c.err
}

func TestFCMSender_Send_TransportError(t *testing.T) {
	client := &stubMessagingClient{err: errors.New("connection reset")}
	s := &FCMSender{ProjectID: "p", client: client}

	err := s.Send(context.Background(), "device-token", OTPMessage("9876543210", "123456"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidHandle)
	require.Len(t, client.sent, 1)
	assert.Equal(t, messaging.PriorityHigh, client.sent[0].Android.Notification.Priority)
	assert.True(t, client.sent[0].APNS.Payload.Aps.ContentAvailable)
}

func TestProjectFromKey(t *testing.T) {
	key := []byte(`{"type":"service_account","project_id":"from-key"}`)

	p, err := projectFromKey("", key)
	require.NoError(t, err)
	assert.Equal(t, "from-key", p)

	p, err = projectFromKey("explicit", key)
	require.NoError(t, err)
	assert.Equal(t, "explicit", p)

	_, err = projectFromKey("", []byte(`{"type":"service_account"}`))
	assert.Error(t, err)
}

func TestNewFCMSender_InvalidKey(t *testing.T) {
	_, err := NewFCMSender(context.Background(), "p", []byte("not json"))
	assert.Error(t, err)
}

func TestNewDefaultFCMSender_RequiresProject(t *testing.T) {
	_, err := NewDefaultFCMSender(context.Background(), "")
	assert.Error(t, err)
}
