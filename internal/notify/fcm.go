package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ErrInvalidHandle is returned when FCM rejects the registration token as
// unknown or malformed.
var ErrInvalidHandle = errors.New("notify: invalid or unregistered device handle")

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMSender sends messages through the Firebase Admin messaging client.
type FCMSender struct {
	ProjectID string
	client    messagingClient
}

// NewFCMSender builds a sender from a service account key (the JSON file
// contents). projectID may be empty to use the key's project.
func NewFCMSender(ctx context.Context, projectID string, serviceAccountJSON []byte) (*FCMSender, error) {
	projectID, err := projectFromKey(projectID, serviceAccountJSON)
	if err != nil {
		return nil, err
	}
	return newFCMSender(ctx, projectID, option.WithCredentialsJSON(serviceAccountJSON))
}

// NewDefaultFCMSender uses Application Default Credentials
// (GOOGLE_APPLICATION_CREDENTIALS or the metadata server).
func NewDefaultFCMSender(ctx context.Context, projectID string) (*FCMSender, error) {
	if projectID == "" {
		return nil, errors.New("notify: FCM project id not set")
	}
	return newFCMSender(ctx, projectID)
}

func newFCMSender(ctx context.Context, projectID string, opts ...option.ClientOption) (*FCMSender, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("notify: init messaging client: %w", err)
	}
	return &FCMSender{ProjectID: projectID, client: client}, nil
}

func projectFromKey(projectID string, serviceAccountJSON []byte) (string, error) {
	var key struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(serviceAccountJSON, &key); err != nil {
		return "", fmt.Errorf("notify: parse service account: %w", err)
	}
	if projectID == "" {
		projectID = key.ProjectID
	}
	if projectID == "" {
		return "", errors.New("notify: FCM project id not set")
	}
	return projectID, nil
}

func buildFCMMessage(handle string, msg Message) *messaging.Message {
	return &messaging.Message{
		Token:        handle,
		Data:         msg.Data,
		Notification: &messaging.Notification{Title: msg.Title, Body: msg.Body},
		Android: &messaging.AndroidConfig{
			Priority:     "high",
			Data:         msg.Data,
			DirectBootOK: true,
			Notification: &messaging.AndroidNotification{
				ChannelID: "otp",
				Title:     msg.Title,
				Body:      msg.Body,
				Priority:  messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert:            &messaging.ApsAlert{Title: msg.Title, Body: msg.Body},
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}
}

// Send returns ErrInvalidHandle (wrapped) when FCM reports the registration
// token as unknown or malformed.
func (s *FCMSender) Send(ctx context.Context, handle string, msg Message) error {
	if _, err := s.client.Send(ctx, buildFCMMessage(handle, msg)); err != nil {
		if messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) {
			return fmt.Errorf("%w: %v", ErrInvalidHandle, err)
		}
		return fmt.Errorf("notify: fcm send: %w", err)
	}
	return nil
}
