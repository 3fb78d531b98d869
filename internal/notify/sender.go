// Package notify delivers one-time codes to client devices over Firebase
// Cloud Messaging, falling back to an operator-visible log line.
package notify

import "context"

// Message is a push payload. Data is delivered to the app in the
// foreground; Title and Body are shown when it is in the background.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a message to a device handle (an FCM registration token).
type Sender interface {
	Send(ctx context.Context, handle string, msg Message) error
}
