package notification

import "context"

// Messenger delivers a push notification to a set of device tokens.
// Implemented by the Firebase FCM client; nil when push is not configured.
type Messenger interface {
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}
