package notification

import "context"

// Messenger sends push notifications to devices. The Firebase FCM
// client in the infrastructure layer implements it; a nil Messenger
// disables push while keeping in-app records working.
type Messenger interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}
