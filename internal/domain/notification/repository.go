package notification

import "context"

// Repository defines the interface for notification data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	// Device tokens
	UpsertDeviceToken(ctx context.Context, params RegisterDeviceParams) (*DeviceToken, error)
	GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*DeviceToken, error)
	DeactivateToken(ctx context.Context, token string) error

	// Preferences
	GetPreferences(ctx context.Context, userID int64) (*Preferences, error)
	UpsertPreferences(ctx context.Context, userID int64, params UpdatePreferencesParams) (*Preferences, error)

	// Notifications
	CreateNotification(ctx context.Context, params CreateParams) (*Notification, error)
	ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Notification, int, error)
	MarkOpened(ctx context.Context, notificationID string, userID int64) error
}
