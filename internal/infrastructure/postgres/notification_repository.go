package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/binti59/finance-app/internal/domain/notification"
)

// NotificationRepository implements the notification.Repository interface
// for PostgreSQL
type NotificationRepository struct {
	db *DB
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// UpsertDeviceToken registers or refreshes a device token. A token handed
// to a different user is reassigned to the new one.
func (r *NotificationRepository) UpsertDeviceToken(ctx context.Context, params notification.RegisterDeviceParams) (*notification.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (user_id, token, device_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE
			SET user_id = EXCLUDED.user_id,
			    device_type = EXCLUDED.device_type,
			    is_active = true,
			    last_used = NOW()
		RETURNING id, user_id, token, device_type, is_active, created_at, last_used
	`

	var dt notification.DeviceToken
	err := r.db.QueryRowContext(ctx, query, params.UserID, params.Token, params.DeviceType).Scan(
		&dt.ID, &dt.UserID, &dt.Token, &dt.DeviceType, &dt.IsActive, &dt.CreatedAt, &dt.LastUsed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device token: %w", err)
	}

	return &dt, nil
}

// GetActiveTokensByUserID returns the user's active device tokens, most
// recently used first.
func (r *NotificationRepository) GetActiveTokensByUserID(ctx context.Context, userID int64) ([]*notification.DeviceToken, error) {
	query := `
		SELECT id, user_id, token, device_type, is_active, created_at, last_used
		FROM device_tokens
		WHERE user_id = $1 AND is_active = true
		ORDER BY last_used DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*notification.DeviceToken
	for rows.Next() {
		var dt notification.DeviceToken
		if err := rows.Scan(&dt.ID, &dt.UserID, &dt.Token, &dt.DeviceType, &dt.IsActive, &dt.CreatedAt, &dt.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, &dt)
	}

	return tokens, rows.Err()
}

// DeactivateToken marks a token inactive. Used on logout and when FCM
// reports the token as no longer registered.
func (r *NotificationRepository) DeactivateToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE device_tokens SET is_active = false WHERE token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate device token: %w", err)
	}
	return nil
}

// GetPreferences returns the user's stored notification preferences, or
// notification.ErrPreferencesNotFound when none exist yet.
func (r *NotificationRepository) GetPreferences(ctx context.Context, userID int64) (*notification.Preferences, error) {
	query := `
		SELECT id, user_id, accounts_enabled, budgets_enabled, general_enabled, goals_enabled, transactions_enabled, updated_at
		FROM notification_preferences
		WHERE user_id = $1
	`

	var p notification.Preferences
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.AccountsEnabled, &p.BudgetsEnabled,
		&p.GeneralEnabled, &p.GoalsEnabled, &p.TransactionsEnabled, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, notification.ErrPreferencesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification preferences: %w", err)
	}

	return &p, nil
}

// UpsertPreferences creates or updates the user's preferences. Absent
// fields keep their stored value; a fresh row defaults to all enabled.
func (r *NotificationRepository) UpsertPreferences(ctx context.Context, userID int64, params notification.UpdatePreferencesParams) (*notification.Preferences, error) {
	query := `
		INSERT INTO notification_preferences (user_id, accounts_enabled, budgets_enabled, general_enabled, goals_enabled, transactions_enabled)
		VALUES ($1, COALESCE($2, true), COALESCE($3, true), COALESCE($4, true), COALESCE($5, true), COALESCE($6, true))
		ON CONFLICT (user_id) DO UPDATE
			SET accounts_enabled = COALESCE($2, notification_preferences.accounts_enabled),
			    budgets_enabled = COALESCE($3, notification_preferences.budgets_enabled),
			    general_enabled = COALESCE($4, notification_preferences.general_enabled),
			    goals_enabled = COALESCE($5, notification_preferences.goals_enabled),
			    transactions_enabled = COALESCE($6, notification_preferences.transactions_enabled),
			    updated_at = NOW()
		RETURNING id, user_id, accounts_enabled, budgets_enabled, general_enabled, goals_enabled, transactions_enabled, updated_at
	`

	var p notification.Preferences
	err := r.db.QueryRowContext(
		ctx, query,
		userID, params.AccountsEnabled, params.BudgetsEnabled,
		params.GeneralEnabled, params.GoalsEnabled, params.TransactionsEnabled,
	).Scan(
		&p.ID, &p.UserID, &p.AccountsEnabled, &p.BudgetsEnabled,
		&p.GeneralEnabled, &p.GoalsEnabled, &p.TransactionsEnabled, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert notification preferences: %w", err)
	}

	return &p, nil
}

// CreateNotification stores an in-app notification record. Data is kept
// as a JSONB payload.
func (r *NotificationRepository) CreateNotification(ctx context.Context, params notification.CreateParams) (*notification.Notification, error) {
	data, err := json.Marshal(params.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (user_id, title, message, category, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, title, message, category, data, opened_at, created_at
	`

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, params.UserID, params.Title, params.Message, params.Category, data))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// ListByUserID returns a page of the user's notifications, newest first,
// along with the total count.
func (r *NotificationRepository) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*notification.Notification, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT id, user_id, title, message, category, data, opened_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkOpened records when the user opened a notification. The user_id
// guard keeps one user from touching another's records.
func (r *NotificationRepository) MarkOpened(ctx context.Context, notificationID string, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET opened_at = NOW() WHERE id = $1 AND user_id = $2 AND opened_at IS NULL`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification opened: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}

func scanNotification(s scanner) (*notification.Notification, error) {
	var n notification.Notification
	var data []byte
	var openedAt sql.NullTime

	err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Category, &data, &openedAt, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}
	if openedAt.Valid {
		n.OpenedAt = &openedAt.Time
	}

	return &n, nil
}
