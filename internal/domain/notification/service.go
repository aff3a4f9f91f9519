package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Service contains the business logic for notification operations
type Service struct {
	repo      Repository
	messenger Messenger
	log       zerolog.Logger
}

func NewService(repo Repository, messenger Messenger, log zerolog.Logger) *Service {
	return &Service{repo: repo, messenger: messenger, log: log}
}

// RegisterDevice registers a device token for the authenticated user,
// reclaiming it if it previously belonged to another user, and makes
// sure preference defaults exist.
func (s *Service) RegisterDevice(ctx context.Context, params RegisterDeviceParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	token, err := s.repo.UpsertDeviceToken(ctx, params)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPreferences(ctx, params.UserID); errors.Is(err, ErrPreferencesNotFound) {
		if _, err := s.repo.UpsertPreferences(ctx, params.UserID, UpdatePreferencesParams{}); err != nil {
			s.log.Warn().Err(err).Int64("user_id", params.UserID).
				Msg("failed to create default notification preferences")
		}
	}
	return token, nil
}

func (s *Service) UnregisterDevice(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	return s.repo.DeactivateToken(ctx, token)
}

// GetPreferences returns a user's preferences, defaulting to
// all-enabled when nothing is stored yet.
func (s *Service) GetPreferences(ctx context.Context, userID int64) (*Preferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if errors.Is(err, ErrPreferencesNotFound) {
		return &Preferences{
			UserID:              userID,
			AccountsEnabled:     true,
			BudgetsEnabled:      true,
			GeneralEnabled:      true,
			GoalsEnabled:        true,
			TransactionsEnabled: true,
		}, nil
	}
	return prefs, err
}

func (s *Service) UpdatePreferences(ctx context.Context, userID int64, params UpdatePreferencesParams) (*Preferences, error) {
	return s.repo.UpsertPreferences(ctx, userID, params)
}

// ListNotifications returns paginated notifications for a user
func (s *Service) ListNotifications(ctx context.Context, userID int64, page, perPage int) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.repo.ListByUserID(ctx, userID, page, perPage)
}

func (s *Service) MarkNotificationOpened(ctx context.Context, notificationID string, userID int64) error {
	if notificationID == "" {
		return ErrNotificationNotFound
	}
	return s.repo.MarkOpened(ctx, notificationID, userID)
}

// SendToUser stores an in-app notification and pushes it to the user's
// active devices, honoring their category preferences. Push delivery
// failures are logged, not returned; the stored record is the source of
// truth.
func (s *Service) SendToUser(ctx context.Context, userID int64, title, body, category string, data map[string]string) error {
	if !IsValidCategory(category) {
		return ErrInvalidCategory
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return err
	}
	if !prefs.Enabled(category) {
		s.log.Debug().Int64("user_id", userID).Str("category", category).
			Msg("notification skipped, category disabled")
		return nil
	}

	if data == nil {
		data = make(map[string]string)
	}
	if _, ok := data["route"]; !ok {
		data["route"] = category
	}

	if _, err := s.repo.CreateNotification(ctx, CreateParams{
		UserID:   userID,
		Title:    title,
		Message:  body,
		Category: category,
		Data:     data,
	}); err != nil {
		return fmt.Errorf("storing notification: %w", err)
	}

	if s.messenger == nil {
		return nil
	}
	tokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}
	if err := s.messenger.SendMulticast(ctx, tokenStrings, title, body, data); err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("push delivery failed")
	}
	return nil
}

// NotifyOverBudget tells the user a category blew past its budget.
func (s *Service) NotifyOverBudget(ctx context.Context, userID int64, categoryName string, percentage float64) error {
	return s.SendToUser(ctx, userID,
		"Budget exceeded",
		fmt.Sprintf("You've spent %.0f%% of your %s budget this month.", percentage, categoryName),
		CategoryBudgets,
		map[string]string{"category_name": categoryName},
	)
}

// NotifyGoalCompleted congratulates the user on a completed goal.
func (s *Service) NotifyGoalCompleted(ctx context.Context, userID int64, goalName string) error {
	return s.SendToUser(ctx, userID,
		"Goal reached",
		fmt.Sprintf("Congratulations, you've reached your %s goal.", goalName),
		CategoryGoals,
		map[string]string{"goal_name": goalName},
	)
}
