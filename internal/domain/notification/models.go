package notification

import (
	"errors"
	"time"
)

// Notification categories
const (
	CategoryAccounts     = "accounts"
	CategoryBudgets      = "budgets"
	CategoryGeneral      = "general"
	CategoryGoals        = "goals"
	CategoryTransactions = "transactions"
)

var validCategories = map[string]struct{}{
	CategoryAccounts:     {},
	CategoryBudgets:      {},
	CategoryGeneral:      {},
	CategoryGoals:        {},
	CategoryTransactions: {},
}

var validDeviceTypes = map[string]struct{}{
	"ios":     {},
	"android": {},
	"web":     {},
}

// Domain errors
var (
	ErrDeviceTokenNotFound  = errors.New("device token not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPreferencesNotFound  = errors.New("notification preferences not found")
	ErrInvalidCategory      = errors.New("invalid notification category")
	ErrInvalidDeviceType    = errors.New("device type must be 'ios', 'android' or 'web'")
	ErrInvalidToken         = errors.New("device token is required")
	ErrForbidden            = errors.New("access forbidden")
)

// DeviceToken is a registered FCM device token.
type DeviceToken struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	Token      string    `json:"token"`
	DeviceType string    `json:"device_type"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsed   time.Time `json:"last_used"`
}

// Preferences stores per-category push toggles for a user. A user with
// no stored row gets everything enabled.
type Preferences struct {
	ID                  string    `json:"id"`
	UserID              int64     `json:"-"`
	AccountsEnabled     bool      `json:"accounts_enabled"`
	BudgetsEnabled      bool      `json:"budgets_enabled"`
	GeneralEnabled      bool      `json:"general_enabled"`
	GoalsEnabled        bool      `json:"goals_enabled"`
	TransactionsEnabled bool      `json:"transactions_enabled"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Notification is a stored in-app notification record.
type Notification struct {
	ID        string            `json:"id"`
	UserID    int64             `json:"-"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	Data      map[string]string `json:"data"`
	OpenedAt  *time.Time        `json:"opened_at"`
	CreatedAt time.Time         `json:"created_at"`
}

type RegisterDeviceParams struct {
	UserID     int64
	Token      string
	DeviceType string
}

func (p RegisterDeviceParams) Validate() error {
	if p.Token == "" {
		return ErrInvalidToken
	}
	if !IsValidDeviceType(p.DeviceType) {
		return ErrInvalidDeviceType
	}
	return nil
}

type UpdatePreferencesParams struct {
	AccountsEnabled     *bool `json:"accounts_enabled"`
	BudgetsEnabled      *bool `json:"budgets_enabled"`
	GeneralEnabled      *bool `json:"general_enabled"`
	GoalsEnabled        *bool `json:"goals_enabled"`
	TransactionsEnabled *bool `json:"transactions_enabled"`
}

type CreateParams struct {
	UserID   int64
	Title    string
	Message  string
	Category string
	Data     map[string]string
}

func (p CreateParams) Validate() error {
	if p.Title == "" {
		return errors.New("notification title is required")
	}
	if p.Message == "" {
		return errors.New("notification message is required")
	}
	if !IsValidCategory(p.Category) {
		return ErrInvalidCategory
	}
	return nil
}

func IsValidCategory(c string) bool {
	_, ok := validCategories[c]
	return ok
}

func IsValidDeviceType(dt string) bool {
	_, ok := validDeviceTypes[dt]
	return ok
}

// Enabled reports whether the given category is switched on.
func (p *Preferences) Enabled(category string) bool {
	switch category {
	case CategoryAccounts:
		return p.AccountsEnabled
	case CategoryBudgets:
		return p.BudgetsEnabled
	case CategoryGeneral:
		return p.GeneralEnabled
	case CategoryGoals:
		return p.GoalsEnabled
	case CategoryTransactions:
		return p.TransactionsEnabled
	default:
		return false
	}
}
