package goal

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusPaused    = "paused"
)

var statuses = map[string]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusPaused:    true,
}

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrInvalidStatus = errors.New("invalid goal status")
	ErrInvalidTarget = errors.New("goal target amount must be positive")
	ErrNameRequired  = errors.New("goal name is required")
	ErrForbidden     = errors.New("goal belongs to another user")
)

// Goal is a savings target. It flips to completed automatically when a
// progress update reaches the target amount.
type Goal struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Currency      string          `json:"currency"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	Category      string          `json:"category,omitempty"`
	Priority      int             `json:"priority"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type CreateParams struct {
	UserID        int64           `json:"-"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Currency      string          `json:"currency"`
	Deadline      *time.Time      `json:"deadline"`
	Category      string          `json:"category"`
	Priority      int             `json:"priority"`
	Status        string          `json:"status"`
}

func (p CreateParams) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if !p.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	if p.Status != "" && !statuses[p.Status] {
		return ErrInvalidStatus
	}
	return nil
}

type UpdateParams struct {
	Name          *string          `json:"name"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Currency      *string          `json:"currency"`
	Deadline      *time.Time       `json:"deadline"`
	Category      *string          `json:"category"`
	Priority      *int             `json:"priority"`
	Status        *string          `json:"status"`
}

// Progress pairs a goal with how far along it is.
type Progress struct {
	Goal               *Goal   `json:"goal"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// Recommendation is a common financial goal the user has no active goal
// for yet. Lower priority numbers matter more.
type Recommendation struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}
