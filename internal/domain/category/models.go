package category

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrNameRequired       = errors.New("category name is required")
	ErrInvalidType        = errors.New("category type must be 'income' or 'expense'")
	ErrInUse              = errors.New("category has transactions or budgets attached")
	ErrBuiltIn            = errors.New("built-in categories cannot be modified")
	ErrForbidden          = errors.New("access forbidden")
	ErrParentNotFound     = errors.New("parent category not found")
	ErrParentTypeMismatch = errors.New("subcategory type must match its parent")
)

// Category is a node in a two-level tree: top-level categories have a nil
// ParentID, subcategories point at their parent. Deeper nesting is not
// used anywhere.
type Category struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"` // nil for the built-in defaults
	Name      string    `json:"name"`
	Type      string    `json:"type"` // "income" or "expense"
	ParentID  *int64    `json:"parent_id,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateParams struct {
	UserID   int64
	Name     string
	Type     string
	ParentID *int64
	Icon     string
	Color    string
}

func (p CreateParams) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Type != "income" && p.Type != "expense" {
		return ErrInvalidType
	}
	return nil
}

// Default holds one built-in category seeded for every installation.
type Default struct {
	Name  string
	Type  string
	Icon  string
	Color string
}

// Defaults is the built-in category set offered to new users.
var Defaults = []Default{
	{Name: "Salary", Type: "income", Icon: "briefcase", Color: "#2e7d32"},
	{Name: "Investment Income", Type: "income", Icon: "trending-up", Color: "#388e3c"},
	{Name: "Other Income", Type: "income", Icon: "plus-circle", Color: "#43a047"},
	{Name: "Housing", Type: "expense", Icon: "home", Color: "#c62828"},
	{Name: "Utilities", Type: "expense", Icon: "zap", Color: "#d84315"},
	{Name: "Groceries", Type: "expense", Icon: "shopping-cart", Color: "#ef6c00"},
	{Name: "Transportation", Type: "expense", Icon: "truck", Color: "#f9a825"},
	{Name: "Healthcare", Type: "expense", Icon: "heart", Color: "#ad1457"},
	{Name: "Entertainment", Type: "expense", Icon: "film", Color: "#6a1b9a"},
	{Name: "Dining Out", Type: "expense", Icon: "coffee", Color: "#4527a0"},
	{Name: "Subscriptions", Type: "expense", Icon: "repeat", Color: "#283593"},
	{Name: "Insurance", Type: "expense", Icon: "shield", Color: "#1565c0"},
	{Name: "Education", Type: "expense", Icon: "book", Color: "#00695c"},
	{Name: "Other Expenses", Type: "expense", Icon: "more-horizontal", Color: "#546e7a"},
}
