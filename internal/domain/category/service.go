package category

import "context"

// Service enforces the category rules: subcategories inherit their
// parent's type, built-in defaults are read-only, and users only touch
// their own categories.
type Service struct {
	repo Repository
}

// NewService creates a new category service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListCategories returns the user's categories plus the built-in
// defaults.
func (s *Service) ListCategories(ctx context.Context, userID int64) ([]*Category, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// CreateCategory validates the parameters and, for subcategories,
// checks the parent: it must exist, be visible to the user (their own
// or a built-in), and carry the same type.
func (s *Service) CreateCategory(ctx context.Context, params CreateParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *params.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || (parent.UserID != nil && *parent.UserID != params.UserID) {
			return nil, ErrParentNotFound
		}
		if parent.Type != params.Type {
			return nil, ErrParentTypeMismatch
		}
	}

	return s.repo.Create(ctx, params)
}

// UpdateCategory applies partial updates after verifying the category
// is the user's own.
func (s *Service) UpdateCategory(ctx context.Context, id, userID int64, name, icon, color *string) (*Category, error) {
	if err := s.ownedCategory(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, name, icon, color)
}

// DeleteCategory deletes a category after verifying the category is
// the user's own. Categories with transactions or budgets attached
// fail with ErrInUse.
func (s *Service) DeleteCategory(ctx context.Context, id, userID int64) error {
	if err := s.ownedCategory(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ownedCategory(ctx context.Context, id, userID int64) error {
	cat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil {
		return ErrCategoryNotFound
	}
	if cat.UserID == nil {
		return ErrBuiltIn
	}
	if *cat.UserID != userID {
		return ErrForbidden
	}
	return nil
}
