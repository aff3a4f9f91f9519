package category

import (
	"context"
	"testing"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc  func(ctx context.Context, params CreateParams) (*Category, error)
	GetByIDFunc func(ctx context.Context, id int64) (*Category, error)
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &Category{ID: 1, UserID: &params.UserID, Name: params.Name, Type: params.Type, ParentID: params.ParentID}, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64) ([]*Category, error) {
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id int64, name, icon, color *string) (*Category, error) {
	return &Category{ID: id}, nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func byID(categories map[int64]*Category) func(ctx context.Context, id int64) (*Category, error) {
	return func(ctx context.Context, id int64) (*Category, error) {
		return categories[id], nil
	}
}

func TestCreateCategory(t *testing.T) {
	me := int64(1)
	other := int64(2)
	repo := &MockRepository{
		GetByIDFunc: byID(map[int64]*Category{
			10: {ID: 10, UserID: &me, Type: "expense"},
			11: {ID: 11, UserID: &other, Type: "expense"},
			12: {ID: 12, Type: "income"}, // built-in
		}),
	}
	svc := NewService(repo)
	parent := func(id int64) *int64 { return &id }

	tests := []struct {
		name    string
		params  CreateParams
		wantErr error
	}{
		{name: "Top Level", params: CreateParams{UserID: 1, Name: "Pets", Type: "expense"}},
		{name: "Subcategory Of Own", params: CreateParams{UserID: 1, Name: "Vet", Type: "expense", ParentID: parent(10)}},
		{name: "Subcategory Of Built-In", params: CreateParams{UserID: 1, Name: "Bonus", Type: "income", ParentID: parent(12)}},
		{name: "Missing Name", params: CreateParams{UserID: 1, Type: "expense"}, wantErr: ErrNameRequired},
		{name: "Bad Type", params: CreateParams{UserID: 1, Name: "Pets", Type: "transfer"}, wantErr: ErrInvalidType},
		{name: "Unknown Parent", params: CreateParams{UserID: 1, Name: "Vet", Type: "expense", ParentID: parent(99)}, wantErr: ErrParentNotFound},
		{name: "Someone Elses Parent", params: CreateParams{UserID: 1, Name: "Vet", Type: "expense", ParentID: parent(11)}, wantErr: ErrParentNotFound},
		{name: "Type Mismatch", params: CreateParams{UserID: 1, Name: "Vet", Type: "income", ParentID: parent(10)}, wantErr: ErrParentTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCategory(context.Background(), tt.params)
			if err != tt.wantErr {
				t.Errorf("CreateCategory() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteCategoryOwnership(t *testing.T) {
	me := int64(1)
	other := int64(2)
	repo := &MockRepository{
		GetByIDFunc: byID(map[int64]*Category{
			10: {ID: 10, UserID: &me, Type: "expense"},
			11: {ID: 11, UserID: &other, Type: "expense"},
			12: {ID: 12, Type: "expense"}, // built-in
		}),
	}
	svc := NewService(repo)

	if err := svc.DeleteCategory(context.Background(), 10, 1); err != nil {
		t.Errorf("deleting own category: %v", err)
	}
	if err := svc.DeleteCategory(context.Background(), 11, 1); err != ErrForbidden {
		t.Errorf("error = %v, want ErrForbidden for another user's category", err)
	}
	if err := svc.DeleteCategory(context.Background(), 12, 1); err != ErrBuiltIn {
		t.Errorf("error = %v, want ErrBuiltIn", err)
	}
	if err := svc.DeleteCategory(context.Background(), 99, 1); err != ErrCategoryNotFound {
		t.Errorf("error = %v, want ErrCategoryNotFound", err)
	}
}

func TestUpdateCategoryOwnership(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: byID(map[int64]*Category{12: {ID: 12, Type: "expense"}}),
	}
	svc := NewService(repo)

	if _, err := svc.UpdateCategory(context.Background(), 12, 1, nil, nil, nil); err != ErrBuiltIn {
		t.Errorf("error = %v, want ErrBuiltIn", err)
	}
}
