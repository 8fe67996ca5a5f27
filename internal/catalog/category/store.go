package category

import "context"

// Repository persists categories.
type Repository interface {
	// List returns categories ordered by name. A non-empty search filters by
	// case-insensitive containment on the canonical name.
	List(context context.Context, search string) ([]Category, error)
	FindByID(context context.Context, id string) (*Category, error)
	// NameTaken reports whether another category (not exceptID) uses name.
	NameTaken(context context.Context, name, exceptID string) (bool, error)
	Create(context context.Context, category *Category) error
	Update(context context.Context, id string, patch Patch) (*Category, error)
	CountBooks(context context.Context, id string) (int, error)
	Delete(context context.Context, id string) error
}
