package book

import "context"

// Repository persists books and their tag links.
type Repository interface {
	// List returns one page of books matching q and the total match count.
	List(context context.Context, q ListQuery) ([]*Book, int, error)
	FindByID(context context.Context, id string) (*Book, error)
	// FindAuthorID returns only the owner of a book, for permission checks.
	FindAuthorID(context context.Context, id string) (string, error)
	// Create inserts the book and links tagIDs in one transaction.
	Create(context context.Context, book *Book, tagIDs []string) error
	// Update applies patch in one transaction. A nil patch.TagIDs keeps the
	// current tags.
	Update(context context.Context, id string, patch Patch) error
	Delete(context context.Context, id string) error
}
