package book

import (
	"context"
	"log/slog"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/i18n"
	"github.com/taibuivan/maktaba/pkg/pagination"
	"github.com/taibuivan/maktaba/pkg/uuid"
)

// Service orchestrates catalog reads and owner-scoped book writes.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListBooks returns one page of books and its pagination metadata.
// An unknown category simply yields an empty page.
func (service *Service) ListBooks(context context.Context, q ListQuery) ([]*Book, pagination.Meta, error) {
	books, total, err := service.repo.List(context, q)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return books, pagination.NewMeta(q.Page, q.Limit, total), nil
}

// GetBook returns one book or NotFound.
func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	return service.repo.FindByID(context, id)
}

/*
CreateBook stores a new book owned by authorID.

The per-language fields of input are merged into the translation objects;
callers that do not accept them strip them first.
*/
func (service *Service) CreateBook(context context.Context, authorID string, input CreateRequest) (*Book, error) {
	titleTranslations := i18n.Merge(&input.Title, input.TitleEn, input.TitleAr)
	descriptionTranslations := i18n.Merge(&input.Description, input.DescriptionEn, input.DescriptionAr)

	book := &Book{
		ID:                      uuid.New(),
		Title:                   input.Title,
		Description:             &input.Description,
		TitleTranslations:       titleTranslations,
		DescriptionTranslations: descriptionTranslations,
		Price:                   NewPrice(*input.Price),
		Thumbnail:               input.Thumbnail,
		AuthorID:                authorID,
		CategoryID:              input.CategoryID,
	}

	if err := service.repo.Create(context, book, input.Tags); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_created",
		slog.String("book_id", book.ID),
		slog.String("author_id", authorID),
	)

	return service.repo.FindByID(context, book.ID)
}

/*
UpdateBook applies input to a book owned by callerID.

Ownership is checked before anything is written; a foreign book yields
Forbidden and leaves the store untouched.
*/
func (service *Service) UpdateBook(context context.Context, callerID, id string, input UpdateRequest) (*Book, error) {
	if err := service.authorize(context, callerID, id, MessageEditForbidden); err != nil {
		return nil, err
	}

	patch := Patch{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Thumbnail:   input.Thumbnail,
		CategoryID:  input.CategoryID,
		TagIDs:      input.Tags,
	}
	patch.TitleTranslations = i18n.Merge(input.Title, input.TitleEn, input.TitleAr)
	patch.DescriptionTranslations = i18n.Merge(input.Description, input.DescriptionEn, input.DescriptionAr)

	if err := service.repo.Update(context, id, patch); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "book_updated",
		slog.String("book_id", id),
		slog.String("author_id", callerID),
	)

	return service.repo.FindByID(context, id)
}

// DeleteBook removes a book owned by callerID.
func (service *Service) DeleteBook(context context.Context, callerID, id string) error {
	if err := service.authorize(context, callerID, id, MessageDeleteForbidden); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "book_deleted",
		slog.String("book_id", id),
		slog.String("author_id", callerID),
	)
	return nil
}

func (service *Service) authorize(context context.Context, callerID, id, message string) error {
	authorID, err := service.repo.FindAuthorID(context, id)
	if err != nil {
		return err
	}
	if authorID != callerID {
		return apperr.Forbidden(message)
	}
	return nil
}
