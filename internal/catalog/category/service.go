package category

import (
	"context"
	"log/slog"

	"github.com/taibuivan/maktaba/internal/platform/apperr"
	"github.com/taibuivan/maktaba/internal/platform/i18n"
	"github.com/taibuivan/maktaba/pkg/uuid"
)

// Service orchestrates category management.
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

// ListCategories returns all categories, optionally filtered by name.
func (service *Service) ListCategories(context context.Context, search string) ([]Category, error) {
	return service.repo.List(context, search)
}

// GetCategory returns one category or NotFound.
func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	return service.repo.FindByID(context, id)
}

/*
CreateCategory stores a new category.

Name uniqueness is checked up front for a friendly error, and again by the
unique index for concurrent creates.
*/
func (service *Service) CreateCategory(context context.Context, input CreateRequest) (*Category, error) {
	taken, err := service.repo.NameTaken(context, input.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict(MessageNameTaken)
	}

	nameTranslations := i18n.Merge(&input.Name, input.NameEn, input.NameAr)
	descriptionTranslations := i18n.Merge(input.Description, input.DescriptionEn, input.DescriptionAr)

	category := &Category{
		ID:                      uuid.New(),
		Name:                    input.Name,
		Description:             input.Description,
		NameTranslations:        nameTranslations,
		DescriptionTranslations: descriptionTranslations,
	}

	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "category_created", slog.String("category_id", category.ID))
	return category, nil
}

// UpdateCategory applies the supplied fields to an existing category.
func (service *Service) UpdateCategory(context context.Context, id string, input UpdateRequest) (*Category, error) {
	existing, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != existing.Name {
		taken, err := service.repo.NameTaken(context, *input.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict(MessageNameTaken)
		}
	}

	patch := Patch{Name: input.Name, Description: input.Description}
	patch.NameTranslations = i18n.Merge(input.Name, input.NameEn, input.NameAr)
	patch.DescriptionTranslations = i18n.Merge(input.Description, input.DescriptionEn, input.DescriptionAr)

	updated, err := service.repo.Update(context, id, patch)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "category_updated", slog.String("category_id", id))
	return updated, nil
}

// DeleteCategory removes a category that no book references.
func (service *Service) DeleteCategory(context context.Context, id string) error {
	if _, err := service.repo.FindByID(context, id); err != nil {
		return err
	}

	total, err := service.repo.CountBooks(context, id)
	if err != nil {
		return err
	}
	if total > 0 {
		return apperr.Conflict(MessageHasBooks)
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "category_deleted", slog.String("category_id", id))
	return nil
}
