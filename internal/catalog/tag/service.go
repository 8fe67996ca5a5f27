package tag

import (
	"context"
	"log/slog"

	"github.com/taibuivan/maktaba/internal/platform/i18n"
	"github.com/taibuivan/maktaba/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListTags returns every tag ordered by canonical name.
func (service *Service) ListTags(context context.Context) ([]Tag, error) {
	return service.repo.List(context)
}

// CreateTag stores a new tag, filling missing translations from the canonical name.
func (service *Service) CreateTag(context context.Context, input CreateRequest) (*Tag, error) {
	translations := i18n.Merge(&input.Name, input.NameEn, input.NameAr)

	tag := &Tag{
		ID:               uuid.New(),
		Name:             input.Name,
		NameTranslations: translations,
	}

	if err := service.repo.Create(context, tag); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "tag_created", slog.String("tag_id", tag.ID))
	return tag, nil
}
