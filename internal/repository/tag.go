package repository

import (
	"context"
	"errors"
	"strings"

	"itsour/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations.
type TagRepository interface {
	GetOrCreateByNames(ctx context.Context, names []string) ([]models.Tag, error)
	All(ctx context.Context) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// GetOrCreateByNames resolves tag rows for the given names, creating any that
// do not exist yet. Matching is case-sensitive and exact; blank names are
// skipped after trimming.
func (r *tagRepository) GetOrCreateByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Name: name}
			err = r.db.WithContext(ctx).Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *tagRepository) All(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}
