package repository

import (
	"context"

	"itsour/internal/models"

	"gorm.io/gorm"
)

// ImageRepository defines storage operations for uploaded images.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	ByArticle(ctx context.Context, articleID uint) ([]models.Image, error)
	Library(ctx context.Context) ([]models.Image, error)
	Delete(ctx context.Context, id uint) error
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns a repository implementation for image metadata.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) ByArticle(ctx context.Context, articleID uint) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("uploaded_at DESC").
		Find(&images).Error
	return images, err
}

// Library lists every image, attached or not, newest first.
func (r *imageRepository) Library(ctx context.Context) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).Order("uploaded_at DESC").Find(&images).Error
	return images, err
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Image{}, id).Error
}
