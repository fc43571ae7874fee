// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"itsour/internal/models"

	"gorm.io/gorm"
)

// ListFilter narrows and pages an article listing. Nil/zero fields are
// ignored; results are always ordered newest-first by creation time.
type ListFilter struct {
	CategoryID    *uint
	Tag           string
	PublishedOnly bool
	FeaturedOnly  bool
	Offset        int
	Limit         int
}

// Stats aggregates dashboard counters across the content tables.
type Stats struct {
	TotalArticles     int64    `json:"total_articles"`
	TotalViews        int64    `json:"total_views"`
	PublishedArticles int64    `json:"published_articles"`
	DraftArticles     int64    `json:"draft_articles"`
	TotalTags         int64    `json:"total_tags"`
	Categories        []string `json:"categories"`
}

// ArticleRepository defines the interface for article data operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article, tags *[]models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Article, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Article, error)
	All(ctx context.Context) ([]*models.Article, error)
	Delete(ctx context.Context, article *models.Article) error
	IncrementViews(ctx context.Context, id uint) error
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Related(ctx context.Context, article *models.Article, limit int) ([]*models.Article, error)
	Stats(ctx context.Context) (*Stats, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags").Preload("Images").Preload("Category")
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(article).Error
	})
}

// Update persists the article's scalar fields in one transaction. When tags
// is non-nil the tag association set is replaced entirely, not merged.
func (r *articleRepository) Update(ctx context.Context, article *models.Article, tags *[]models.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Images", "Category").Save(article).Error; err != nil {
			return err
		}
		if tags != nil {
			if err := tx.Model(article).Association("Tags").Replace(tags); err != nil {
				return err
			}
			article.Tags = *tags
		}
		return nil
	})
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.withAssociations(r.db.WithContext(ctx)).First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	if err := r.withAssociations(r.db.WithContext(ctx)).
		Where("slug = ?", slug).
		First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// GetByIDs hydrates articles preserving the order of the given ids. Ids with
// no relational row are dropped silently; the index and the store may
// transiently disagree.
func (r *articleRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var articles []*models.Article
	if err := r.withAssociations(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&articles).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	ordered := make([]*models.Article, 0, len(articles))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

func (r *articleRepository) List(ctx context.Context, filter ListFilter) ([]*models.Article, error) {
	q := r.withAssociations(r.db.WithContext(ctx)).Model(&models.Article{})

	if filter.PublishedOnly {
		q = q.Where("articles.is_published = ?", true)
	}
	if filter.FeaturedOnly {
		q = q.Where("articles.featured = ?", true)
	}
	if filter.CategoryID != nil {
		q = q.Where("articles.category_id = ?", *filter.CategoryID)
	}
	if filter.Tag != "" {
		q = q.Joins("JOIN article_tags ON article_tags.article_id = articles.id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.name = ?", filter.Tag).
			Distinct("articles.*")
	}

	var articles []*models.Article
	err := q.Order("articles.created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) All(ctx context.Context) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.withAssociations(r.db.WithContext(ctx)).
		Order("id ASC").
		Find(&articles).Error
	return articles, err
}

// Delete removes the article, its tag associations and its owned image rows
// in one transaction. Filesystem cleanup of image variants is the service's
// responsibility after commit.
func (r *articleRepository) Delete(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(article).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(article).Error
	})
}

// IncrementViews bumps the view counter without refreshing updated_at; reads
// are not mutations of the article's content.
func (r *articleRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *articleRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Related returns published articles sharing the given article's category or
// at least one of its tags, newest-first. Callers with neither category nor
// tags should not reach this query.
func (r *articleRepository) Related(ctx context.Context, article *models.Article, limit int) ([]*models.Article, error) {
	tagIDs := make([]uint, 0, len(article.Tags))
	for _, t := range article.Tags {
		tagIDs = append(tagIDs, t.ID)
	}

	q := r.withAssociations(r.db.WithContext(ctx)).Model(&models.Article{}).
		Where("articles.is_published = ?", true).
		Where("articles.id <> ?", article.ID)

	switch {
	case article.CategoryID != nil && len(tagIDs) > 0:
		q = q.Where(
			"articles.category_id = ? OR articles.id IN (SELECT article_id FROM article_tags WHERE tag_id IN ?)",
			*article.CategoryID, tagIDs,
		)
	case article.CategoryID != nil:
		q = q.Where("articles.category_id = ?", *article.CategoryID)
	case len(tagIDs) > 0:
		q = q.Where("articles.id IN (SELECT article_id FROM article_tags WHERE tag_id IN ?)", tagIDs)
	default:
		return nil, nil
	}

	var articles []*models.Article
	err := q.Order("articles.created_at DESC").Limit(limit).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) Stats(ctx context.Context) (*Stats, error) {
	db := r.db.WithContext(ctx)
	var stats Stats

	if err := db.Model(&models.Article{}).Count(&stats.TotalArticles).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Article{}).
		Select("COALESCE(SUM(view_count), 0)").
		Scan(&stats.TotalViews).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Article{}).
		Where("is_published = ?", true).
		Count(&stats.PublishedArticles).Error; err != nil {
		return nil, err
	}
	stats.DraftArticles = stats.TotalArticles - stats.PublishedArticles
	if err := db.Model(&models.Tag{}).Count(&stats.TotalTags).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Category{}).
		Order("name ASC").
		Pluck("name", &stats.Categories).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
