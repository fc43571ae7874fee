// Package service implements the application's business logic on top of the
// repositories and the search index adapter.
package service

import (
	"context"
	"errors"
	"strings"

	"itsour/internal/content"
	"itsour/internal/models"
	"itsour/internal/repository"
	"itsour/internal/search"

	"gorm.io/gorm"
)

// slugRetries bounds the create/update retry loop against concurrent writers
// racing for the same slug. Each retry re-runs uniqueness probing, so the
// only way to exhaust it is sustained contention on one title.
const slugRetries = 3

// CreateArticleInput carries a new article. Title and Content are required;
// everything else falls back to a sensible default.
type CreateArticleInput struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Summary     string   `json:"summary"`
	Author      string   `json:"author"`
	CategoryID  *uint    `json:"category_id"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"is_published"`
	Featured    bool     `json:"featured"`
}

// UpdateArticleInput is a partial update: nil fields keep their stored
// value, non-nil fields overwrite it. An explicit empty Tags slice clears
// the tag set; a nil one leaves it alone.
type UpdateArticleInput struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	Summary     *string   `json:"summary"`
	Author      *string   `json:"author"`
	CategoryID  *uint     `json:"category_id"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"is_published"`
	Featured    *bool     `json:"featured"`
}

// ListArticlesInput mirrors the listing query parameters.
type ListArticlesInput struct {
	CategoryID    *uint
	Tag           string
	PublishedOnly bool
	FeaturedOnly  bool
	Skip          int
	Limit         int
}

// imageStore is the slice of the image service the article service needs to
// clean up stored files when an article delete cascades over its images.
type imageStore interface {
	ByArticle(ctx context.Context, articleID uint) ([]models.Image, error)
	RemoveStoredFiles(imgs []models.Image)
}

// ArticleService owns the article lifecycle: derivation of slug, sanitized
// content, reading time and cover image on write, plus best-effort mirroring
// into the search index.
type ArticleService struct {
	articles      repository.ArticleRepository
	tags          repository.TagRepository
	indexer       search.Indexer
	images        imageStore
	defaultAuthor string
}

func NewArticleService(articles repository.ArticleRepository, tags repository.TagRepository, indexer search.Indexer, images imageStore, defaultAuthor string) *ArticleService {
	return &ArticleService{
		articles:      articles,
		tags:          tags,
		indexer:       indexer,
		images:        images,
		defaultAuthor: defaultAuthor,
	}
}

// Create validates, derives the computed fields and persists a new article,
// then mirrors it into the search index. A slug collision with a concurrent
// writer is retried with a fresh suffix.
func (s *ArticleService) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	sanitized := content.Sanitize(in.Content)
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = s.defaultAuthor
	}
	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	tagRows, err := s.tags.GetOrCreateByNames(ctx, in.Tags)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var article *models.Article
	for attempt := 0; ; attempt++ {
		slug, err := content.UniqueSlug(in.Title, func(candidate string) (bool, error) {
			return s.articles.SlugExists(ctx, candidate, 0)
		})
		if err != nil {
			return nil, models.NewInternalError(err)
		}

		article = &models.Article{
			Title:       in.Title,
			Slug:        slug,
			Content:     sanitized,
			Summary:     in.Summary,
			Author:      author,
			CategoryID:  in.CategoryID,
			IsPublished: published,
			Featured:    in.Featured,
			ReadingTime: content.ReadingTime(sanitized),
			CoverImage:  content.CoverImage(sanitized),
			Tags:        tagRows,
		}
		err = s.articles.Create(ctx, article)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < slugRetries {
			continue
		}
		return nil, models.NewInternalError(err)
	}

	created, err := s.articles.GetByID(ctx, article.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	s.indexer.Upsert(ctx, s.documentFor(created))
	return created, nil
}

// Update applies a partial update. Changing the title regenerates the slug;
// an unchanged title keeps the existing slug stable.
func (s *ArticleService) Update(ctx context.Context, id uint, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}

	titleChanged := in.Title != nil && *in.Title != article.Title
	if in.Title != nil {
		article.Title = *in.Title
	}
	if in.Content != nil {
		sanitized := content.Sanitize(*in.Content)
		article.Content = sanitized
		article.ReadingTime = content.ReadingTime(sanitized)
		article.CoverImage = content.CoverImage(sanitized)
	}
	if in.Summary != nil {
		article.Summary = *in.Summary
	}
	if in.Author != nil {
		article.Author = *in.Author
	}
	if in.CategoryID != nil {
		article.CategoryID = in.CategoryID
	}
	if in.IsPublished != nil {
		article.IsPublished = *in.IsPublished
	}
	if in.Featured != nil {
		article.Featured = *in.Featured
	}

	var tagRows *[]models.Tag
	if in.Tags != nil {
		rows, err := s.tags.GetOrCreateByNames(ctx, *in.Tags)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		tagRows = &rows
	}

	for attempt := 0; ; attempt++ {
		if titleChanged {
			slug, err := content.UniqueSlug(article.Title, func(candidate string) (bool, error) {
				return s.articles.SlugExists(ctx, candidate, article.ID)
			})
			if err != nil {
				return nil, models.NewInternalError(err)
			}
			article.Slug = slug
		}
		err = s.articles.Update(ctx, article, tagRows)
		if err == nil {
			break
		}
		if titleChanged && errors.Is(err, gorm.ErrDuplicatedKey) && attempt < slugRetries {
			continue
		}
		return nil, models.NewInternalError(err)
	}

	updated, err := s.articles.GetByID(ctx, article.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	s.indexer.Upsert(ctx, s.documentFor(updated))
	return updated, nil
}

// Delete removes the article and its search document. The relational delete
// is authoritative; a failed index delete leaves a dangling document that
// hydration drops and reindex repairs.
func (s *ArticleService) Delete(ctx context.Context, id uint) error {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Article", id)
		}
		return models.NewInternalError(err)
	}
	// Snapshot owned image rows before the cascade removes them so their
	// stored files can be deleted afterwards.
	imgs, err := s.images.ByArticle(ctx, id)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.articles.Delete(ctx, article); err != nil {
		return models.NewInternalError(err)
	}
	s.images.RemoveStoredFiles(imgs)
	s.indexer.Delete(ctx, id)
	return nil
}

// Get returns one article and counts the read. The returned view_count
// includes this read, so the first GET reports 1.
func (s *ArticleService) Get(ctx context.Context, id uint) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}
	if err := s.articles.IncrementViews(ctx, id); err != nil {
		return nil, models.NewInternalError(err)
	}
	article.ViewCount++
	return article, nil
}

// GetBySlug resolves an article by its slug and counts the read.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", slug)
		}
		return nil, models.NewInternalError(err)
	}
	if err := s.articles.IncrementViews(ctx, article.ID); err != nil {
		return nil, models.NewInternalError(err)
	}
	article.ViewCount++
	return article, nil
}

func (s *ArticleService) List(ctx context.Context, in ListArticlesInput) ([]*models.Article, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	articles, err := s.articles.List(ctx, repository.ListFilter{
		CategoryID:    in.CategoryID,
		Tag:           in.Tag,
		PublishedOnly: in.PublishedOnly,
		FeaturedOnly:  in.FeaturedOnly,
		Offset:        in.Skip,
		Limit:         limit,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

// Search runs a relevance query against the index and hydrates the hits from
// the relational store, preserving the index's ranking. Ids whose rows have
// been deleted since indexing are dropped. An unreachable engine degrades to
// an empty result, never an error.
func (s *ArticleService) Search(ctx context.Context, query string) ([]*models.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	ids := s.indexer.Search(ctx, query)
	if len(ids) == 0 {
		return nil, nil
	}
	articles, err := s.articles.GetByIDs(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

// Related returns published articles sharing the given article's category or
// tags. An article with neither yields an empty list.
func (s *ArticleService) Related(ctx context.Context, id uint, limit int) ([]*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}
	if limit <= 0 {
		limit = 3
	}
	related, err := s.articles.Related(ctx, article, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return related, nil
}

// Reindex rebuilds the search index from the relational store and returns
// the number of articles pushed. Recreating documents is idempotent.
func (s *ArticleService) Reindex(ctx context.Context) (int, error) {
	articles, err := s.articles.All(ctx)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	s.indexer.EnsureIndex(ctx)
	for _, article := range articles {
		s.indexer.Upsert(ctx, s.documentFor(article))
	}
	return len(articles), nil
}

// Tags lists every tag, alphabetically.
func (s *ArticleService) Tags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tags.All(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// Stats aggregates the dashboard counters.
func (s *ArticleService) Stats(ctx context.Context) (*repository.Stats, error) {
	stats, err := s.articles.Stats(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return stats, nil
}

// documentFor projects an article into its search document. Content is
// indexed as plain text so markup never matches a query.
func (s *ArticleService) documentFor(article *models.Article) search.Document {
	return search.Document{
		ID:       article.ID,
		Title:    article.Title,
		Content:  content.PlainText(article.Content),
		Author:   article.Author,
		Category: article.CategoryName(),
		Tags:     strings.Join(article.TagNames(), " "),
		Slug:     article.Slug,
	}
}
