package service

import (
	"context"
	"errors"
	"testing"

	"itsour/internal/models"
	"itsour/internal/repository"
	"itsour/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// imageStoreStub is a stub for the image-cleanup slice of ImageService.
type imageStoreStub struct {
	byArticleFn func(context.Context, uint) ([]models.Image, error)
	removed     []models.Image
}

func (s *imageStoreStub) ByArticle(ctx context.Context, articleID uint) ([]models.Image, error) {
	if s.byArticleFn != nil {
		return s.byArticleFn(ctx, articleID)
	}
	return nil, nil
}

func (s *imageStoreStub) RemoveStoredFiles(imgs []models.Image) {
	s.removed = append(s.removed, imgs...)
}

// articleRepoStub is a stub for repository.ArticleRepository.
type articleRepoStub struct {
	createFn         func(context.Context, *models.Article) error
	updateFn         func(context.Context, *models.Article, *[]models.Tag) error
	getByIDFn        func(context.Context, uint) (*models.Article, error)
	getBySlugFn      func(context.Context, string) (*models.Article, error)
	getByIDsFn       func(context.Context, []uint) ([]*models.Article, error)
	listFn           func(context.Context, repository.ListFilter) ([]*models.Article, error)
	allFn            func(context.Context) ([]*models.Article, error)
	deleteFn         func(context.Context, *models.Article) error
	incrementViewsFn func(context.Context, uint) error
	slugExistsFn     func(context.Context, string, uint) (bool, error)
	relatedFn        func(context.Context, *models.Article, int) ([]*models.Article, error)
	statsFn          func(context.Context) (*repository.Stats, error)
}

func (s *articleRepoStub) Create(ctx context.Context, article *models.Article) error {
	return s.createFn(ctx, article)
}
func (s *articleRepoStub) Update(ctx context.Context, article *models.Article, tags *[]models.Tag) error {
	return s.updateFn(ctx, article, tags)
}
func (s *articleRepoStub) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	return s.getByIDFn(ctx, id)
}
func (s *articleRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *articleRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]*models.Article, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *articleRepoStub) List(ctx context.Context, filter repository.ListFilter) ([]*models.Article, error) {
	return s.listFn(ctx, filter)
}
func (s *articleRepoStub) All(ctx context.Context) ([]*models.Article, error) {
	return s.allFn(ctx)
}
func (s *articleRepoStub) Delete(ctx context.Context, article *models.Article) error {
	return s.deleteFn(ctx, article)
}
func (s *articleRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *articleRepoStub) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return s.slugExistsFn(ctx, slug, excludeID)
}
func (s *articleRepoStub) Related(ctx context.Context, article *models.Article, limit int) ([]*models.Article, error) {
	return s.relatedFn(ctx, article, limit)
}
func (s *articleRepoStub) Stats(ctx context.Context) (*repository.Stats, error) {
	return s.statsFn(ctx)
}

func noopArticleRepo() *articleRepoStub {
	return &articleRepoStub{
		createFn: func(_ context.Context, a *models.Article) error {
			a.ID = 1
			return nil
		},
		updateFn: func(_ context.Context, _ *models.Article, _ *[]models.Tag) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Article, error) {
			return &models.Article{ID: id}, nil
		},
		getBySlugFn: func(_ context.Context, _ string) (*models.Article, error) {
			return &models.Article{ID: 1}, nil
		},
		getByIDsFn:       func(_ context.Context, _ []uint) ([]*models.Article, error) { return nil, nil },
		listFn:           func(_ context.Context, _ repository.ListFilter) ([]*models.Article, error) { return nil, nil },
		allFn:            func(_ context.Context) ([]*models.Article, error) { return nil, nil },
		deleteFn:         func(_ context.Context, _ *models.Article) error { return nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		slugExistsFn:     func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil },
		relatedFn: func(_ context.Context, _ *models.Article, _ int) ([]*models.Article, error) {
			return nil, nil
		},
		statsFn: func(_ context.Context) (*repository.Stats, error) { return &repository.Stats{}, nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	getOrCreateFn func(context.Context, []string) ([]models.Tag, error)
	allFn         func(context.Context) ([]models.Tag, error)
}

func (s *tagRepoStub) GetOrCreateByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	return s.getOrCreateFn(ctx, names)
}
func (s *tagRepoStub) All(ctx context.Context) ([]models.Tag, error) {
	return s.allFn(ctx)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		getOrCreateFn: func(_ context.Context, names []string) ([]models.Tag, error) {
			tags := make([]models.Tag, 0, len(names))
			for i, name := range names {
				tags = append(tags, models.Tag{ID: uint(i + 1), Name: name})
			}
			return tags, nil
		},
		allFn: func(_ context.Context) ([]models.Tag, error) { return nil, nil },
	}
}

// fakeIndexer records index traffic in memory. searchFn defaults to an
// empty result like an unreachable engine.
type fakeIndexer struct {
	upserts  []search.Document
	deletes  []uint
	ensured  int
	searchFn func(string) []uint
}

func (f *fakeIndexer) EnsureIndex(context.Context) { f.ensured++ }
func (f *fakeIndexer) Upsert(_ context.Context, doc search.Document) {
	f.upserts = append(f.upserts, doc)
}
func (f *fakeIndexer) Delete(_ context.Context, id uint) {
	f.deletes = append(f.deletes, id)
}
func (f *fakeIndexer) Search(_ context.Context, query string) []uint {
	if f.searchFn == nil {
		return nil
	}
	return f.searchFn(query)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}

// assertBadGatewayError asserts that err is an AppError with code BAD_GATEWAY.
func assertBadGatewayError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeBadGateway)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
