package server

import (
	"fmt"

	"itsour/internal/models"
	"itsour/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req service.CreateArticleInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.Create(c.Context(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// ListArticles handles GET /api/articles
func (s *Server) ListArticles(c *fiber.Ctx) error {
	skip := c.QueryInt("skip", 0)
	if skip < 0 {
		skip = 0
	}

	articles, err := s.articleService.List(c.Context(), service.ListArticlesInput{
		CategoryID:    queryUint(c, "category_id"),
		Tag:           c.Query("tag"),
		PublishedOnly: c.QueryBool("published_only", false),
		FeaturedOnly:  c.QueryBool("featured_only", false),
		Skip:          skip,
		Limit:         c.QueryInt("limit", 10),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(articles)
}

// GetArticle handles GET /api/articles/:id
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.articleService.Get(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(article)
}

// GetArticleBySlug handles GET /api/articles/by-slug/:slug
func (s *Server) GetArticleBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	article, err := s.articleService.GetBySlug(c.Context(), slug)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(article)
}

// UpdateArticle handles PUT /api/articles/:id
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateArticleInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.Update(c.Context(), id, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/articles/:id
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.articleService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Article deleted successfully"})
}

// SearchArticles handles GET /api/articles/search/query?q=...
// Search is best-effort: an unreachable engine yields an empty list, not an
// error, so the reading surface never breaks on the index.
func (s *Server) SearchArticles(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, models.NewValidationError("Search query is required"))
	}

	articles, err := s.articleService.Search(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if articles == nil {
		articles = []*models.Article{}
	}
	return c.JSON(articles)
}

// GetRelatedArticles handles GET /api/articles/:id/related
func (s *Server) GetRelatedArticles(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	related, err := s.articleService.Related(c.Context(), id, c.QueryInt("limit", 3))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if related == nil {
		related = []*models.Article{}
	}
	return c.JSON(related)
}

// ReindexArticles handles POST /api/articles/management/reindex
func (s *Server) ReindexArticles(c *fiber.Ctx) error {
	count, err := s.articleService.Reindex(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Successfully reindexed %d articles", count),
	})
}

// GetStats handles GET /api/articles/stats/dashboard
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.articleService.Stats(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(stats)
}

// GetAllTags handles GET /api/articles/tags/all
func (s *Server) GetAllTags(c *fiber.Ctx) error {
	tags, err := s.articleService.Tags(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return c.JSON(tags)
}
