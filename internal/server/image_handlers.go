package server

import (
	"io"

	"itsour/internal/models"
	"itsour/internal/service"

	"github.com/gofiber/fiber/v2"
)

// readUpload pulls the multipart "file" field into memory. Uploads are
// size-capped by the app's body limit before this runs.
func readUpload(c *fiber.Ctx) (filename string, data []byte, err error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, models.NewValidationError("No file uploaded")
	}
	f, err := header.Open()
	if err != nil {
		return "", nil, models.NewValidationError("Could not read uploaded file")
	}
	defer func() { _ = f.Close() }()

	data, err = io.ReadAll(f)
	if err != nil {
		return "", nil, models.NewValidationError("Could not read uploaded file")
	}
	return header.Filename, data, nil
}

// UploadArticleImage handles POST /api/articles/:id/images
func (s *Server) UploadArticleImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	filename, data, err := readUpload(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	image, err := s.imageService.Upload(c.Context(), service.UploadImageInput{
		Filename:  filename,
		Content:   data,
		AltText:   c.FormValue("alt_text"),
		ArticleID: &id,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// GetArticleImages handles GET /api/articles/:id/images
func (s *Server) GetArticleImages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	images, err := s.imageService.ByArticle(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if images == nil {
		images = []models.Image{}
	}
	return c.JSON(images)
}

// UploadImage handles POST /api/images. Library uploads are not bound to an
// article.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	filename, data, err := readUpload(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	image, err := s.imageService.Upload(c.Context(), service.UploadImageInput{
		Filename: filename,
		Content:  data,
		AltText:  c.FormValue("alt_text"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}

// GetImageLibrary handles GET /api/images
func (s *Server) GetImageLibrary(c *fiber.Ctx) error {
	images, err := s.imageService.Library(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	if images == nil {
		images = []models.Image{}
	}
	return c.JSON(images)
}

// DeleteImage handles DELETE /api/images/:id
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.imageService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Image deleted successfully"})
}
