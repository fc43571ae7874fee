package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"itsour/internal/models"
	"itsour/internal/repository"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	"gorm.io/gorm"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp" // decode-only; variants are re-encoded as JPEG
)

const (
	// Variant widths. Images narrower than a variant's width are stored at
	// their native size rather than upscaled.
	mediumMaxWidth    = 800
	thumbnailMaxWidth = 300

	jpegQuality          = 85
	maxUploadSizeBytes   = 10 * 1024 * 1024
	variantDirOriginal   = "original"
	variantDirMedium     = "medium"
	variantDirThumbnail  = "thumbnail"
)

type UploadImageInput struct {
	Filename  string
	Content   []byte
	AltText   string
	ArticleID *uint
}

// ImageService stores uploads as three JPEG variants on disk and records
// them in the database. Deleting an image removes both.
type ImageService struct {
	images    repository.ImageRepository
	articles  repository.ArticleRepository
	uploadDir string
}

func NewImageService(images repository.ImageRepository, articles repository.ArticleRepository, uploadDir string) *ImageService {
	return &ImageService{
		images:    images,
		articles:  articles,
		uploadDir: uploadDir,
	}
}

// Upload validates and decodes the file, writes the original, medium and
// thumbnail variants and persists the record. When ArticleID is set the
// article must exist.
func (s *ImageService) Upload(ctx context.Context, in UploadImageInput) (*models.Image, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxUploadSizeBytes/(1024*1024)))
	}
	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return nil, models.NewValidationError("Invalid image type")
	}

	if in.ArticleID != nil {
		if _, err := s.articles.GetByID(ctx, *in.ArticleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Article", *in.ArticleID)
			}
			return nil, models.NewInternalError(err)
		}
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	filename := safeFilename(in.Filename)
	originalRel := filepath.ToSlash(filepath.Join(variantDirOriginal, filename))
	mediumRel := filepath.ToSlash(filepath.Join(variantDirMedium, filename))
	thumbnailRel := filepath.ToSlash(filepath.Join(variantDirThumbnail, filename))

	original, err := encodeJPEG(decoded, jpegQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	medium, err := encodeJPEG(resizeToWidth(decoded, mediumMaxWidth), jpegQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	thumbnail, err := encodeJPEG(resizeToWidth(decoded, thumbnailMaxWidth), jpegQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	written := make([]string, 0, 3)
	for _, v := range []struct {
		rel  string
		data []byte
	}{
		{originalRel, original},
		{mediumRel, medium},
		{thumbnailRel, thumbnail},
	} {
		abs := filepath.Join(s.uploadDir, v.rel)
		if err := writeBytesToFile(abs, v.data); err != nil {
			cleanupFiles(written)
			return nil, models.NewInternalError(err)
		}
		written = append(written, abs)
	}

	bounds := decoded.Bounds()
	record := &models.Image{
		Filename:      filename,
		OriginalPath:  originalRel,
		MediumPath:    mediumRel,
		ThumbnailPath: thumbnailRel,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		SizeBytes:     int64(len(original)),
		AltText:       in.AltText,
		ArticleID:     in.ArticleID,
	}
	if err := s.images.Create(ctx, record); err != nil {
		cleanupFiles(written)
		return nil, models.NewInternalError(err)
	}
	return record, nil
}

// Library lists every stored image, newest first.
func (s *ImageService) Library(ctx context.Context) ([]models.Image, error) {
	images, err := s.images.Library(ctx)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}

// ByArticle lists the images attached to one article.
func (s *ImageService) ByArticle(ctx context.Context, articleID uint) ([]models.Image, error) {
	images, err := s.images.ByArticle(ctx, articleID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}

// Delete removes the record and then the variant files. File removal errors
// are ignored: the row is gone, so a leftover file is unreachable garbage,
// not inconsistency.
func (s *ImageService) Delete(ctx context.Context, id uint) error {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Image", id)
		}
		return models.NewInternalError(err)
	}
	if err := s.images.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	s.RemoveStoredFiles([]models.Image{*img})
	return nil
}

// RemoveStoredFiles deletes every variant file of the given images from the
// upload directory. Callers use it after the owning rows are already gone,
// so removal errors are ignored the same way Delete ignores them.
func (s *ImageService) RemoveStoredFiles(imgs []models.Image) {
	for i := range imgs {
		for _, rel := range imgs[i].Paths() {
			_ = os.Remove(filepath.Join(s.uploadDir, rel))
		}
	}
}

// safeFilename builds a unique on-disk name from the uploaded one. All
// variants are JPEG regardless of the source format, and path separators in
// the client-supplied name are discarded.
func safeFilename(uploaded string) string {
	base := filepath.Base(strings.ReplaceAll(uploaded, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" || base == "-" {
		base = "image"
	}
	return fmt.Sprintf("%s_%s.jpg", uuid.NewString()[:8], base)
}

// resizeToWidth scales down to at most maxWidth preserving aspect ratio.
// Smaller images pass through untouched.
func resizeToWidth(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth || w <= 0 || h <= 0 {
		return src
	}
	newW := maxWidth
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func cleanupFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
