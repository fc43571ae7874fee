package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 80, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// uploadImage posts a multipart upload to the given path.
func uploadImage(t *testing.T, app *fiber.App, path, token, filename string, data []byte, fields map[string]string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestUploadArticleImage(t *testing.T) {
	app, _ := newTestApp(t)
	token := adminToken(t)
	article := createArticle(t, app, token, map[string]interface{}{"title": "Pics", "content": "c"})
	id := article["id"].(float64)

	resp := uploadImage(t, app, fmt.Sprintf("/api/articles/%.0f/images", id), token,
		"cat.png", testPNG(t, 900, 450), map[string]string{"alt_text": "a cat"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var img map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&img))
	_ = resp.Body.Close()
	assert.Equal(t, "a cat", img["alt_text"])
	assert.Equal(t, float64(900), img["width"])
	assert.Equal(t, id, img["article_id"].(float64))

	var images []map[string]interface{}
	res := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/articles/%.0f/images", id), "", nil, &images)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, images, 1)
}

func TestDeleteArticleRemovesImageFiles(t *testing.T) {
	cfg := testConfig(t)
	app, _ := newTestAppWithConfig(t, cfg)
	token := adminToken(t)
	article := createArticle(t, app, token, map[string]interface{}{"title": "Pics", "content": "c"})
	id := article["id"].(float64)

	resp := uploadImage(t, app, fmt.Sprintf("/api/articles/%.0f/images", id), token,
		"cat.png", testPNG(t, 64, 64), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var img map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&img))
	_ = resp.Body.Close()

	variants := []string{
		img["original_path"].(string),
		img["medium_path"].(string),
		img["thumbnail_path"].(string),
	}
	for _, rel := range variants {
		_, err := os.Stat(filepath.Join(cfg.UploadDir, rel))
		require.NoError(t, err)
	}

	res := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/articles/%.0f", id), token, nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	for _, rel := range variants {
		_, err := os.Stat(filepath.Join(cfg.UploadDir, rel))
		assert.True(t, os.IsNotExist(err))
	}
}

func TestUploadArticleImageMissingArticle(t *testing.T) {
	app, _ := newTestApp(t)
	token := adminToken(t)

	resp := uploadImage(t, app, "/api/articles/9999/images", token,
		"cat.png", testPNG(t, 10, 10), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadImageValidation(t *testing.T) {
	app, _ := newTestApp(t)
	token := adminToken(t)

	resp := uploadImage(t, app, "/api/images/", token, "notes.txt",
		[]byte("not an image"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Missing multipart file field entirely.
	res := doJSON(t, app, http.MethodPost, "/api/images/", token, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestImageLibraryLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	token := adminToken(t)

	resp := uploadImage(t, app, "/api/images/", token, "standalone.png",
		testPNG(t, 40, 40), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var img map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&img))
	_ = resp.Body.Close()
	assert.Nil(t, img["article_id"], "library uploads are unbound")

	var library []map[string]interface{}
	res := doJSON(t, app, http.MethodGet, "/api/images/", token, nil, &library)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, library, 1)

	res = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/images/%.0f", img["id"].(float64)), token, nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	doJSON(t, app, http.MethodGet, "/api/images/", token, nil, &library)
	assert.Empty(t, library)
}

func TestImageRoutesRequireAuth(t *testing.T) {
	app, _ := newTestApp(t)

	res := doJSON(t, app, http.MethodGet, "/api/images/", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	resp := uploadImage(t, app, "/api/images/", "", "cat.png", testPNG(t, 10, 10), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
