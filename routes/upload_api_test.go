package routes

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/clwei/goblog/config"
	"github.com/clwei/goblog/models"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func doUpload(t *testing.T, r *gin.Engine, token, field, filename string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to build multipart form: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("failed to write multipart payload: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadImageRequiresAuth(t *testing.T) {
	r, _ := setupTestAPI(t)

	w := doUpload(t, r, "", "image", "photo.png", pngBytes(t, 10, 10))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("guest upload status = %d, want 401", w.Code)
	}
}

func TestUploadImage(t *testing.T) {
	r, db := setupTestAPI(t)
	token, userID := registerUser(t, r, "alice")

	w := doUpload(t, r, token, "image", "photo.png", pngBytes(t, 40, 30))
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d body %s", w.Code, w.Body.String())
	}

	var data struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	decodeData(t, w, &data)
	if data.URL == "" {
		t.Fatal("upload returned no url")
	}
	if data.Width != 40 || data.Height != 30 {
		t.Errorf("upload dimensions = %dx%d, want 40x30", data.Width, data.Height)
	}

	var record models.UploadedImage
	if err := db.First(&record, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("upload not recorded: %v", err)
	}
	if _, err := os.Stat(record.FilePath); err != nil {
		t.Errorf("uploaded file missing on disk: %v", err)
	}
	if filepath.Ext(record.FilePath) != ".jpg" {
		t.Errorf("uploaded file not re-encoded as jpeg: %s", record.FilePath)
	}
}

func TestUploadImageDownscalesWideImages(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")

	maxWidth := config.Get().UploadMaxWidthPx
	w := doUpload(t, r, token, "featured_image", "wide.png", pngBytes(t, maxWidth+400, 200))
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d body %s", w.Code, w.Body.String())
	}

	var data struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	decodeData(t, w, &data)
	if data.Width != maxWidth {
		t.Errorf("stored width = %d, want downscaled to %d", data.Width, maxWidth)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	r, db := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")

	w := doUpload(t, r, token, "image", "notes.txt", []byte("definitely not pixels"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-image upload status = %d, want 400", w.Code)
	}

	var count int64
	db.Model(&models.UploadedImage{}).Count(&count)
	if count != 0 {
		t.Error("non-image upload was recorded")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")

	maxSize := int64(config.Get().UploadMaxSizeMB) << 20
	w := doUpload(t, r, token, "image", "huge.png", make([]byte, maxSize+1))
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized upload status = %d, want 400", w.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	r, _ := setupTestAPI(t)
	token, _ := registerUser(t, r, "alice")

	w := doUpload(t, r, token, "unrelated_field", "photo.png", pngBytes(t, 10, 10))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing file field status = %d, want 400", w.Code)
	}
}
