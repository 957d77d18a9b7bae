package httpserver

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dmarkhas/storefront/internal/config"
	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T) (*repo.GormRepo, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return repo.New(db), db
}

func seedProduct(t *testing.T, db *gorm.DB, title string, price float64, ownerID uint) models.Product {
	t.Helper()
	prod := models.Product{
		Title:       title,
		Price:       price,
		Description: "test description",
		ImageURL:    "images/" + title + ".png",
		UserID:      ownerID,
	}
	if err := db.Create(&prod).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return prod
}

// newContext builds an echo context the way the route middleware would
// hand it to a handler, with the authenticated user already set.
func newContext(t *testing.T, method, target string, body io.Reader, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
	}
	return rec, c
}

func newFormContext(t *testing.T, method, target string, form url.Values, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	rec, c := newContext(t, method, target, strings.NewReader(form.Encode()), userID)
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return rec, c
}

func newMultipartContext(t *testing.T, target string, fields map[string]string, imageField string, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf strings.Builder
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if imageField != "" {
		fw, err := w.CreateFormFile(imageField, "product.png")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write([]byte("fake png bytes")); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	rec, c := newContext(t, http.MethodPost, target, strings.NewReader(buf.String()), userID)
	c.Request().Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return rec, c
}
