package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/dmarkhas/storefront/internal/fileutil"
	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/middleware/auth"
	"github.com/dmarkhas/storefront/internal/service"
	"github.com/dmarkhas/storefront/internal/transport"
	"github.com/dmarkhas/storefront/internal/validation"
)

// AdminHTTP is the admin product controller: form views, owner-scoped
// CRUD, image lifecycle.
type AdminHTTP struct {
	Svc        *service.CatalogService
	Validate   *validator.Validate
	UploadsDir string
}

func (h *AdminHTTP) GetAddProduct(c echo.Context) error {
	return c.JSON(http.StatusOK, transport.ProductFormView{
		PageTitle:        "Add Product",
		Path:             "/admin/add-product",
		ValidationErrors: []string{},
	})
}

func (h *AdminHTTP) PostAddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.post_add_product")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var in transport.ProductInput
	if err := c.Bind(&in); err != nil {
		l.Warn("add_product_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	image, err := c.FormFile("image")
	if err != nil {
		l.Warn("add_product_error", "status", 422, "reason", "missing image")
		return c.JSON(http.StatusUnprocessableEntity, transport.ProductFormView{
			PageTitle:        "Add Product",
			Path:             "/admin/add-product",
			HasError:         true,
			ErrorMessage:     "Attached file is not an image.",
			ValidationErrors: []string{},
			Product:          &in,
		})
	}

	if err := h.Validate.Struct(in); err != nil {
		msgs := validation.Messages(err)
		l.Warn("add_product_error", "status", 422, "reason", msgs[0])
		return c.JSON(http.StatusUnprocessableEntity, transport.ProductFormView{
			PageTitle:        "Add Product",
			Path:             "/admin/add-product",
			HasError:         true,
			ErrorMessage:     msgs[0],
			ValidationErrors: msgs,
			Product:          &in,
		})
	}

	imageURL, err := fileutil.SaveUpload(image, h.UploadsDir)
	if err != nil {
		l.Error("add_product_error", "status", 500, "reason", "cannot store image", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
	}

	if _, err := h.Svc.Create(ctx, in, imageURL, userID); err != nil {
		l.Error("add_product_error", "status", 500, "reason", "cannot create product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	l.Info("add_product_success")
	return c.Redirect(http.StatusSeeOther, "/admin/products")
}

func (h *AdminHTTP) GetEditProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_edit_product")

	if c.QueryParam("edit") == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	prod, err := h.Svc.Get(ctx, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		l.Error("edit_product_error", "status", 500, "reason", "cannot load product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}

	return c.JSON(http.StatusOK, transport.ProductFormView{
		PageTitle:        "Edit Product",
		Path:             "/admin/edit-product",
		Editing:          true,
		ValidationErrors: []string{},
		Product: &transport.ProductInput{
			Title:       prod.Title,
			Price:       prod.Price,
			Description: prod.Description,
		},
		ProductID: prod.ID,
	})
}

func (h *AdminHTTP) PostEditProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.post_edit_product")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	var in transport.ProductInput
	if err := c.Bind(&in); err != nil {
		l.Warn("edit_product_error", "status", 400, "reason", "invalid form", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	if err := h.Validate.Struct(in); err != nil {
		msgs := validation.Messages(err)
		l.Warn("edit_product_error", "status", 422, "reason", msgs[0])
		return c.JSON(http.StatusUnprocessableEntity, transport.ProductFormView{
			PageTitle:        "Edit Product",
			Path:             "/admin/edit-product",
			Editing:          true,
			HasError:         true,
			ErrorMessage:     msgs[0],
			ValidationErrors: msgs,
			Product:          &in,
			ProductID:        uint(id),
		})
	}

	newImageURL := ""
	if image, ferr := c.FormFile("image"); ferr == nil {
		newImageURL, err = fileutil.SaveUpload(image, h.UploadsDir)
		if err != nil {
			l.Error("edit_product_error", "status", 500, "reason", "cannot store image", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot store image")
		}
	}

	if _, err := h.Svc.Update(ctx, uint(id), in, newImageURL, userID); err != nil {
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) {
			l.Warn("edit_product_rejected", "productID", id, "userID", userID)
			return c.Redirect(http.StatusSeeOther, "/")
		}
		l.Error("edit_product_error", "status", 500, "reason", "cannot update product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	l.Info("edit_product_success")
	return c.Redirect(http.StatusSeeOther, "/admin/products")
}

func (h *AdminHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_products")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	prods, err := h.Svc.ListByOwner(ctx, userID)
	if err != nil {
		l.Error("admin_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, transport.AdminProductsView{
		Prods:     prods,
		PageTitle: "Admin Products",
		Path:      "/admin/products",
	})
}

// DeleteProduct is the one JSON-shaped admin action. Any failure maps
// to a fixed generic message; a non-owner request deletes nothing and
// still reports success.
func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		l.Warn("delete_product_error", "status", 500, "reason", "invalid id", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.MessageResponse{Message: "Deleting product failed"})
	}

	if err := h.Svc.Delete(ctx, uint(id), userID); err != nil {
		l.Error("delete_product_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.MessageResponse{Message: "Deleting product failed"})
	}

	l.Info("delete_product_success", "productID", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Success"})
}
