package transport

import (
	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/util"
)

type ProductInput struct {
	Title       string  `form:"title"       json:"title"       validate:"required,min=3"`
	Price       float64 `form:"price"       json:"price"       validate:"required,gt=0"`
	Description string  `form:"description" json:"description" validate:"required,min=5,max=400"`
}

// ProductFormView is what the add/edit product form renders from. On a
// failed submit it echoes the submitted values back with the first
// validation message.
type ProductFormView struct {
	PageTitle        string        `json:"page_title"`
	Path             string        `json:"path"`
	Editing          bool          `json:"editing"`
	HasError         bool          `json:"has_error"`
	ErrorMessage     string        `json:"error_message,omitempty"`
	ValidationErrors []string      `json:"validation_errors"`
	Product          *ProductInput `json:"product,omitempty"`
	ProductID        uint          `json:"product_id,omitempty"`
}

type ProductListView struct {
	Prods     []models.Product `json:"prods"`
	PageTitle string           `json:"page_title"`
	Path      string           `json:"path"`
	util.Pagination
}

type AdminProductsView struct {
	Prods     []models.Product `json:"prods"`
	PageTitle string           `json:"page_title"`
	Path      string           `json:"path"`
}

type ProductDetailView struct {
	Product   models.Product `json:"product"`
	PageTitle string         `json:"page_title"`
	Path      string         `json:"path"`
}

type CartLine struct {
	Product  models.Product `json:"product"`
	Quantity uint           `json:"quantity"`
}

type CartView struct {
	Path      string     `json:"path"`
	PageTitle string     `json:"page_title"`
	Products  []CartLine `json:"products"`
}

type CheckoutView struct {
	Path      string     `json:"path"`
	PageTitle string     `json:"page_title"`
	Products  []CartLine `json:"products"`
	TotalSum  float64    `json:"total_sum"`
	SessionID string     `json:"session_id"`
}

type OrdersView struct {
	Path      string         `json:"path"`
	PageTitle string         `json:"page_title"`
	Orders    []models.Order `json:"orders"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
