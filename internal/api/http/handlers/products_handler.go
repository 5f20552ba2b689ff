package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/render"
	"github.com/spec-kit/crm-service/internal/repository"
)

// ProductsHandler serves the product catalog pages. The order workflow
// only reads products; creation lives here for catalog upkeep.
type ProductsHandler struct {
	products repository.ProductRepository
	renderer *render.Renderer
}

// NewProductsHandler constructs handler.
func NewProductsHandler(products repository.ProductRepository, renderer *render.Renderer) *ProductsHandler {
	return &ProductsHandler{products: products, renderer: renderer}
}

// List GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.Context())
	if err != nil {
		return err
	}
	return h.renderer.Render(c, fiber.StatusOK, "products.html", render.Context{
		"Title":    "Products",
		"Products": products,
	})
}

// NewProduct GET /products/new renders the blank product form.
func (h *ProductsHandler) NewProduct(c *fiber.Ctx) error {
	return h.renderProductForm(c, fiber.StatusOK, map[string]string{}, domain.Product{})
}

// CreateProduct POST /products/new.
func (h *ProductsHandler) CreateProduct(c *fiber.Ctx) error {
	product := domain.Product{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Category:    domain.ProductCategory(strings.TrimSpace(c.FormValue("category"))),
		Description: strings.TrimSpace(c.FormValue("description")),
	}

	errs := map[string]string{}
	if product.Name == "" {
		errs["name"] = "this field is required"
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	if err != nil || price < 0 {
		errs["price"] = "enter a valid price"
	}
	product.Price = price
	if product.Category != domain.ProductCategoryIndoor && product.Category != domain.ProductCategoryOutdoor {
		errs["category"] = "select a valid category"
	}
	if len(errs) > 0 {
		return h.renderProductForm(c, fiber.StatusBadRequest, errs, product)
	}

	if err := h.products.Create(c.Context(), &product); err != nil {
		return err
	}
	return c.Redirect("/products", fiber.StatusFound)
}

func (h *ProductsHandler) renderProductForm(c *fiber.Ctx, status int, errs map[string]string, product domain.Product) error {
	return h.renderer.Render(c, status, "product_form.html", render.Context{
		"Title":      "Create product",
		"Errors":     errs,
		"Product":    product,
		"Categories": []domain.ProductCategory{domain.ProductCategoryIndoor, domain.ProductCategoryOutdoor},
	})
}
