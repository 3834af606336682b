package handlers

import (
	"github.com/gofiber/fiber/v2"

	"producthub/internal/catalog"
	"producthub/internal/models"
	"producthub/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/product-detail/:id", h.HandleGetProduct)
	router.Put("/addproduct", h.HandleAddProduct)
	router.Put("/products/:id", h.HandleUpdateProduct)
	router.Delete("/products/:id", h.HandleDeleteProduct)
}

// HandleListProducts returns a filtered, sorted page of products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	var params catalog.Params
	if err := c.QueryParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	page, err := h.service.ListProducts(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// HandleGetProduct returns a single product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleAddProduct creates a product from the request body.
func (h *ProductHandler) HandleAddProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	id, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Product added successfully",
		"productId": id,
	})
}

// HandleUpdateProduct replaces a product's fields.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), input); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
	})
}

// HandleDeleteProduct removes a product and reports how many records went.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	result, err := h.service.DeleteProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}
