package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vedashop/internal/domain"
	"vedashop/internal/repository"
)

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param input body domain.Product true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	p := domain.Product{IsActive: true}
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	created, err := s.svc.Products.Create(c.Request.Context(), p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.svc.Products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Replace product
// @Description Whole-record replace; created_at is kept.
// @Tags products
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "Product ID"
// @Param input body domain.Product true "Product"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p.ID = c.Param("id")
	updated, err := s.svc.Products.Update(c.Request.Context(), p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete product
// @Tags products
// @Param X-User-ID header string true "Acting user"
// @Param id path string true "Product ID"
// @Param confirm query bool true "Must be true"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 428 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.svc.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Search in name, sku, tags, benefits"
// @Param sku query string false "SKU contains"
// @Param category query []string false "Any of categories"
// @Param tag query []string false "Any of tags"
// @Param status query string false "all|active|inactive (active only without manage_products)"
// @Param min_price query string false "Min price"
// @Param max_price query string false "Max price"
// @Success 200 {array} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	f := repository.ProductFilter{
		Search: c.Query("q"),
		SKU:    c.Query("sku"),
		Tags:   c.QueryArray("tag"),
		Status: repository.ProductStatus(c.DefaultQuery("status", string(repository.StatusAll))),
	}
	for _, cat := range c.QueryArray("category") {
		f.Categories = append(f.Categories, domain.Category(cat))
	}
	switch f.Status {
	case repository.StatusAll, repository.StatusActive, repository.StatusInactive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	var ok bool
	if f.MinPrice, ok = parsePrice(c, "min_price"); !ok {
		return
	}
	if f.MaxPrice, ok = parsePrice(c, "max_price"); !ok {
		return
	}
	list, err := s.svc.Products.List(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func parsePrice(c *gin.Context, key string) (*decimal.Decimal, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return nil, false
	}
	return &d, true
}
