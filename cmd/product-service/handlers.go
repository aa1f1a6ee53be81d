package main

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/httpx"
	"github.com/MikeMC777/perfulandia/internal/logging"
	prod "github.com/MikeMC777/perfulandia/internal/product"
)

func registerRoutes(r gin.IRouter, repo prod.Repository) {
	r.GET("/products", listOnlyHandler(repo))
	r.GET("/products/search", searchHandler(repo))
	r.GET("/products/:id", getProductHandler(repo))
	r.POST("/products", createProductHandler(repo))
	r.PUT("/products/:id", updateProductHandler(repo))
	r.PATCH("/products/:id", patchProductHandler(repo))
	r.DELETE("/products/:id", deleteProductHandler(repo))
}

// listOnlyHandler godoc
// @Summary  List products
// @Tags     products
// @Produce  json
// @Param    limit   query     int  false  "page size"
// @Param    offset  query     int  false  "offset"
// @Success  200     {object}  prod.ListResponse
// @Router   /products [get]
func listOnlyHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		items, err := repo.List(c.Request.Context(), prod.Query{Limit: limit, Offset: offset})
		if err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusOK, prod.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// searchHandler godoc
// @Summary  Search products by name or description
// @Tags     products
// @Produce  json
// @Param    q       query     string  true   "search term (min 2 chars)"
// @Param    limit   query     int     false  "page size"
// @Param    offset  query     int     false  "offset"
// @Success  200     {object}  prod.ListResponse
// @Failure  400     {object}  httpx.HTTPError
// @Router   /products/search [get]
func searchHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len([]rune(q)) < 2 {
			httpx.AbortError(c, http.StatusBadRequest, "q must have at least 2 characters")
			return
		}
		limit, offset := httpx.Page(c)
		items, err := repo.List(c.Request.Context(), prod.Query{Q: q, Limit: limit, Offset: offset})
		if err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusOK, prod.ListResponse{Q: q, Limit: limit, Offset: offset, Items: items})
	}
}

// getProductHandler godoc
// @Summary  Get a product
// @Tags     products
// @Produce  json
// @Param    id   path      int  true  "product id"
// @Success  200  {object}  prod.Product
// @Failure  404  {object}  httpx.HTTPError
// @Router   /products/{id} [get]
func getProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler godoc
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    product  body      prod.CreateProductRequest  true  "product"
// @Success  201      {object}  prod.Product
// @Failure  400      {object}  httpx.HTTPError
// @Router   /products [post]
func createProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" || req.Price.IsNegative() {
			httpx.AbortError(c, http.StatusBadRequest, "name must not be blank and price must not be negative")
			return
		}
		p := &prod.Product{Name: name, Description: req.Description, Price: *req.Price}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler godoc
// @Summary      Update a product
// @Description  Partial update: omitted fields keep their value.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "product id"
// @Param        product  body      prod.UpdateProductRequest  true  "fields"
// @Success      200      {object}  prod.Product
// @Failure      400      {object}  httpx.HTTPError
// @Failure      404      {object}  httpx.HTTPError
// @Router       /products/{id} [put]
func updateProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		var req prod.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		p := &prod.Product{ID: id, Name: strings.TrimSpace(req.Name), Description: req.Description}
		if req.Price != nil {
			if req.Price.IsNegative() {
				httpx.AbortError(c, http.StatusBadRequest, "price must not be negative")
				return
			}
			p.Price = *req.Price
		}
		if err := repo.Update(c.Request.Context(), p, req.Price != nil); err != nil {
			writeRepoError(c, err)
			return
		}
		got, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusOK, got)
	}
}

// patchProductHandler godoc
// @Summary  Partially update a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    id      path      int     true  "product id"
// @Param    fields  body      object  true  "name, description or price"
// @Success  200     {object}  prod.Product
// @Failure  400     {object}  httpx.HTTPError
// @Failure  404     {object}  httpx.HTTPError
// @Router   /products/{id} [patch]
func patchProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "unreadable body")
			return
		}
		patch, err := prod.ParsePatch(body)
		if err != nil {
			httpx.AbortError(c, http.StatusBadRequest, err.Error())
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			writeRepoError(c, err)
			return
		}
		patch.Apply(p)
		if err := repo.Update(c.Request.Context(), p, true); err != nil {
			writeRepoError(c, err)
			return
		}
		got, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusOK, got)
	}
}

// deleteProductHandler godoc
// @Summary  Delete a product
// @Tags     products
// @Param    id  path  int  true  "product id"
// @Success  204
// @Failure  404  {object}  httpx.HTTPError
// @Router   /products/{id} [delete]
func deleteProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			writeRepoError(c, err)
			return
		}
		if !deleted {
			httpx.AbortError(c, http.StatusNotFound, "product not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func writeRepoError(c *gin.Context, err error) {
	if errors.Is(err, prod.ErrNotFound) {
		httpx.AbortError(c, http.StatusNotFound, "product not found")
		return
	}
	logging.FromContext(c.Request.Context(), nil).Error("product_store_error", zap.Error(err))
	httpx.AbortError(c, http.StatusInternalServerError, "internal error")
}
