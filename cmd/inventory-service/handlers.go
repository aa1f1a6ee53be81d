package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/httpx"
	"github.com/MikeMC777/perfulandia/internal/inventory"
	"github.com/MikeMC777/perfulandia/internal/logging"
)

// gin needs one wildcard name per path segment, so ":id" is a product id on
// GET and PUT and a record id on PATCH and DELETE.
func registerRoutes(r gin.IRouter, repo inventory.Repository) {
	r.GET("/inventory", listStockHandler(repo))
	r.POST("/inventory", createStockHandler(repo))
	r.GET("/inventory/:id", getStockHandler(repo))
	r.PUT("/inventory/:id", updateStockHandler(repo))
	r.PUT("/inventory/:id/increase", adjustStockHandler(repo, 1))
	r.PUT("/inventory/:id/decrease", adjustStockHandler(repo, -1))
	r.PATCH("/inventory/:id", patchStockHandler(repo))
	r.DELETE("/inventory/:id", deleteStockHandler(repo))
}

// listStockHandler godoc
// @Summary  List stock records
// @Tags     inventory
// @Produce  json
// @Param    limit   query     int  false  "page size"
// @Param    offset  query     int  false  "offset"
// @Success  200     {object}  inventory.ListResponse
// @Router   /inventory [get]
func listStockHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		items, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			writeStockError(c, err)
			return
		}
		c.JSON(http.StatusOK, inventory.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// getStockHandler godoc
// @Summary      Stock record of a product
// @Description  The order service reads quantity_available from here before placing an order.
// @Tags         inventory
// @Produce      json
// @Param        productId  path      int  true  "product id"
// @Success      200        {object}  inventory.StockRecord
// @Failure      404        {object}  httpx.HTTPError
// @Router       /inventory/{productId} [get]
func getStockHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		rec, err := repo.GetByProductID(c.Request.Context(), productID)
		if err != nil {
			writeStockError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// createStockHandler godoc
// @Summary  Create a stock record
// @Tags     inventory
// @Accept   json
// @Produce  json
// @Param    record  body      inventory.CreateStockRequest  true  "record"
// @Success  201     {object}  inventory.StockRecord
// @Failure  400     {object}  httpx.HTTPError
// @Failure  409     {object}  httpx.HTTPError
// @Router   /inventory [post]
func createStockHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req inventory.CreateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		rec := &inventory.StockRecord{
			ProductID:         req.ProductID,
			QuantityAvailable: req.QuantityAvailable,
			Location:          req.Location,
		}
		if err := repo.Create(c.Request.Context(), rec); err != nil {
			writeStockError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rec)
	}
}

// updateStockHandler godoc
// @Summary  Replace quantity and location of a product's record
// @Tags     inventory
// @Accept   json
// @Produce  json
// @Param    productId  path      int                           true  "product id"
// @Param    record     body      inventory.UpdateStockRequest  true  "fields"
// @Success  200        {object}  inventory.StockRecord
// @Failure  400        {object}  httpx.HTTPError
// @Failure  404        {object}  httpx.HTTPError
// @Router   /inventory/{productId} [put]
func updateStockHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		var req inventory.UpdateStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		cur, err := repo.GetByProductID(c.Request.Context(), productID)
		if err != nil {
			writeStockError(c, err)
			return
		}
		rec, err := repo.Mutate(c.Request.Context(), cur.ID, func(r *inventory.StockRecord) error {
			r.QuantityAvailable = *req.QuantityAvailable
			r.Location = req.Location
			return nil
		})
		if err != nil {
			writeStockError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// adjustStockHandler godoc
// @Summary      Increase or decrease a product's stock
// @Description  Applies the change atomically. Decreasing is not floored at zero.
// @Tags         inventory
// @Produce      json
// @Param        productId  path      int  true  "product id"
// @Param        quantity   query     int  true  "units"
// @Success      200        {object}  inventory.StockRecord
// @Failure      400        {object}  httpx.HTTPError
// @Failure      404        {object}  httpx.HTTPError
// @Router       /inventory/{productId}/increase [put]
// @Router       /inventory/{productId}/decrease [put]
func adjustStockHandler(repo inventory.Repository, sign int) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		quantity, err := strconv.Atoi(c.Query("quantity"))
		if err != nil || quantity <= 0 {
			httpx.AbortError(c, http.StatusBadRequest, "quantity must be a positive integer")
			return
		}
		rec, err := repo.Adjust(c.Request.Context(), productID, sign*quantity)
		if err != nil {
			writeStockError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// patchStockHandler godoc
// @Summary  Partially update a stock record
// @Tags     inventory
// @Accept   json
// @Produce  json
// @Param    id      path      int     true  "record id"
// @Param    fields  body      object  true  "product_id, quantity_available or location"
// @Success  200     {object}  inventory.StockRecord
// @Failure  400     {object}  httpx.HTTPError
// @Failure  404     {object}  httpx.HTTPError
// @Router   /inventory/{id} [patch]
func patchStockHandler(repo inventory.Repository) gin.HandlerFunc {
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
		p, err := inventory.ParsePatch(body)
		if err != nil {
			httpx.AbortError(c, http.StatusBadRequest, err.Error())
			return
		}
		rec, err := repo.Mutate(c.Request.Context(), id, func(r *inventory.StockRecord) error {
			p.Apply(r)
			return nil
		})
		if err != nil {
			writeStockError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func deleteStockHandler(repo inventory.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			writeStockError(c, err)
			return
		}
		if !deleted {
			httpx.AbortError(c, http.StatusNotFound, "stock record not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func writeStockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		httpx.AbortError(c, http.StatusNotFound, "stock record not found")
	case errors.Is(err, inventory.ErrAlreadyExists):
		httpx.AbortError(c, http.StatusConflict, err.Error())
	default:
		logging.FromContext(c.Request.Context(), nil).Error("stock_store_error", zap.Error(err))
		httpx.AbortError(c, http.StatusInternalServerError, "internal error")
	}
}
