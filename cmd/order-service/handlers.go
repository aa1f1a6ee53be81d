package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/httpx"
	"github.com/MikeMC777/perfulandia/internal/logging"
	ord "github.com/MikeMC777/perfulandia/internal/order"
)

func registerRoutes(r gin.IRouter, svc *ord.Service, repo ord.Repository) {
	r.GET("/orders", listOrdersHandler(repo))
	r.POST("/orders", placeOrderHandler(svc))
	r.GET("/orders/:id", getOrderHandler(repo))
	r.PUT("/orders/:id", updateOrderHandler(repo))
	r.PATCH("/orders/:id", patchOrderHandler(repo))
	r.DELETE("/orders/:id", deleteOrderHandler(repo))
	r.GET("/orders/stock/:productId", stockOfHandler(svc))
	r.GET("/orders/verify-stock/:productId/:quantity", verifyStockHandler(svc))
}

// placeOrderHandler godoc
// @Summary      Place an order
// @Description  Validates the customer and the stock, persists the order, registers a pending payment and publishes a stock decrement.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      ord.PlaceOrderRequest  true  "order"
// @Success      200    {object}  ord.Order
// @Failure      400    {object}  httpx.HTTPError
// @Failure      404    {object}  httpx.HTTPError
// @Failure      409    {object}  ord.InsufficientStockResponse
// @Failure      500    {object}  httpx.HTTPError
// @Router       /orders [post]
func placeOrderHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		o, err := svc.PlaceOrder(c.Request.Context(), req.Input())
		if err != nil {
			writePlaceError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func writePlaceError(c *gin.Context, err error) {
	var ise *ord.InsufficientStockError
	switch {
	case errors.As(err, &ise):
		c.AbortWithStatusJSON(http.StatusConflict, ord.InsufficientStockResponse{
			Error:     "insufficient stock",
			ProductID: ise.ProductID,
			Requested: ise.Requested,
			Available: ise.Available,
		})
	case errors.Is(err, ord.ErrInvalidInput):
		httpx.AbortError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ord.ErrCustomerNotFound):
		httpx.AbortError(c, http.StatusBadRequest, "customer not found")
	case errors.Is(err, ord.ErrProductNotFound):
		httpx.AbortError(c, http.StatusNotFound, "product not found")
	default:
		logging.FromContext(c.Request.Context(), nil).Error("place_order_failed", zap.Error(err))
		httpx.AbortError(c, http.StatusInternalServerError, "order could not be placed")
	}
}

// listOrdersHandler godoc
// @Summary  List orders
// @Tags     orders
// @Produce  json
// @Param    limit   query     int  false  "page size"
// @Param    offset  query     int  false  "offset"
// @Success  200     {object}  ord.ListResponse
// @Router   /orders [get]
func listOrdersHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		items, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			httpx.AbortError(c, http.StatusInternalServerError, "list error")
			return
		}
		c.JSON(http.StatusOK, ord.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// getOrderHandler godoc
// @Summary  Get an order
// @Tags     orders
// @Produce  json
// @Param    id   path      int  true  "order id"
// @Success  200  {object}  ord.Order
// @Failure  404  {object}  httpx.HTTPError
// @Router   /orders/{id} [get]
func getOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		o, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// updateOrderHandler replaces an order without re-running placement checks.
func updateOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		var req ord.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		if req.Total.IsNegative() {
			httpx.AbortError(c, http.StatusBadRequest, "total must not be negative")
			return
		}
		if req.Date.IsZero() {
			httpx.AbortError(c, http.StatusBadRequest, "date is required")
			return
		}
		o := &ord.Order{
			ID:          id,
			CustomerRef: string(req.CustomerRef),
			ProductRef:  string(req.ProductRef),
			Quantity:    req.Quantity,
			Total:       req.Total,
			Date:        req.Date,
		}
		if err := repo.Update(c.Request.Context(), o); err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func patchOrderHandler(repo ord.Repository) gin.HandlerFunc {
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
		p, err := ord.ParsePatch(body)
		if err != nil {
			httpx.AbortError(c, http.StatusBadRequest, err.Error())
			return
		}
		o, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			writeRepoError(c, err)
			return
		}
		p.Apply(o)
		if err := repo.Update(c.Request.Context(), o); err != nil {
			writeRepoError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrderHandler(repo ord.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			httpx.AbortError(c, http.StatusInternalServerError, "delete error")
			return
		}
		if !deleted {
			httpx.AbortError(c, http.StatusNotFound, "order not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// stockOfHandler godoc
// @Summary  Current stock of a product as seen by the inventory service
// @Tags     orders
// @Produce  json
// @Param    productId  path      int  true  "product id"
// @Success  200        {object}  ord.StockResponse
// @Failure  404        {object}  httpx.HTTPError
// @Router   /orders/stock/{productId} [get]
func stockOfHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := httpx.ParseID(c, "productId")
		if !ok {
			return
		}
		n, err := svc.StockOf(c.Request.Context(), c.Param("productId"))
		if err != nil {
			httpx.AbortError(c, http.StatusNotFound, "product not found")
			return
		}
		c.JSON(http.StatusOK, ord.StockResponse{ProductID: productID, QuantityAvailable: n})
	}
}

// verifyStockHandler godoc
// @Summary  Check whether a quantity is in stock
// @Tags     orders
// @Produce  plain
// @Param    productId  path      int  true  "product id"
// @Param    quantity   path      int  true  "quantity"
// @Success  200        {string}  string
// @Failure  404        {string}  string
// @Failure  409        {string}  string
// @Router   /orders/verify-stock/{productId}/{quantity} [get]
func verifyStockHandler(svc *ord.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		quantity, err := strconv.Atoi(c.Param("quantity"))
		if err != nil {
			c.String(http.StatusBadRequest, "Cantidad inválida")
			return
		}
		available, err := svc.VerifyStock(c.Request.Context(), c.Param("productId"), quantity)
		switch {
		case err == nil:
			c.String(http.StatusOK, fmt.Sprintf("Stock suficiente: %d", available))
		case errors.Is(err, ord.ErrInsufficientStock):
			c.String(http.StatusConflict, fmt.Sprintf("Stock insuficiente. Disponible: %d", available))
		case errors.Is(err, ord.ErrInvalidInput):
			c.String(http.StatusBadRequest, err.Error())
		default:
			c.String(http.StatusNotFound, "Producto no encontrado en inventario")
		}
	}
}

func writeRepoError(c *gin.Context, err error) {
	if errors.Is(err, ord.ErrNotFound) {
		httpx.AbortError(c, http.StatusNotFound, "order not found")
		return
	}
	logging.FromContext(c.Request.Context(), nil).Error("order_store_error", zap.Error(err))
	httpx.AbortError(c, http.StatusInternalServerError, "internal error")
}
