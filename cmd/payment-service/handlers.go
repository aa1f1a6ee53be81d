package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/httpx"
	"github.com/MikeMC777/perfulandia/internal/logging"
	"github.com/MikeMC777/perfulandia/internal/payment"
)

func registerRoutes(r gin.IRouter, repo payment.Repository) {
	r.GET("/payments", listPaymentsHandler(repo))
	r.GET("/payments/:id", getPaymentHandler(repo))
	r.POST("/payments", createPaymentHandler(repo))
	r.PUT("/payments/:id", updatePaymentHandler(repo))
	r.PATCH("/payments/:id", patchPaymentHandler(repo))
	r.DELETE("/payments/:id", deletePaymentHandler(repo))
}

// listPaymentsHandler godoc
// @Summary  List payments
// @Tags     payments
// @Produce  json
// @Param    limit   query     int  false  "page size"
// @Param    offset  query     int  false  "offset"
// @Success  200     {object}  payment.ListResponse
// @Router   /payments [get]
func listPaymentsHandler(repo payment.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		items, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

func getPaymentHandler(repo payment.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createPaymentHandler godoc
// @Summary      Register a payment
// @Description  The order service posts a CASH/PENDING payment here after each placed order.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        payment  body      payment.CreatePaymentRequest  true  "payment"
// @Success      201      {object}  payment.Payment
// @Failure      400      {object}  httpx.HTTPError
// @Router       /payments [post]
func createPaymentHandler(repo payment.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req payment.CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		p := &payment.Payment{OrderID: req.OrderID, Amount: req.Amount, Method: req.Method, Status: req.Status}
		if err := p.Validate(); err != nil {
			writePaymentError(c, err)
			return
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updatePaymentHandler godoc
// @Summary  Replace a payment
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    id       path      int                           true  "payment id"
// @Param    payment  body      payment.CreatePaymentRequest  true  "payment"
// @Success  200      {object}  payment.Payment
// @Failure  400      {object}  httpx.HTTPError
// @Failure  404      {object}  httpx.HTTPError
// @Router   /payments/{id} [put]
func updatePaymentHandler(repo payment.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		var req payment.CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		p := &payment.Payment{ID: id, OrderID: req.OrderID, Amount: req.Amount, Method: req.Method, Status: req.Status}
		if err := p.Validate(); err != nil {
			writePaymentError(c, err)
			return
		}
		if err := repo.Update(c.Request.Context(), p); err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// patchPaymentHandler godoc
// @Summary  Partially update a payment
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    id      path      int     true  "payment id"
// @Param    fields  body      object  true  "order_id, amount, method or status"
// @Success  200     {object}  payment.Payment
// @Failure  400     {object}  httpx.HTTPError
// @Failure  404     {object}  httpx.HTTPError
// @Router   /payments/{id} [patch]
func patchPaymentHandler(repo payment.Repository) gin.HandlerFunc {
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
		patch, err := payment.ParsePatch(body)
		if err != nil {
			httpx.AbortError(c, http.StatusBadRequest, err.Error())
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		patch.Apply(p)
		if err := repo.Update(c.Request.Context(), p); err != nil {
			writePaymentError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deletePaymentHandler(repo payment.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		deleted, err := repo.Delete(c.Request.Context(), id)
		if err != nil {
			writePaymentError(c, err)
			return
		}
		if !deleted {
			httpx.AbortError(c, http.StatusNotFound, "payment not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func writePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrInvalid):
		httpx.AbortError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, payment.ErrNotFound):
		httpx.AbortError(c, http.StatusNotFound, "payment not found")
	default:
		logging.FromContext(c.Request.Context(), nil).Error("payment_store_error", zap.Error(err))
		httpx.AbortError(c, http.StatusInternalServerError, "internal error")
	}
}
