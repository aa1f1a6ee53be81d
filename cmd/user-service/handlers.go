package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/perfulandia/internal/httpx"
	"github.com/MikeMC777/perfulandia/internal/logging"
	"github.com/MikeMC777/perfulandia/internal/user"
)

func registerRoutes(r gin.IRouter, svc *user.Service) {
	r.GET("/users", listUsersHandler(svc))
	r.GET("/users/:id", getUserHandler(svc))
	r.POST("/users", createUserHandler(svc))
	r.PUT("/users/:id", updateUserHandler(svc))
	r.PATCH("/users/:id", patchUserHandler(svc))
	r.DELETE("/users/:id", deleteUserHandler(svc))
}

// listUsersHandler godoc
// @Summary  List users
// @Tags     users
// @Produce  json
// @Param    limit   query     int  false  "page size"
// @Param    offset  query     int  false  "offset"
// @Success  200     {object}  user.ListResponse
// @Router   /users [get]
func listUsersHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := httpx.Page(c)
		items, err := svc.List(c.Request.Context(), limit, offset)
		if err != nil {
			writeUserError(c, err)
			return
		}
		c.JSON(http.StatusOK, user.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// getUserHandler godoc
// @Summary      Get a user
// @Description  The order service uses this route to check that a customer exists.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "user id"
// @Success      200  {object}  user.User
// @Failure      404  {object}  httpx.HTTPError
// @Router       /users/{id} [get]
func getUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		u, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeUserError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// createUserHandler godoc
// @Summary  Create a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    user  body      user.CreateUserRequest  true  "user"
// @Success  201   {object}  user.User
// @Failure  400   {object}  httpx.HTTPError
// @Failure  409   {object}  httpx.HTTPError
// @Router   /users [post]
func createUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		u, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			writeUserError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// updateUserHandler godoc
// @Summary  Update a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    id    path      int                     true  "user id"
// @Param    user  body      user.UpdateUserRequest  true  "fields"
// @Success  200   {object}  user.User
// @Failure  400   {object}  httpx.HTTPError
// @Failure  404   {object}  httpx.HTTPError
// @Failure  409   {object}  httpx.HTTPError
// @Router   /users/{id} [put]
func updateUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		var req user.UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortError(c, http.StatusBadRequest, "invalid json: "+err.Error())
			return
		}
		u, err := svc.Update(c.Request.Context(), id, req)
		if err != nil {
			writeUserError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// patchUserHandler godoc
// @Summary  Partially update a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    id      path      int     true  "user id"
// @Param    fields  body      object  true  "name, email or password"
// @Success  200     {object}  user.User
// @Failure  400     {object}  httpx.HTTPError
// @Failure  404     {object}  httpx.HTTPError
// @Failure  409     {object}  httpx.HTTPError
// @Router   /users/{id} [patch]
func patchUserHandler(svc *user.Service) gin.HandlerFunc {
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
		u, err := svc.Patch(c.Request.Context(), id, body)
		if err != nil {
			writeUserError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func deleteUserHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := httpx.ParseID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			writeUserError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func writeUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidArgument):
		httpx.AbortError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, user.ErrNotFound):
		httpx.AbortError(c, http.StatusNotFound, "user not found")
	case errors.Is(err, user.ErrAlreadyExist):
		httpx.AbortError(c, http.StatusConflict, "email already registered")
	default:
		logging.FromContext(c.Request.Context(), nil).Error("user_store_error", zap.Error(err))
		httpx.AbortError(c, http.StatusInternalServerError, "internal error")
	}
}
