package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/wms/backend/internal/application/identity"
	appshared "github.com/wms/backend/internal/application/shared"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user self-service and administration. Access rules
// are enforced by the service with the caller's actor.
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	var filter appshared.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.userService.List(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// GetByID handles GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id", "user")
	if !ok {
		return
	}
	var req identityapp.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id", "user")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
