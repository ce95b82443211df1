// Package handler contains the gin handlers of the WMS API. Handlers bind
// and check request shape, call one application service and render the
// response envelope.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/interfaces/http/dto"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response, deriving the status code from the error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// BindError reports a failed ShouldBind call. Validator errors carry
// per-field details; anything else is malformed input.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); details != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed",
			middleware.GetRequestID(c),
			details,
		))
		return
	}
	h.BadRequest(c, "Invalid request body")
}

// HandleError converts domain errors to HTTP responses. Anything that is
// not a domain error is logged and answered with a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// pathID parses a positive integer path parameter. On failure it answers
// 400 naming the parameter and returns false.
func (h *BaseHandler) pathID(c *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		h.Error(c, dto.ErrCodeInvalidInput, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// respondPage sends one page of results with pagination meta
func respondPage[T any](c *gin.Context, page shared.Paginated[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(items, page.Total, page.Page, page.PageSize))
}
