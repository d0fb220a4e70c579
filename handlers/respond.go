// Package handlers is the HTTP boundary: request binding, owner
// scoping, and the single place where domain errors become statuses.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"fintrack/api/ledger"
	"fintrack/api/logger"
	"fintrack/api/middleware"
	"fintrack/api/models"
	"fintrack/api/reports"
	"fintrack/api/scope"
	"fintrack/api/store"
	"fintrack/api/uploads"
)

// API bundles the collaborators every handler needs.
type API struct {
	Engine   *ledger.Engine
	Reporter *reports.Reporter
	Store    store.Store
	Uploads  *uploads.Store
}

func caller(c *gin.Context) (models.Caller, bool) {
	v, exists := c.Get(middleware.CallerKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return models.Caller{}, false
	}
	cl, ok := v.(models.Caller)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid caller identity"})
		return models.Caller{}, false
	}
	return cl, true
}

// fieldError is one entry of the structured validation error list.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindingErrors turns a gin binding failure into the field-error list
// the API surfaces for malformed input.
func bindingErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{Field: fe.Field(), Message: "failed on " + fe.Tag()})
	}
	return out
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
}

func respondFieldErrors(c *gin.Context, errs ...fieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
}

// respondError maps a domain error to its status. Anything outside the
// taxonomy is a backend failure: logged, and hidden behind a generic
// message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, ledger.ErrForbidden), errors.Is(err, scope.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, ledger.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Salary for this user/month/year already exists"})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient remaining salary to cover this expense"})
	case errors.Is(err, ledger.ErrNoPeriod),
		errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, uploads.ErrTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		logger.Get().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}
