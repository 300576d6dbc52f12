package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/subtrackhq/subtrack/internal/app/api/middleware"
	"github.com/subtrackhq/subtrack/internal/app/service/approval"
	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/internal/app/service/document"
	"github.com/subtrackhq/subtrack/internal/app/service/notification"
	"github.com/subtrackhq/subtrack/internal/app/service/subscription"
	models "github.com/subtrackhq/subtrack/internal/models"
	"github.com/subtrackhq/subtrack/pkg/response"
)

// errCode maps service errors onto envelope codes. Unknown errors stay
// generic.
func errCode(err error) response.APIResponseCode {
	var validationErr *subscription.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, approval.ErrNotFound),
		errors.Is(err, approval.ErrSubscriptionNotFound),
		errors.Is(err, subscription.ErrNotFound),
		errors.Is(err, directory.ErrProfileNotFound),
		errors.Is(err, directory.ErrDepartmentNotFound),
		errors.Is(err, document.ErrSubscriptionNotFound),
		errors.Is(err, notification.ErrNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, approval.ErrAlreadyResolved),
		errors.Is(err, approval.ErrPendingExists):
		return response.APIResponseCodeConflict
	case errors.Is(err, document.ErrInvalidFile),
		errors.Is(err, document.ErrFileTooLarge):
		return response.APIResponseCodeBadRequest
	}
	return response.APIResponseCodeError
}

func writeErr(c *gin.Context, err error) {
	c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
}

// callerProfile resolves the authenticated caller to a profile row,
// creating it on first sight. Returns false after writing the error
// response.
func callerProfile(c *gin.Context, dir *directory.Service) (*models.Profile, bool) {
	ident := mw.CallerIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "no caller identity"))
		return nil, false
	}
	profile, err := dir.EnsureProfile(c.Request.Context(), ident.UserID, ident.Email, ident.Name)
	if err != nil {
		writeErr(c, err)
		return nil, false
	}
	return profile, true
}

func forbid(c *gin.Context) {
	c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeForbidden, "insufficient role"))
}
