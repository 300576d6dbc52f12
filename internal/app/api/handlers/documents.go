package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/internal/app/service/document"
	"github.com/subtrackhq/subtrack/pkg/response"
)

// @Summary      List Subscription Documents
// @Tags         Documents
// @Produce      json
// @Param        subscription_id  query  string  true  "Subscription id"
// @Success      200  {object}  response.APIResponse[[]models.SubscriptionDocument]
// @Router       /api/v1/documents [get]
func ApiListDocuments(doc *document.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerProfile(c, dir); !ok {
			return
		}
		subscriptionID := c.Query("subscription_id")
		if subscriptionID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id"))
			return
		}
		docs, err := doc.List(c.Request.Context(), subscriptionID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(docs))
	}
}

type UploadDocumentRequest struct {
	SubscriptionID string `json:"subscription_id"`
	File           string `json:"file"`
	FileName       string `json:"file_name"`
}

// @Summary      Upload Document
// @Description  Attaches a base64 data-URL file (max 2MB decoded) to a subscription.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request body UploadDocumentRequest true "Data-URL file"
// @Success      200  {object}  response.APIResponse[models.SubscriptionDocument]
// @Router       /api/v1/documents [post]
func ApiUploadDocument(doc *document.Service, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerProfile(c, dir)
		if !ok {
			return
		}
		var req UploadDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		item, err := doc.Upload(c.Request.Context(), req.SubscriptionID, req.File, req.FileName, caller.ID)
		if err != nil {
			writeErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(item))
	}
}

func RegisterDocumentRoutes(r gin.IRouter, doc *document.Service, dir *directory.Service) {
	r.GET("/documents", ApiListDocuments(doc, dir))
	r.POST("/documents", ApiUploadDocument(doc, dir))
}
