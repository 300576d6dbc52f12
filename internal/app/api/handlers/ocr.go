package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/internal/platform/ocr"
	"github.com/subtrackhq/subtrack/pkg/response"
)

type ScanImageRequest struct {
	Image string `json:"image"`
}

// @Summary      Scan Subscription Screenshot
// @Description  Sends a base64 data-URL screenshot to Gemini and returns a sparse field guess for form pre-fill. Fields the model could not read are omitted.
// @Tags         OCR
// @Accept       json
// @Produce      json
// @Param        request body ScanImageRequest true "Base64 data-URL image"
// @Success      200  {object}  response.APIResponse[ocr.FieldGuess]
// @Router       /api/v1/ocr/scan [post]
func ApiScanImage(client *ocr.Client, dir *directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := callerProfile(c, dir); !ok {
			return
		}
		var req ScanImageRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing image"))
			return
		}
		guess, err := client.Scan(c.Request.Context(), req.Image)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(guess))
	}
}

func RegisterOCRRoutes(r gin.IRouter, client *ocr.Client, dir *directory.Service) {
	r.POST("/ocr/scan", ApiScanImage(client, dir))
}
