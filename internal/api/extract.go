package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quantlog/quantlog/internal/ai"
	"github.com/quantlog/quantlog/internal/domain/dto"
)

// ExtractHandler exposes AI trade-field extraction from screenshots.
type ExtractHandler struct {
	extractor ai.Extractor
}

func NewExtractHandler(extractor ai.Extractor) *ExtractHandler {
	return &ExtractHandler{extractor: extractor}
}

// ExtractTrade godoc
// @Summary      Extract trade fields from a screenshot
// @Description  Sends the screenshot URL to the AI model and returns the trade fields it recognized
// @Tags         extraction
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ExtractionRequest  true  "Screenshot reference"
// @Success      200      {object}  dto.ExtractionResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse       "Bad Request"
// @Failure      502      {object}  dto.ErrorResponse       "Upstream Error"
// @Router       /api/v1/extract [post]
func (h *ExtractHandler) ExtractTrade(c *gin.Context) {
	var req dto.ExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}

	out, err := h.extractor.ExtractTrade(c.Request.Context(), req.ImageURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("extraction failed", err))
		return
	}
	c.JSON(http.StatusOK, out)
}
