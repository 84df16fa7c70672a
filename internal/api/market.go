package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quantlog/quantlog/internal/domain/dto"
	"github.com/quantlog/quantlog/internal/market"
)

// MarketHandler proxies quote snapshots from the external market-data feed.
type MarketHandler struct {
	client market.Client
}

func NewMarketHandler(client market.Client) *MarketHandler {
	return &MarketHandler{client: client}
}

// GetSnapshot godoc
// @Summary      Market snapshot
// @Description  Relays the current quote for a symbol from the market-data feed
// @Tags         market
// @Produce      json
// @Param        symbol  query     string  true  "Instrument symbol"  example(AAPL)
// @Success      200     {object}  dto.MarketSnapshotResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse           "Bad Request"
// @Failure      502     {object}  dto.ErrorResponse           "Upstream Error"
// @Router       /api/v1/market/snapshot [get]
func (h *MarketHandler) GetSnapshot(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("symbol is required", nil))
		return
	}

	snap, err := h.client.Snapshot(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse("failed to fetch snapshot", err))
		return
	}
	c.JSON(http.StatusOK, snap)
}
