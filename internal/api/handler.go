package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quantlog/quantlog/internal/domain/dto"
	"github.com/quantlog/quantlog/internal/domain/models"
	"github.com/quantlog/quantlog/internal/service"
	"github.com/quantlog/quantlog/internal/storage"
)

// Handler provides HTTP handlers for journal endpoints.
//
// Responsibilities:
//   - Validate incoming bodies and query parameters
//   - Call the service layer
//   - Translate results and errors into JSON responses with proper status codes
type Handler struct {
	svc service.JournalService
}

// NewHandler constructs a Handler around the journal service.
func NewHandler(svc service.JournalService) *Handler {
	return &Handler{svc: svc}
}

// userIDParam validates the user_id query parameter shared by the list and
// statistics endpoints.
func userIDParam(c *gin.Context) (string, bool) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("user_id is required", nil))
		return "", false
	}
	return userID, true
}

// CreateTrade godoc
// @Summary      Journal a trade
// @Description  Records a closed trade in the journal
// @Tags         trades
// @Accept       json
// @Produce      json
// @Param        trade  body      dto.CreateTradeRequest  true  "Trade to record"
// @Success      201    {object}  models.Trade            "Created"
// @Failure      400    {object}  dto.ErrorResponse       "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/trades [post]
func (h *Handler) CreateTrade(c *gin.Context) {
	var req dto.CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid trade", err))
		return
	}

	trade, err := h.svc.CreateTrade(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to record trade", err))
		return
	}
	c.JSON(http.StatusCreated, trade)
}

// ListTrades godoc
// @Summary      List journaled trades
// @Description  Returns the user's trades in journal order (oldest first)
// @Tags         trades
// @Produce      json
// @Param        user_id  query     string  true  "User identifier"
// @Success      200      {array}   models.Trade       "Success"
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/trades [get]
func (h *Handler) ListTrades(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	trades, err := h.svc.ListTrades(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list trades", err))
		return
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	c.JSON(http.StatusOK, trades)
}

// DeleteTrade godoc
// @Summary      Delete a trade
// @Tags         trades
// @Produce      json
// @Param        id   path      string  true  "Trade ID"
// @Success      204  "No Content"
// @Failure      400  {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404  {object}  dto.ErrorResponse  "Not Found"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/trades/{id} [delete]
func (h *Handler) DeleteTrade(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid trade id", err))
		return
	}

	err := h.svc.DeleteTrade(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("trade not found", nil))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to delete trade", err))
		return
	}
	c.Status(http.StatusNoContent)
}

// GetStatistics godoc
// @Summary      Aggregate statistics
// @Description  Computes performance statistics over the user's journal plus active capital
// @Tags         statistics
// @Produce      json
// @Param        user_id  query     string  true  "User identifier"
// @Success      200      {object}  models.Statistics  "Success"
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	stats, err := h.svc.GetStatistics(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to compute statistics", err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreateSession godoc
// @Summary      Open a trading session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        session  body      dto.CreateSessionRequest  true  "Session to open"
// @Success      201      {object}  models.Session     "Created"
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body", err))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid session", err))
		return
	}

	session, err := h.svc.CreateSession(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to open session", err))
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessions godoc
// @Summary      List trading sessions
// @Tags         sessions
// @Produce      json
// @Param        user_id  query     string  true  "User identifier"
// @Success      200      {array}   models.Session     "Success"
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/sessions [get]
func (h *Handler) ListSessions(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	sessions, err := h.svc.ListSessions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to list sessions", err))
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	c.JSON(http.StatusOK, sessions)
}

// CloseSession godoc
// @Summary      Close a trading session
// @Description  Closed sessions stop contributing to active capital
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      204  "No Content"
// @Failure      404  {object}  dto.ErrorResponse  "Not Found"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/sessions/{id}/close [post]
func (h *Handler) CloseSession(c *gin.Context) {
	err := h.svc.CloseSession(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("active session not found", nil))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to close session", err))
		return
	}
	c.Status(http.StatusNoContent)
}
