package handlers

import (
	"net/http"
	"time"

	"cleaningmanager/services/assignment"
	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves the calendar's day view from the board cache.
type ScheduleHandler struct {
	Board *assignment.Board
}

func NewScheduleHandler(board *assignment.Board) *ScheduleHandler {
	return &ScheduleHandler{Board: board}
}

func (h *ScheduleHandler) DayHandler(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "date must be YYYY-MM-DD")
		return
	}
	if err := h.Board.EnsureFresh(c.Request.Context()); err != nil {
		utils.RespondError(c, "Failed to load schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":              date,
		"assignments":       h.Board.AssignmentsForDate(date),
		"availableCleaners": h.Board.AvailableCleaners(date),
	})
}
