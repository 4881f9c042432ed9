package handlers

import (
	"net/http"

	"cleaningmanager/middleware"
	"cleaningmanager/models"
	"cleaningmanager/services/assignment"
	"cleaningmanager/services/tasks"
	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssignmentHandler exposes assignment listing, booking sync and cleaner
// assignment. Cleaner changes go through the board so the schedule view stays
// consistent with them.
type AssignmentHandler struct {
	Assignments assignment.AssignmentService
	Board       *assignment.Board
	// Queue is nil when background sync is disabled.
	Queue tasks.Enqueuer
}

func NewAssignmentHandler(svc assignment.AssignmentService, board *assignment.Board, queue tasks.Enqueuer) *AssignmentHandler {
	return &AssignmentHandler{Assignments: svc, Board: board, Queue: queue}
}

type bookingBatch struct {
	Bookings []models.Booking `json:"bookings" binding:"required"`
}

type cleanerRequest struct {
	CleanerID   string `json:"cleanerId" binding:"required"`
	CleanerName string `json:"cleanerName" binding:"required"`
}

// ListAssignmentsHandler returns every assignment, or those cleaned on ?date=,
// or the single record named by ?id=.
func (h *AssignmentHandler) ListAssignmentsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if id := c.Query("id"); id != "" {
		a, err := h.Assignments.GetAssignment(ctx, id)
		if err != nil {
			utils.RespondError(c, "Failed to load assignment", err)
			return
		}
		c.JSON(http.StatusOK, a)
		return
	}

	all, err := h.Assignments.ListAssignments(ctx)
	if err != nil {
		utils.RespondError(c, "Failed to load assignments", err)
		return
	}
	if date := c.Query("date"); date != "" {
		filtered := []models.CleaningAssignment{}
		for _, a := range all {
			if a.MatchesDate(date) {
				filtered = append(filtered, a)
			}
		}
		all = filtered
	}
	c.JSON(http.StatusOK, gin.H{"assignments": all})
}

// SyncHandler creates missing assignments for the posted bookings. With
// ?async=true the batch is queued for the background worker instead.
func (h *AssignmentHandler) SyncHandler(c *gin.Context) {
	var req bookingBatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	ctx := c.Request.Context()

	if c.Query("async") == "true" {
		if h.Queue == nil {
			utils.JSONError(c, http.StatusServiceUnavailable, "Background sync is disabled", "")
			return
		}
		payload := tasks.SyncBookingsPayload{Bookings: req.Bookings}
		if session := middleware.CurrentSession(c); session != nil {
			payload.RequestedBy = session.UID
		}
		taskID, err := tasks.EnqueueSync(ctx, h.Queue, payload)
		if err != nil {
			getLogger(c).Error("Failed to enqueue sync", zap.Error(err))
			utils.JSONError(c, http.StatusServiceUnavailable, "Failed to queue sync", "")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"taskId": taskID})
		return
	}

	result, err := h.Assignments.SyncFromBookings(ctx, req.Bookings)
	if err != nil {
		utils.RespondError(c, "Failed to sync assignments", err)
		return
	}
	h.Board.Invalidate()
	c.JSON(http.StatusOK, result)
}

func (h *AssignmentHandler) ReconcileHandler(c *gin.Context) {
	var req bookingBatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	result, err := h.Assignments.ReconcileBookingDates(c.Request.Context(), req.Bookings)
	if err != nil {
		utils.RespondError(c, "Failed to reconcile booking dates", err)
		return
	}
	h.Board.Invalidate()
	c.JSON(http.StatusOK, result)
}

func (h *AssignmentHandler) AssignCleanerHandler(c *gin.Context) {
	var req cleanerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	a, err := h.Board.AssignCleaner(c.Request.Context(), c.Param("date"), c.Param("bookingId"), req.CleanerID, req.CleanerName)
	if err != nil {
		utils.RespondError(c, "Failed to assign cleaner", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AssignmentHandler) UnassignCleanerHandler(c *gin.Context) {
	a, err := h.Board.UnassignCleaner(c.Request.Context(), c.Param("date"), c.Param("bookingId"))
	if err != nil {
		utils.RespondError(c, "Failed to unassign cleaner", err)
		return
	}
	c.JSON(http.StatusOK, a)
}
