package handlers

import (
	"net/http"

	"cleaningmanager/services/assignment"
	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MigrationHandler drives the legacy id migration. Apply and cleanup are
// separate calls; cleanup only deletes the ids it is given.
type MigrationHandler struct {
	Assignments assignment.AssignmentService
	Board       *assignment.Board
}

func NewMigrationHandler(svc assignment.AssignmentService, board *assignment.Board) *MigrationHandler {
	return &MigrationHandler{Assignments: svc, Board: board}
}

func (h *MigrationHandler) PlanHandler(c *gin.Context) {
	plan, err := h.Assignments.PlanMigration(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to plan migration", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ApplyHandler plans against the current records and applies the plan.
func (h *MigrationHandler) ApplyHandler(c *gin.Context) {
	ctx := c.Request.Context()
	plan, err := h.Assignments.PlanMigration(ctx)
	if err != nil {
		utils.RespondError(c, "Failed to plan migration", err)
		return
	}
	result, err := h.Assignments.ApplyMigration(ctx, plan)
	if err != nil {
		utils.RespondError(c, "Failed to apply migration", err)
		return
	}
	h.Board.Invalidate()
	getLogger(c).Info("Migration applied",
		zap.Int("created", result.Created), zap.Int("alreadyPresent", result.AlreadyPresent), zap.Int("failed", result.Failed))
	c.JSON(http.StatusOK, gin.H{"plan": plan, "result": result})
}

func (h *MigrationHandler) LegacyIDsHandler(c *gin.Context) {
	ids, err := h.Assignments.LegacyIDs(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to list legacy records", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ids": ids})
}

type cleanupRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (h *MigrationHandler) CleanupHandler(c *gin.Context) {
	var req cleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	result, err := h.Assignments.DeleteLegacyRecords(c.Request.Context(), req.IDs)
	if err != nil {
		utils.RespondError(c, "Failed to delete legacy records", err)
		return
	}
	h.Board.Invalidate()
	c.JSON(http.StatusOK, result)
}
