package handlers

import (
	"net/http"

	"cleaningmanager/services/cleaner"
	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CleanerHandler manages the cleaning roster.
type CleanerHandler struct {
	Cleaners cleaner.CleanerService
}

func NewCleanerHandler(cs cleaner.CleanerService) *CleanerHandler {
	return &CleanerHandler{Cleaners: cs}
}

// ListCleanersHandler returns the assignable cleaners, or the whole roster
// with ?all=true.
func (h *CleanerHandler) ListCleanersHandler(c *gin.Context) {
	list := h.Cleaners.ListActive
	if c.Query("all") == "true" {
		list = h.Cleaners.ListAll
	}
	cleaners, err := list(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to load cleaners", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleaners": cleaners})
}

func (h *CleanerHandler) GetCleanerHandler(c *gin.Context) {
	cl, err := h.Cleaners.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, "Failed to load cleaner", err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h *CleanerHandler) CreateCleanerHandler(c *gin.Context) {
	var req cleaner.CreateCleanerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	cl, err := h.Cleaners.Create(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, "Failed to create cleaner", err)
		return
	}
	getLogger(c).Info("Cleaner created", zap.String("cleanerId", cl.ID))
	c.JSON(http.StatusCreated, cl)
}

func (h *CleanerHandler) UpdateCleanerHandler(c *gin.Context) {
	var req cleaner.UpdateCleanerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	cl, err := h.Cleaners.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, "Failed to update cleaner", err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

// DeleteCleanerHandler deactivates the cleaner; the record is kept.
func (h *CleanerHandler) DeleteCleanerHandler(c *gin.Context) {
	if err := h.Cleaners.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, "Failed to delete cleaner", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cleaner deactivated"})
}
