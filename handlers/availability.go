package handlers

import (
	"errors"
	"net/http"
	"strings"

	"cleaningmanager/database/store"
	"cleaningmanager/middleware"
	"cleaningmanager/services/availability"
	"cleaningmanager/services/cleaner"
	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves availability records and the shareable links
// cleaners use to submit them without an account.
type AvailabilityHandler struct {
	Availability availability.AvailabilityService
	Cleaners     cleaner.CleanerService
}

func NewAvailabilityHandler(as availability.AvailabilityService, cs cleaner.CleanerService) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: as, Cleaners: cs}
}

type datesRequest struct {
	Dates []string `json:"dates"`
}

type createLinkRequest struct {
	CleanerID string `json:"cleanerId" binding:"required"`
	Month     string `json:"month" binding:"required"`
}

// canAccess lets admins reach every record and cleaners their own: the
// cleaner whose id is the caller's uid or whose email matches the caller's.
func (h *AvailabilityHandler) canAccess(c *gin.Context, cleanerID string) bool {
	session := middleware.CurrentSession(c)
	if session == nil {
		return false
	}
	if session.IsAdmin() || cleanerID == session.UID {
		return true
	}
	cl, err := h.Cleaners.Get(c.Request.Context(), cleanerID)
	if err != nil {
		return false
	}
	return cl.Email != "" && strings.EqualFold(cl.Email, session.User.Email)
}

func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	cleanerID := c.Param("cleanerId")
	if !h.canAccess(c, cleanerID) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to view this availability", "")
		return
	}
	record, err := h.Availability.GetCleanerAvailability(c.Request.Context(), cleanerID, c.Param("month"))
	if err != nil {
		utils.RespondError(c, "Failed to load availability", err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *AvailabilityHandler) UpdateAvailabilityHandler(c *gin.Context) {
	cleanerID := c.Param("cleanerId")
	if !h.canAccess(c, cleanerID) {
		utils.JSONError(c, http.StatusForbidden, "Not allowed to change this availability", "")
		return
	}
	var req datesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	record, err := h.Availability.UpdateAvailability(c.Request.Context(), cleanerID, c.Param("month"), req.Dates)
	if err != nil {
		utils.RespondError(c, "Failed to save availability", err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// MonthAvailabilityHandler returns every cleaner's record for ?month=.
func (h *AvailabilityHandler) MonthAvailabilityHandler(c *gin.Context) {
	records, err := h.Availability.GetMonth(c.Request.Context(), c.Query("month"))
	if err != nil {
		utils.RespondError(c, "Failed to load availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": records})
}

func (h *AvailabilityHandler) CreateLinkHandler(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	ctx := c.Request.Context()
	cl, err := h.Cleaners.Get(ctx, req.CleanerID)
	if err != nil {
		utils.RespondError(c, "Failed to create link", err)
		return
	}
	link, err := h.Availability.CreateLink(ctx, cl.ID, cl.Name, req.Month)
	if err != nil {
		utils.RespondError(c, "Failed to create link", err)
		return
	}
	getLogger(c).Info("Availability link created", zap.String("cleanerId", cl.ID), zap.String("month", req.Month))
	c.JSON(http.StatusCreated, link)
}

func (h *AvailabilityHandler) ListLinksHandler(c *gin.Context) {
	links, err := h.Availability.ListLinks(c.Request.Context())
	if err != nil {
		utils.RespondError(c, "Failed to load links", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

func (h *AvailabilityHandler) DeactivateLinkHandler(c *gin.Context) {
	if err := h.Availability.DeactivateLink(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, "Failed to deactivate link", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link deactivated"})
}

// PublicLinkHandler resolves an active link token with the cleaner's current
// record for the link's month.
func (h *AvailabilityHandler) PublicLinkHandler(c *gin.Context) {
	ctx := c.Request.Context()
	link, err := h.Availability.GetLinkByToken(ctx, c.Param("token"))
	if err != nil {
		respondLinkError(c, err)
		return
	}
	record, err := h.Availability.GetCleanerAvailability(ctx, link.CleanerID, link.Month)
	if err != nil {
		utils.RespondError(c, "Failed to load availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cleanerName":    link.CleanerName,
		"month":          link.Month,
		"availableDates": record.AvailableDates,
	})
}

func (h *AvailabilityHandler) SubmitViaLinkHandler(c *gin.Context) {
	var req datesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	record, err := h.Availability.SubmitViaLink(c.Request.Context(), c.Param("token"), req.Dates)
	if err != nil {
		respondLinkError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// respondLinkError hides whether a token never existed or was deactivated.
func respondLinkError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Link not found or no longer active", "")
		return
	}
	utils.RespondError(c, "Failed to process link", err)
}
