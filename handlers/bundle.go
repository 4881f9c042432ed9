package handlers

import (
	"cleaningmanager/middleware"
)

// HandlerBundle groups the endpoint handlers and the middleware dependencies
// routes need.
type HandlerBundle struct {
	Sessions    middleware.SessionRestorer
	RateLimiter *middleware.RateLimiter

	Auth         *AuthHandler
	Assignments  *AssignmentHandler
	Migration    *MigrationHandler
	Cleaners     *CleanerHandler
	Availability *AvailabilityHandler
	Schedule     *ScheduleHandler
}
