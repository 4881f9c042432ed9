package models

// Notification is a push message about an assignment change.
type Notification struct {
	Topic string            `json:"topic"`
	Type  string            `json:"type"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

const (
	NotificationCleanerAssigned   = "cleaner_assigned"
	NotificationCleanerUnassigned = "cleaner_unassigned"
)
