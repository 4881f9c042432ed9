package models

import "time"

// CleanerAvailability lists the dates a cleaner can work in one month.
// There is at most one record per (CleanerID, Month).
type CleanerAvailability struct {
	ID             string    `mapstructure:"id" json:"id,omitempty"`
	CleanerID      string    `mapstructure:"cleanerId" json:"cleanerId" validate:"required"`
	Month          string    `mapstructure:"month" json:"month" validate:"required,datetime=2006-01"`                    // "YYYY-MM"
	AvailableDates []string  `mapstructure:"availableDates" json:"availableDates" validate:"dive,datetime=2006-01-02"` // "YYYY-MM-DD"
	CreatedAt      time.Time `mapstructure:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt      time.Time `mapstructure:"updatedAt" json:"updatedAt,omitempty"`
}

func (a CleanerAvailability) Fields() map[string]any {
	dates := a.AvailableDates
	if dates == nil {
		dates = []string{}
	}
	return map[string]any{
		"cleanerId":      a.CleanerID,
		"month":          a.Month,
		"availableDates": dates,
	}
}

// AvailabilityLink lets someone without an account submit availability for
// one cleaner and month.
type AvailabilityLink struct {
	ID          string    `mapstructure:"id" json:"id"`
	CleanerID   string    `mapstructure:"cleanerId" json:"cleanerId" validate:"required"`
	CleanerName string    `mapstructure:"cleanerName" json:"cleanerName"`
	Month       string    `mapstructure:"month" json:"month" validate:"required,datetime=2006-01"`
	UniqueLink  string    `mapstructure:"uniqueLink" json:"uniqueLink" validate:"required"` // Shareable token
	IsActive    bool      `mapstructure:"isActive" json:"isActive"`
	CreatedAt   time.Time `mapstructure:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt   time.Time `mapstructure:"updatedAt" json:"updatedAt,omitempty"`
}

func (l AvailabilityLink) Fields() map[string]any {
	return map[string]any{
		"cleanerId":   l.CleanerID,
		"cleanerName": l.CleanerName,
		"month":       l.Month,
		"uniqueLink":  l.UniqueLink,
		"isActive":    l.IsActive,
	}
}
