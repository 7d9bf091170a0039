package models

import "time"

// Campaign is an outreach campaign. Status is free-form (draft, active,
// paused, ...); no lifecycle is enforced beyond tenant scoping.
type Campaign struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Channels    StringList `json:"channels"`
	ListID      string     `json:"listId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
