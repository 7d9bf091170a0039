package models

import "time"

// List is a named collection of contacts owned by one tenant. Deleting a
// list does not cascade to its contacts.
type List struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Tags        StringList `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
