package models

import "time"

// Contact is a single outreach target. TenantID is set at creation and
// never changes. AvailableChannels is derived once, when the contact is
// created, from whichever contact fields validate; ContactChannels,
// LastContactChannel and LastContactedAt record outreach history and are
// written by campaign execution, not by this pipeline.
type Contact struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	ListID   string `json:"listId,omitempty"`
	ListName string `json:"listName,omitempty"`

	FullName  string `json:"fullName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Location  string `json:"location"`
	JobTitle  string `json:"jobTitle"`
	Company   string `json:"company"`

	Email     string `json:"email"`
	Phone     string `json:"phone"`
	LinkedIn  string `json:"linkedin"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	WhatsApp  string `json:"whatsapp"`
	TikTok    string `json:"tiktok"`

	EmployeeNumber string `json:"employeeNumber"`
	Industry       string `json:"industry"`

	Campaigns          StringList `json:"campaigns"`
	LastCampaign       string     `json:"lastCampaign,omitempty"`
	ContactChannels    StringList `json:"contactChannels"`
	LastContactChannel string     `json:"lastContactChannel,omitempty"`
	LastContactedAt    *time.Time `json:"lastContactedAt,omitempty"`
	AvailableChannels  StringList `json:"availableChannels"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContactFilter narrows contact queries. TenantID is always required.
type ContactFilter struct {
	TenantID string
	ListID   string
	Email    string
}
