// Package normalize turns loosely-typed contact records, as uploaded by
// clients or produced by the automation engine, into canonical contacts.
package normalize

import (
	"fmt"
	"strings"

	"github.com/mnfst/outreach/internal/models"
)

// Record is one raw inbound contact row. Keys vary by upload source; the
// alias table below maps every historical spelling to its canonical field.
type Record map[string]any

// Defaults are batch-level fallbacks, applied only to location and job
// title when the record value is missing or the "N/A" placeholder.
type Defaults struct {
	JobTitle string
	Location string
}

// placeholder is the value upstream spreadsheets use for "unknown".
const placeholder = "N/A"

// fieldAliases maps each canonical field to its accepted spellings, in
// preference order. The camelCase form always wins when present.
var fieldAliases = map[string][]string{
	"fullName":       {"fullName", "full_name", "Full name", "Full Name"},
	"firstName":      {"firstName", "first_name", "First name", "First Name"},
	"lastName":       {"lastName", "last_name", "Last name", "Last Name"},
	"location":       {"location", "Location"},
	"jobTitle":       {"jobTitle", "job_title", "Job title", "Job Title"},
	"company":        {"company", "Company"},
	"email":          {"email", "Email"},
	"phone":          {"phone", "Phone"},
	"linkedin":       {"linkedin", "LinkedIn", "Linkedin"},
	"facebook":       {"facebook", "Facebook"},
	"twitter":        {"twitter", "Twitter"},
	"instagram":      {"instagram", "Instagram"},
	"whatsapp":       {"whatsapp", "WhatsApp", "Whatsapp"},
	"tiktok":         {"tiktok", "TikTok", "Tiktok"},
	"employeeNumber": {"employeeNumber", "employee_number", "Employee Number"},
	"industry":       {"industry", "Industry"},
}

// Field resolves a canonical field from a record. The "N/A" placeholder
// reads as absent.
func (r Record) Field(name string) string {
	for _, key := range fieldAliases[name] {
		v, ok := r[key]
		if !ok {
			continue
		}
		s := asString(v)
		if s == "" || s == placeholder {
			continue
		}
		return s
	}
	return ""
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case nil:
		return ""
	case float64, int, int64, bool:
		return fmt.Sprintf("%v", s)
	default:
		return ""
	}
}

// Contact builds the canonical contact draft for one record. Pure: no id,
// tenant, list or timestamps are assigned here.
func Contact(rec Record, defaults Defaults) models.Contact {
	c := models.Contact{
		FullName:       rec.Field("fullName"),
		FirstName:      rec.Field("firstName"),
		LastName:       rec.Field("lastName"),
		Location:       rec.Field("location"),
		JobTitle:       rec.Field("jobTitle"),
		Company:        rec.Field("company"),
		Email:          rec.Field("email"),
		Phone:          rec.Field("phone"),
		LinkedIn:       rec.Field("linkedin"),
		Facebook:       rec.Field("facebook"),
		Twitter:        rec.Field("twitter"),
		Instagram:      rec.Field("instagram"),
		WhatsApp:       rec.Field("whatsapp"),
		TikTok:         rec.Field("tiktok"),
		EmployeeNumber: rec.Field("employeeNumber"),
		Industry:       rec.Field("industry"),
	}

	if c.FullName == "" {
		c.FullName = strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	if c.Location == "" {
		c.Location = defaults.Location
	}
	if c.JobTitle == "" {
		c.JobTitle = defaults.JobTitle
	}

	c.AvailableChannels = AvailableChannels(&c)
	return c
}
