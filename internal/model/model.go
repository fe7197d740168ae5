package model

// Detail is a single line of a puja's sub-agenda, e.g. "6:30 pm | Aarti".
// Both fields are free text entered by administrators.
type Detail struct {
	Time string `json:"time"`
	Name string `json:"name"`
}

// Puja is one scheduled temple event as stored and served over the API.
//
// Dates are "YYYY-MM-DD" strings and times are free-form clock text
// ("9:00 am", "18:30"); both are interpreted by internal/schedule. EndDate
// and the time fields are optional: an empty EndDate means the event ends on
// StartDate, and empty times mean the event spans the whole day.
type Puja struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	StartDate string   `json:"startDate"`
	StartTime string   `json:"startTime,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	EndTime   string   `json:"endTime,omitempty"`
	Details   []Detail `json:"details"`
	ImageURL  string   `json:"imageUrl,omitempty"`
	IsActive  bool     `json:"isActive"`
}

// EffectiveEndDate returns EndDate, falling back to StartDate when absent.
func (p Puja) EffectiveEndDate() string {
	if p.EndDate != "" {
		return p.EndDate
	}
	return p.StartDate
}

// Role is an administrator privilege level.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
)

// Admin is an administrative account. PasswordHash is a bcrypt hash and is
// never serialized to API responses.
type Admin struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}
