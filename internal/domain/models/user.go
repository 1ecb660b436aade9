package models

// User is the canonical passenger/customer record shown in the console.
type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Role       string  `json:"role"`
	Status     string  `json:"status"`
	Rating     float64 `json:"rating"`
	TotalRides int     `json:"total_rides"`
	TotalSpent float64 `json:"total_spent"`
	JoinedAt   string  `json:"joined_at"`
	AvatarURL  string  `json:"avatar_url"`
}

// UserInput carries the editable user fields for create and update calls.
// Empty fields are left out of update payloads.
type UserInput struct {
	Name     string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`
	Status   string `json:"status,omitempty"`
	Password string `json:"password,omitempty"`
}
