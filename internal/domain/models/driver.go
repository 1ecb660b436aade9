package models

type Driver struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Status     string  `json:"status"`
	Online     bool    `json:"online"`
	Rating     float64 `json:"rating"`
	TotalTrips int     `json:"total_trips"`
	Earnings   float64 `json:"earnings"`
	JoinedAt   string  `json:"joined_at"`
	AvatarURL  string  `json:"avatar_url"`
	Vehicle    Vehicle `json:"vehicle"`
}

type Vehicle struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Plate string `json:"plate"`
	Color string `json:"color"`
}
