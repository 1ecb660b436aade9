package models

type Ride struct {
	ID            string  `json:"id"`
	Passenger     string  `json:"passenger"`
	Driver        string  `json:"driver"`
	Pickup        string  `json:"pickup"`
	Dropoff       string  `json:"dropoff"`
	Status        string  `json:"status"`
	Fare          float64 `json:"fare"`
	DistanceKm    float64 `json:"distance_km"`
	DurationMin   float64 `json:"duration_min"`
	Date          string  `json:"date"`
	PaymentMethod string  `json:"payment_method"`
	VehicleType   string  `json:"vehicle_type"`
}
