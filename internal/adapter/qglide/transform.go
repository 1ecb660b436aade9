package qglide

import (
	"net/url"
	"strings"
	"time"

	"github.com/Temutjin2k/qglide-admin/internal/domain/models"
	"github.com/Temutjin2k/qglide-admin/pkg/envelope"
	"github.com/Temutjin2k/qglide-admin/pkg/record"
)

// Defaults used when no alias yields a value.
const (
	NotAvailable   = "N/A"
	UnknownUser    = "Unknown User"
	UnknownDriver  = "Unknown Driver"
	Unassigned     = "Unassigned"
	NoSubject      = "No Subject"
	SupportSender  = "Support"
	placeholderURL = "https://ui-avatars.com/api/?background=E5E7EB&color=374151&name="
)

// Transformer maps raw backend records onto canonical models. Every field
// has a default, so a transform never fails. Now supplies the current year
// for vehicles without one.
type Transformer struct {
	Now func() time.Time
}

func NewTransformer() Transformer {
	return Transformer{Now: time.Now}
}

func (t Transformer) now() time.Time {
	if t.Now == nil {
		return time.Now()
	}
	return t.Now()
}

// PlaceholderAvatar builds the generated-initials avatar used when a record
// has no picture.
func PlaceholderAvatar(name string) string {
	return placeholderURL + url.QueryEscape(name)
}

func (t Transformer) User(r record.Record) models.User {
	name := personName(r, UnknownUser, "full_name", "name", "username", "user.full_name")
	return models.User{
		ID:         r.String(NotAvailable, "id", "user_id", "uuid"),
		Name:       name,
		Email:      r.String(NotAvailable, "email", "user.email"),
		Phone:      r.String(NotAvailable, "phone", "phone_number", "mobile"),
		Role:       lower(r.String("passenger", "role", "user_type", "type")),
		Status:     lower(r.String("active", "status", "account_status")),
		Rating:     r.Float("rating", "average_rating", "avg_rating"),
		TotalRides: r.Int("total_rides", "rides_count", "trips", "total_trips"),
		TotalSpent: r.Float("total_spent", "lifetime_value", "spent"),
		JoinedAt:   r.String(NotAvailable, "created_at", "joined_at", "join_date"),
		AvatarURL:  r.String(PlaceholderAvatar(name), "avatar_url", "avatar", "profile_picture", "photo_url"),
	}
}

func (t Transformer) Driver(r record.Record) models.Driver {
	name := personName(r, UnknownDriver, "full_name", "name", "driver_name", "user.full_name")
	v := r.Object("vehicle", "car", "vehicle_info")

	return models.Driver{
		ID:         r.String(NotAvailable, "id", "driver_id", "uuid"),
		Name:       name,
		Email:      r.String(NotAvailable, "email", "user.email"),
		Phone:      r.String(NotAvailable, "phone", "phone_number", "mobile"),
		Status:     lower(r.String("offline", "status", "driver_status")),
		Online:     r.Bool("is_online", "online", "available"),
		Rating:     r.Float("rating", "average_rating", "avg_rating"),
		TotalTrips: r.Int("total_trips", "total_rides", "trips", "rides_count"),
		Earnings:   r.Float("total_earnings", "earnings", "revenue"),
		JoinedAt:   r.String(NotAvailable, "created_at", "joined_at", "join_date"),
		AvatarURL:  r.String(PlaceholderAvatar(name), "avatar_url", "avatar", "profile_picture", "photo_url"),
		Vehicle: models.Vehicle{
			Make:  firstString(NotAvailable, v, r, "make", "vehicle_make", "car_make"),
			Model: firstString(NotAvailable, v, r, "model", "vehicle_model", "car_model"),
			Year:  firstInt(t.now().Year(), v, r, "year", "vehicle_year", "car_year"),
			Plate: firstString(NotAvailable, v, r, "plate", "plate_number", "license_plate", "vehicle_plate"),
			Color: firstString(NotAvailable, v, r, "color", "vehicle_color", "car_color"),
		},
	}
}

func (t Transformer) Ride(r record.Record) models.Ride {
	return models.Ride{
		ID:            r.String(NotAvailable, "id", "ride_id", "uuid"),
		Passenger:     r.String(UnknownUser, "passenger_name", "rider_name", "user_name", "passenger.full_name", "passenger.name", "user.full_name"),
		Driver:        r.String(Unassigned, "driver_name", "driver.full_name", "driver.name"),
		Pickup:        r.String(NotAvailable, "pickup_address", "pickup_location", "pickup.address", "pickup", "origin"),
		Dropoff:       r.String(NotAvailable, "dropoff_address", "dropoff_location", "dropoff.address", "destination", "dropoff"),
		Status:        lower(r.String("pending", "status", "ride_status")),
		Fare:          r.Float("fare", "total_fare", "amount", "price"),
		DistanceKm:    r.Float("distance_km", "distance"),
		DurationMin:   r.Float("duration_min", "duration_minutes", "duration"),
		Date:          r.String(NotAvailable, "created_at", "requested_at", "date"),
		PaymentMethod: r.String(NotAvailable, "payment_method", "payment_type", "payment.method"),
		VehicleType:   r.String(NotAvailable, "vehicle_type", "ride_type", "vehicle_class"),
	}
}

func (t Transformer) Ticket(r record.Record) models.Ticket {
	raw := r.Slice("messages", "replies", "conversation", "ticket_messages")
	messages := make([]models.TicketMessage, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, t.Message(record.From(m)))
	}

	return models.Ticket{
		ID:             r.String(NotAvailable, "id", "ticket_id", "uuid"),
		Subject:        r.String(NoSubject, "subject", "title"),
		Description:    r.String("", "description", "message", "body"),
		Requester:      r.String(UnknownUser, "user_name", "customer_name", "requester_name", "user.full_name", "user.name"),
		RequesterEmail: r.String(NotAvailable, "user_email", "customer_email", "email", "user.email"),
		Status:         lower(r.String("open", "status")),
		Priority:       lower(r.String("medium", "priority")),
		Category:       lower(r.String("general", "category", "type")),
		CreatedAt:      r.String(NotAvailable, "created_at", "opened_at"),
		UpdatedAt:      r.String(NotAvailable, "updated_at", "last_activity", "created_at"),
		Messages:       messages,
	}
}

func (t Transformer) Message(r record.Record) models.TicketMessage {
	senderType := lower(r.String("", "sender_type", "author_type", "role"))
	return models.TicketMessage{
		ID:          r.String(NotAvailable, "id", "message_id"),
		Sender:      r.String(SupportSender, "sender_name", "sender", "author", "user_name", "from"),
		Body:        r.String("", "message", "body", "content", "text"),
		FromSupport: r.Bool("is_admin", "from_support", "is_staff") || senderType == "admin" || senderType == "support",
		CreatedAt:   r.String(NotAvailable, "created_at", "timestamp", "sent_at"),
	}
}

var (
	overviewPaths = []envelope.Path{{"data", "overview"}, {"data", "stats"}, {"data"}, {"overview"}, {}}
	seriesPaths   = []envelope.Path{{"data", "series"}, {"series"}, {"data", "chart"}, {"data"}, {"data", "data"}, {}}
)

// Overview reads the dashboard KPIs out of a decoded response body.
func (t Transformer) Overview(body any) models.Overview {
	obj, _ := envelope.Object(body, overviewPaths...)
	r := record.From(obj)

	recent := r.Slice("recent_rides", "recentRides", "rides.recent", "latest_rides")
	rides := make([]models.Ride, 0, len(recent))
	for _, raw := range recent {
		rides = append(rides, t.Ride(record.From(raw)))
	}

	return models.Overview{
		TotalRides:     r.Int("total_rides", "totalRides", "rides.total"),
		TotalUsers:     r.Int("total_users", "totalUsers", "users.total"),
		TotalDrivers:   r.Int("total_drivers", "totalDrivers", "drivers.total"),
		ActiveDrivers:  r.Int("active_drivers", "online_drivers", "drivers.active", "drivers.online"),
		TotalRevenue:   r.Float("total_revenue", "totalRevenue", "revenue.total", "revenue"),
		PendingTickets: r.Int("pending_tickets", "open_tickets", "tickets.pending", "tickets.open"),
		RidesToday:     r.Int("rides_today", "today_rides", "today.rides"),
		RevenueToday:   r.Float("revenue_today", "today_revenue", "today.revenue"),
		RecentRides:    rides,
	}
}

// Analytics reads a ride/revenue time series out of a decoded response body.
func (t Transformer) Analytics(body any, timeframe string) models.Analytics {
	raw, _ := envelope.NewResolver(seriesPaths...).Unwrap(body)

	points := make([]models.AnalyticsPoint, 0, len(raw))
	for _, p := range raw {
		r := record.From(p)
		points = append(points, models.AnalyticsPoint{
			Label:   r.String(NotAvailable, "label", "date", "day", "period", "month", "name"),
			Rides:   r.Int("rides", "total_rides", "ride_count", "count"),
			Revenue: r.Float("revenue", "total_revenue", "amount", "earnings"),
		})
	}

	tf := record.From(body).String(timeframe, "timeframe", "data.timeframe")
	return models.Analytics{Timeframe: lower(tf), Series: points}
}

// personName tries the full-name aliases first, then first_name + last_name.
func personName(r record.Record, def string, keys ...string) string {
	if name := r.String("", keys...); name != "" {
		return name
	}
	first := r.String("", "first_name", "firstname")
	last := r.String("", "last_name", "lastname")
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return def
}

// firstString looks in a nested object first and then on the parent record.
func firstString(def string, nested, parent record.Record, keys ...string) string {
	if s := nested.String("", keys...); s != "" {
		return s
	}
	return parent.String(def, keys...)
}

func firstInt(def int, nested, parent record.Record, keys ...string) int {
	for _, key := range keys {
		if v, ok := nested.Value(key); ok {
			if f, ok := record.ToFloat(v); ok {
				return int(f)
			}
		}
	}
	return parent.IntOr(def, keys...)
}

func lower(s string) string {
	return strings.ToLower(s)
}
