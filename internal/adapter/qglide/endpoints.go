package qglide

// Backend endpoints, relative to the configured base URL.
const (
	endpointLogin              = "/auth/token"
	endpointLogout             = "/admin-logout"
	endpointOverview           = "/admin-dashboard-overview"
	endpointRidesAnalytics     = "/admin-rides-analytics"
	endpointRidesList          = "/admin-rides-list"
	endpointRideDetails        = "/admin-ride-details"
	endpointDriversList        = "/admin-drivers-list"
	endpointUsersList          = "/admin-users-list"
	endpointUserDetails        = "/admin-user-details"
	endpointCreateUser         = "/admin-create-user"
	endpointUpdateUser         = "/admin-update-user"
	endpointDeleteUser         = "/admin-delete-user"
	endpointUpdateUserStatus   = "/admin-update-user-status"
	endpointUsersExportCSV     = "/admin-users-export-csv"
	endpointTicketsList        = "/admin-support-tickets-list"
	endpointTicketDetails      = "/admin-support-ticket-details"
	endpointReplyTicket        = "/admin-reply-ticket"
	endpointUpdateTicketStatus = "/admin-update-ticket-status"
)

// listSpec describes how one list endpoint is queried and unwrapped.
type listSpec struct {
	endpoint string
	hints    []string
	pageKey  string
	sizeKey  string
}

var (
	ridesList = listSpec{
		endpoint: endpointRidesList,
		hints:    []string{"rides"},
		pageKey:  "page",
		sizeKey:  "page_size",
	}
	driversList = listSpec{
		endpoint: endpointDriversList,
		hints:    []string{"drivers"},
		pageKey:  "page",
		sizeKey:  "limit",
	}
	usersList = listSpec{
		endpoint: endpointUsersList,
		hints:    []string{"users"},
		pageKey:  "page",
		sizeKey:  "limit",
	}
	ticketsList = listSpec{
		endpoint: endpointTicketsList,
		hints:    []string{"tickets"},
		pageKey:  "page",
		sizeKey:  "limit",
	}
)
