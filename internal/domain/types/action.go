package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"

	ActionEnvelopeUnrecognized = "envelope_unrecognized"
	ActionUpstreamRequest      = "upstream_request"
	ActionLogin                = "login"
	ActionLogout               = "logout"
	ActionLogoutRemoteFailed   = "logout_remote_failed"
	ActionAuditPublishFailed   = "audit_publish_failed"

	ActionPollStarted    = "poll_started"
	ActionPollStopped    = "poll_stopped"
	ActionPollTickFailed = "poll_tick_failed"
	ActionPollStaleTick  = "poll_stale_tick"

	ActionViewOpened = "view_opened"
	ActionViewClosed = "view_closed"
)
