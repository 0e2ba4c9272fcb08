package log

const (
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	FieldClientID  = "client_id"
	FieldUsername  = "username"
	FieldRole      = "role"
	FieldEvent     = "event"
	FieldMessageID = "message_id"
	FieldReceiver  = "receiver"
	FieldSource    = "source"
)
