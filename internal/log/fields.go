package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldChatID     = "chat_id"
	FieldSenderID   = "sender_id"
	FieldCommand    = "command"
	FieldMemberName = "member_name"
	FieldAmount     = "amount_cents"
	FieldPaymentID  = "payment_id"
	FieldCount      = "count"
	FieldDuration   = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentBot       = "bot"
	ComponentDispatch  = "dispatch"
	ComponentStorage   = "storage"
	ComponentReport    = "report"
	ComponentExport    = "export"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentHealth    = "health"
	ComponentTransport = "transport"
)
