package audit

// Query limits for audit trail reads
const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// JSON payload field keys
const (
	PayloadKeyUserID = "user_id"
)
