package action

// List query limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)
