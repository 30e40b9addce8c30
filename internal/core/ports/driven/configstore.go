package driven

// ConfigStore provides persistent key-value configuration.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error
}

// Well-known configuration keys.
const (
	// ConfigKeyBackendURL is the base URL of the college backend API.
	ConfigKeyBackendURL = "backend.url"

	// ConfigKeyBackendTimeout is the request timeout in seconds.
	ConfigKeyBackendTimeout = "backend.timeout_seconds"

	// ConfigKeySessionName is the default session name for chat commands.
	ConfigKeySessionName = "session.name"
)
