package config

const (
	defaultBridgeBaseURL  = "http://127.0.0.1:8765"
	defaultSearchLimit    = 20
	defaultTimeoutSeconds = 10
	defaultAuditDir       = "~/.local/share/celinker"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Bridge: Bridge{
			BaseURL:        defaultBridgeBaseURL,
			SearchLimit:    defaultSearchLimit,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Audit: Audit{
			Dir: defaultAuditDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
