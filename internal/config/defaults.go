package config

const (
	defaultStateDir           = "~/.local/share/booructl"
	defaultHistoryPath        = "~/.local/share/booructl/history.db"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultTransportBackoffMS = 500
	defaultTransportAttempts  = 3
	defaultRequestTimeoutMS   = 30000
	defaultSettingsTimeoutMS  = 1000
	defaultRetryAttempts      = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transport: Transport{
			BackoffMS:        defaultTransportBackoffMS,
			MaxAttempts:      defaultTransportAttempts,
			RequestTimeoutMS: defaultRequestTimeoutMS,
		},
		Settings: Settings{
			TimeoutMS:             defaultSettingsTimeoutMS,
			RetryAttempts:         defaultRetryAttempts,
			SkipOnError:           false,
			DeleteFilesInProgress: false,
			DeleteFolder:          false,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		History: History{
			Enabled: false,
			Path:    defaultHistoryPath,
		},
	}
}
