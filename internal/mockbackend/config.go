package mockbackend

import "time"

// Config holds the mock backend settings. cmd/mockbackend fills it from
// flags, environment and an optional config file.
type Config struct {
	ListenAddr      string
	JWTSecret       string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration

	AdminUsername string
	AdminPassword string
	AdminEmail    string
	DemoUser      string
	DemoPassword  string

	Events int
	Seed   int64

	AWSEnabled bool
	AWSRegion  string
	SyncDelay  time.Duration

	// SNSTopicARN, when set, is the only topic accepted on /sns/ses.
	SNSTopicARN string

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:      ":8080",
		JWTSecret:       "dev-secret",
		TokenTTL:        24 * time.Hour,
		ShutdownTimeout: 5 * time.Second,
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
		AdminEmail:      "admin@example.com",
		Events:          500,
		Seed:            1,
		AWSRegion:       "us-east-1",
		SyncDelay:       2 * time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}
