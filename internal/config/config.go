// Package config holds the process-wide settings built once at start-up.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application name.
	AppName = "voicetasks"

	// DefaultSecretsDir is where local credential documents live in development.
	DefaultSecretsDir = "secrets/google"

	// ClientFile is the OAuth client secrets filename.
	ClientFile = "credentials.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultMetricsAddr is the default metrics listen address.
	DefaultMetricsAddr = ":9090"
)

// Environment variable names.
const (
	EnvTokenDocument  = "GOOGLE_TOKEN_FILE"
	EnvClientDocument = "GOOGLE_CREDENTIALS_FILE"
	EnvTriggerToken   = "CALL_TRIGGER_TOKEN"
	EnvAccountSID     = "TWILIO_ACCOUNT_SID"
	EnvAuthToken      = "TWILIO_AUTH_TOKEN"
	EnvFromNumber     = "TWILIO_NUMBER"
	EnvToNumber       = "YOUR_NUMBER"
	EnvPort           = "PORT"
	EnvBaseURL        = "PUBLIC_BASE_URL"
)

// Twilio holds the telephony provider account settings.
type Twilio struct {
	AccountSID string
	AuthToken  string

	// FromNumber is the provider number calls are placed from.
	FromNumber string

	// ToNumber is the number that gets called.
	ToNumber string
}

// Configured reports whether enough settings are present to place a call.
func (t Twilio) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != "" && t.ToNumber != ""
}

// Config holds configuration paths and settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// MetricsAddr is the metrics listen address. Empty disables the metrics server.
	MetricsAddr string

	// BaseURL is the public URL of this deployment, used for call callbacks.
	// When empty the callback is derived from the incoming request.
	BaseURL string

	// SecretsDir is the directory holding local credential documents.
	SecretsDir string

	// TriggerToken is the shared secret guarding the outbound call trigger.
	TriggerToken string

	Twilio Twilio

	// Debug enables debug logging.
	Debug bool
}

// New creates a Config with defaults applied.
func New() *Config {
	return &Config{
		Addr:        DefaultAddr,
		MetricsAddr: DefaultMetricsAddr,
		SecretsDir:  DefaultSecretsDir,
	}
}

// FromEnv creates a Config from defaults overlaid with environment values.
// getenv is usually os.Getenv.
func FromEnv(getenv func(string) string) *Config {
	c := New()
	if port := getenv(EnvPort); port != "" {
		c.Addr = ":" + port
	}
	c.BaseURL = strings.TrimRight(getenv(EnvBaseURL), "/")
	c.TriggerToken = getenv(EnvTriggerToken)
	c.Twilio = Twilio{
		AccountSID: getenv(EnvAccountSID),
		AuthToken:  getenv(EnvAuthToken),
		FromNumber: getenv(EnvFromNumber),
		ToNumber:   getenv(EnvToNumber),
	}
	return c
}

// ClientPath returns the path to the OAuth client secrets file.
func (c *Config) ClientPath() string {
	return filepath.Join(c.SecretsDir, ClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.SecretsDir, TokenFile)
}

// EnsureDir creates the secrets directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.SecretsDir, 0700)
}
