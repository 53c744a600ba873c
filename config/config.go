// Package config loads server configuration from the environment. A .env
// file in the working directory is honored when present; real environment
// variables win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	signingSecretEnv  = "HELMSMAN_SIGNING_SECRET"
	tokenTTLHoursEnv  = "HELMSMAN_TOKEN_TTL_HOURS"
	otpTTLSecondsEnv  = "HELMSMAN_OTP_TTL_SECONDS"
	webauthnRPIDEnv   = "HELMSMAN_WEBAUTHN_RP_ID"
	webauthnOriginEnv = "HELMSMAN_WEBAUTHN_ORIGIN"
	discordWebhookEnv = "HELMSMAN_DISCORD_WEBHOOK_URL"
	usersFileEnv      = "HELMSMAN_USERS_FILE"
	listenPortEnv     = "HELMSMAN_PORT"

	defaultTokenTTLHours = 24
	defaultOtpTTLSeconds = 300
	defaultListenPort    = 8080
	defaultUsersFile     = "users.json"
)

// Config is the read-only server configuration. Session TTL, ticket TTL
// and sweep interval are fixed constants owned by their packages, not
// configuration.
type Config struct {
	SigningSecret []byte
	TokenTTL      time.Duration
	OtpTTL        time.Duration

	// WebAuthn is enabled when both RP id and origin are set.
	WebAuthnRPID   string
	WebAuthnOrigin string

	// Discord OTP delivery is enabled when the webhook URL is set.
	DiscordWebhookURL string

	UsersFile  string
	ListenPort int
}

// WebAuthnEnabled reports whether a relying party is configured.
func (c *Config) WebAuthnEnabled() bool {
	return c.WebAuthnRPID != "" && c.WebAuthnOrigin != ""
}

// DiscordEnabled reports whether an OTP delivery channel is configured.
func (c *Config) DiscordEnabled() bool {
	return c.DiscordWebhookURL != ""
}

// Load reads configuration from the environment. The signing secret is
// mandatory; everything else has defaults or toggles a feature off.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars are the primary interface.
	_ = godotenv.Load()

	secret := os.Getenv(signingSecretEnv)
	if secret == "" {
		return nil, fmt.Errorf("%s is required", signingSecretEnv)
	}

	tokenTTLHours, err := intEnv(tokenTTLHoursEnv, defaultTokenTTLHours)
	if err != nil {
		return nil, err
	}
	otpTTLSeconds, err := intEnv(otpTTLSecondsEnv, defaultOtpTTLSeconds)
	if err != nil {
		return nil, err
	}
	port, err := intEnv(listenPortEnv, defaultListenPort)
	if err != nil {
		return nil, err
	}

	usersFile := os.Getenv(usersFileEnv)
	if usersFile == "" {
		usersFile = defaultUsersFile
	}

	return &Config{
		SigningSecret:     []byte(secret),
		TokenTTL:          time.Duration(tokenTTLHours) * time.Hour,
		OtpTTL:            time.Duration(otpTTLSeconds) * time.Second,
		WebAuthnRPID:      os.Getenv(webauthnRPIDEnv),
		WebAuthnOrigin:    os.Getenv(webauthnOriginEnv),
		DiscordWebhookURL: os.Getenv(discordWebhookEnv),
		UsersFile:         usersFile,
		ListenPort:        port,
	}, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return v, nil
}
