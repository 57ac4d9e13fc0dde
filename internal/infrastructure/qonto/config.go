package qonto

import (
	"errors"
	"strings"
	"time"

	"github.com/verone/backoffice/internal/infrastructure/config"
)

// DefaultBaseURL is the Qonto business API host
const DefaultBaseURL = "https://thirdparty.qonto.com"

// AuthMode selects how requests are authenticated
type AuthMode string

const (
	AuthModeOAuth  AuthMode = "oauth"
	AuthModeAPIKey AuthMode = "api_key"
)

// Configuration errors
var (
	ErrMissingAccessToken = errors.New("qonto: oauth mode requires an access token")
	ErrMissingAPIKey      = errors.New("qonto: api_key mode requires an organization id and an api key")
	ErrUnknownAuthMode    = errors.New("qonto: unknown auth mode")
)

// Config holds the client settings
type Config struct {
	BaseURL        string
	AuthMode       AuthMode
	AccessToken    string
	OrganizationID string
	APIKey         string
	IBAN           string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// ConfigFrom maps the service configuration
func ConfigFrom(cfg config.QontoConfig) Config {
	return Config{
		BaseURL:        cfg.BaseURL,
		AuthMode:       AuthMode(cfg.AuthMode),
		AccessToken:    cfg.AccessToken,
		OrganizationID: cfg.OrganizationID,
		APIKey:         cfg.APIKey,
		IBAN:           cfg.IBAN,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	}
}

// Validate applies defaults and checks the credentials of the auth mode
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	if c.AuthMode == "" {
		c.AuthMode = AuthModeOAuth
	}

	switch c.AuthMode {
	case AuthModeOAuth:
		if c.AccessToken == "" {
			return ErrMissingAccessToken
		}
	case AuthModeAPIKey:
		if c.OrganizationID == "" || c.APIKey == "" {
			return ErrMissingAPIKey
		}
	default:
		return ErrUnknownAuthMode
	}
	return nil
}

// authorization is the Authorization header value of the auth mode
func (c *Config) authorization() string {
	if c.AuthMode == AuthModeAPIKey {
		return c.OrganizationID + ":" + c.APIKey
	}
	return "Bearer " + c.AccessToken
}
