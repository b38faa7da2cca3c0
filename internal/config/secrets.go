package config

import (
	"fmt"
	"strings"
)

// placeholders are fragments of sample values left in place of a real key.
var placeholders = []string{"YOUR_", "API_KEY_HERE", "CHANGEME", "<"}

// minKeyLength is shorter than any real provider key.
const minKeyLength = 20

// CheckAPIKey returns warnings about an API key value. An empty result
// means nothing looks wrong.
func CheckAPIKey(name, value string) []string {
	if value == "" {
		return []string{fmt.Sprintf("%s is missing or empty", name)}
	}

	var warnings []string
	upper := strings.ToUpper(value)
	for _, p := range placeholders {
		if strings.Contains(upper, p) {
			warnings = append(warnings, fmt.Sprintf("%s still contains placeholder text", name))
			break
		}
	}
	if strings.TrimSpace(value) != value {
		warnings = append(warnings, fmt.Sprintf("%s has leading or trailing whitespace", name))
	}
	if strings.ContainsAny(value, `"'`) {
		warnings = append(warnings, fmt.Sprintf("%s contains quote characters; check how it was set", name))
	}
	if n := len(strings.TrimSpace(value)); n < minKeyLength {
		warnings = append(warnings, fmt.Sprintf("%s looks too short (%d characters)", name, n))
	}
	return warnings
}

// Mask hides all but the ends of a secret.
func Mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 12:
		return "****"
	default:
		return secret[:4] + "..." + secret[len(secret)-4:]
	}
}

// Redacted returns a copy of c with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	out.LLM.APIKey = Mask(c.LLM.APIKey)
	out.Store.RedisPassword = Mask(c.Store.RedisPassword)
	return &out
}

// MarshalYAML renders durations the way they are written in the file.
func (s LLMSection) MarshalYAML() (any, error) {
	return struct {
		Provider   string `yaml:"provider"`
		Model      string `yaml:"model"`
		APIKey     string `yaml:"api_key"`
		BaseURL    string `yaml:"base_url"`
		Timeout    string `yaml:"timeout"`
		MaxRetries int    `yaml:"max_retries"`
	}{s.Provider, s.Model, s.APIKey, s.BaseURL, s.Timeout.String(), s.MaxRetries}, nil
}

// MarshalYAML renders durations the way they are written in the file.
func (s ServerSection) MarshalYAML() (any, error) {
	return struct {
		Addr           string   `yaml:"addr"`
		CORSOrigins    []string `yaml:"cors_origins"`
		SessionTTL     string   `yaml:"session_ttl"`
		RequestTimeout string   `yaml:"request_timeout"`
	}{s.Addr, s.CORSOrigins, s.SessionTTL.String(), s.RequestTimeout.String()}, nil
}
