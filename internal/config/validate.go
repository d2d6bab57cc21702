package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// Validate ensures the configuration is usable. Field constraints are
// declared as struct tags; cross-field rules are checked by hand.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			first := fieldErrors[0]
			return fmt.Errorf("%s %s", tomlKey(first.Namespace()), constraintMessage(first))
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if err := c.validateAI(); err != nil {
		return err
	}
	return c.validatePipeline()
}

func (c *Config) validateAI() error {
	if c.AI.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/lectern/config.toml"
		}
		return fmt.Errorf("ai.api_key is required. Set LECTERN_AI_API_KEY env var or edit %s (create with 'lectern config init')", defaultPath)
	}
	if c.AI.Provider == "openai" && strings.TrimSpace(c.AI.BaseURL) == "" {
		return errors.New("ai.base_url must be set for the openai provider")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	staleSeconds := c.Pipeline.StaleProcessingMinutes * 60
	if staleSeconds <= c.Pipeline.HeartbeatIntervalSeconds {
		return errors.New("pipeline.stale_processing_minutes must exceed pipeline.heartbeat_interval_seconds")
	}
	return nil
}

// tomlKey converts a validator namespace such as Config.AI.Provider into the
// TOML key users see in their config file (ai.provider).
func tomlKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = snakeCase(part)
	}
	return strings.Join(parts, ".")
}

func snakeCase(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be set"
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "hostname_port":
		return "must be a host:port address"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
