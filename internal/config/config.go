package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Values come from an optional YAML file
// and are overridden by environment variables.
type Config struct {
	Port                string
	DataFile            string
	DatabaseURL         string
	JWTSecret           string
	JWTIssuer           string
	JWTTTL              time.Duration
	CORSOrigins         []string
	PasswordHasher      string
	AdminUsername       string
	AdminPasswordDigest string
}

// fileConfig mirrors Config with YAML keys named after the env variables.
type fileConfig struct {
	Port                string   `yaml:"port"`
	DataFile            string   `yaml:"data_file"`
	DatabaseURL         string   `yaml:"database_url"`
	JWTSecret           string   `yaml:"jwt_secret"`
	JWTIssuer           string   `yaml:"jwt_issuer"`
	JWTTTLMinutes       int      `yaml:"jwt_ttl_minutes"`
	CORSOrigins         []string `yaml:"cors_allowed_origins"`
	PasswordHasher      string   `yaml:"password_hasher"`
	AdminUsername       string   `yaml:"admin_username"`
	AdminPasswordDigest string   `yaml:"admin_password_digest"`
}

// Load reads configuration from path (skipped when empty) and the environment,
// then performs minimal validation.
func Load(path string) (Config, error) {
	var file fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Port:                setting("PORT", file.Port, "8080"),
		DataFile:            setting("DATA_FILE", file.DataFile, "bank_users.json"),
		DatabaseURL:         setting("DATABASE_URL", file.DatabaseURL, ""),
		JWTSecret:           setting("JWT_SECRET", file.JWTSecret, ""),
		JWTIssuer:           setting("JWT_ISSUER", file.JWTIssuer, "bank-management-system"),
		PasswordHasher:      strings.ToLower(setting("PASSWORD_HASHER", file.PasswordHasher, "sha256")),
		AdminUsername:       setting("ADMIN_USERNAME", file.AdminUsername, "admin"),
		AdminPasswordDigest: setting("ADMIN_PASSWORD_DIGEST", file.AdminPasswordDigest, ""),
		CORSOrigins:         parseCSV(setting("CORS_ALLOWED_ORIGINS", strings.Join(file.CORSOrigins, ","), "*")),
	}

	defaultTTL := "60"
	if file.JWTTTLMinutes > 0 {
		defaultTTL = strconv.Itoa(file.JWTTTLMinutes)
	}
	minutes := setting("JWT_TTL_MINUTES", "", defaultTTL)
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.PasswordHasher != "sha256" && cfg.PasswordHasher != "bcrypt" {
		return Config{}, fmt.Errorf("PASSWORD_HASHER must be sha256 or bcrypt, got %q", cfg.PasswordHasher)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// AdminEnabled reports whether an admin credential is configured.
func (c Config) AdminEnabled() bool {
	return c.AdminPasswordDigest != ""
}

// setting prefers the environment, then the file value, then def.
func setting(key, fromFile, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback(fromFile, def)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
