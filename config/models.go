package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	System     SystemConfig     `mapstructure:"system"`
	Refs       RefsConfig       `mapstructure:"refs"`
	Git        GitConfig        `mapstructure:"git"`
	GitHub     GitHubConfig     `mapstructure:"github"`
	Protection ProtectionConfig `mapstructure:"protection"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
		return errors.New("postgres credentials are required")
	}
	if c.Postgres.Host == "" {
		return errors.New("postgres.host is required")
	}
	if c.System.Name == "" || c.System.Email == "" {
		return errors.New("system.name and system.email are required")
	}
	switch c.Refs.Backend {
	case "git":
		if c.Git.RepoDir == "" {
			return errors.New("git.repo_dir is required")
		}
	case "github":
		if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
			return errors.New("github.owner and github.repo are required")
		}
	default:
		return fmt.Errorf("refs.backend %q is not supported", c.Refs.Backend)
	}
	switch c.Protection.Combine {
	case "or", "last_match":
	default:
		return fmt.Errorf("protection.combine %q is not supported", c.Protection.Combine)
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"db_name"`
	SSLMode        string        `mapstructure:"ssl_mode"`
	MigrationsDir  string        `mapstructure:"migrations_dir"`
	MigrateTimeout time.Duration `mapstructure:"migrate_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}

// SystemConfig is the identity used as tagger for build-created tags.
type SystemConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// RefsConfig selects the ref store backend ("git" or "github").
type RefsConfig struct {
	Backend string `mapstructure:"backend"`
}

// GitConfig configures the git command line backend.
type GitConfig struct {
	RepoDir string        `mapstructure:"repo_dir"`
	Binary  string        `mapstructure:"binary"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GitHubConfig configures the GitHub REST backend.
type GitHubConfig struct {
	Owner      string        `mapstructure:"owner"`
	Repo       string        `mapstructure:"repo"`
	Token      string        `mapstructure:"token"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// ProtectionConfig configures tag protection evaluation.
type ProtectionConfig struct {
	Combine string `mapstructure:"combine"`
}
