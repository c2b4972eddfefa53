package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/accountshop/internal/logger"
)

const (
	defaultAPIBaseURL = "http://localhost:8000/api"
	defaultTimeout    = 30 * time.Second
	defaultLogLevel   = logger.LevelWarn
)

type Config struct {
	// Shop API base URL
	APIBaseURL string

	// Limit for a single request
	Timeout time.Duration

	// Where the session tokens are kept between runs
	// '<user config dir>/shopctl/tokens.json' if empty
	TokenFile string

	LogLevel string
}

func NewConfig() *Config {
	return &Config{
		APIBaseURL: defaultAPIBaseURL,
		Timeout:    defaultTimeout,
		LogLevel:   defaultLogLevel,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(func(key string) string {
			return envMap[key]
		})
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) error {
	setString := func(o *string, value string) {
		if value != "" {
			*o = value
		}
	}

	setString(&c.APIBaseURL, getenv("API_BASE_URL"))
	setString(&c.TokenFile, getenv("TOKEN_FILE"))
	setString(&c.LogLevel, getenv("LOG_LEVEL"))

	if v := getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New("API_TIMEOUT: " + err.Error())
		}
		c.Timeout = d
	}

	return nil
}

// Parse global flags placed before the command; return the command with its arguments
func (c *Config) ParseFlags(args []string) ([]string, error) {
	fs := pflag.NewFlagSet("shopctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)

	fs.StringVar(&c.APIBaseURL, "api", c.APIBaseURL, "Shop API base URL")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Request timeout")
	fs.StringVar(&c.TokenFile, "token-file", c.TokenFile, "File to keep session tokens in")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// Resolve the token file path, falling back to the user config dir
func (c *Config) ResolveTokenFile(userConfigDir func() (string, error)) (string, error) {
	if c.TokenFile != "" {
		return c.TokenFile, nil
	}

	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shopctl", "tokens.json"), nil
}
