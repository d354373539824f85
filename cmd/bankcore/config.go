package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/bankcore/internal/logger"
)

const (
	defaultListenAddr      = "localhost:8000"
	defaultLoggingLevel    = logger.LevelInfo
	defaultCustomerAddr    = "http://localhost:8001"
	defaultCustomerTimeout = 5 * time.Second
	defaultEventsWorkers   = 4
	defaultEnvironment     = logger.EnvProduction
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Customer service used to validate account owners
	CustomerAddr    string
	CustomerTimeout time.Duration

	// Secret key to sign service tokens for the customer service.
	// Requests are sent without token if empty
	SecretKey string

	// Events are posted to webhook if set, otherwise only logged
	EventsWebhook string
	EventsWorkers int

	// Environment
	Environment string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:        defaultLoggingLevel,
		ListenAddr:      defaultListenAddr,
		CustomerAddr:    defaultCustomerAddr,
		CustomerTimeout: defaultCustomerTimeout,
		EventsWorkers:   defaultEventsWorkers,
		Environment:     defaultEnvironment,
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
	// Set option to value if it not empty
	setString := func(o *string) func(value string) error {
		return func(value string) error {
			if value != "" {
				*o = value
			}
			return nil
		}
	}

	setDuration := func(o *time.Duration) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			*o = d
			return nil
		}
	}

	setInt := func(o *int) func(value string) error {
		return func(value string) error {
			if value == "" {
				return nil
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			*o = n
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":              setString(&c.ListenAddr),
		"DATABASE_URI":             setString(&c.DatabaseDSN),
		"SECRET_KEY":               setString(&c.SecretKey),
		"LOG_LEVEL":                setString(&c.LogLevel),
		"ENVIRONMENT":              setString(&c.Environment),
		"CUSTOMER_SERVICE_ADDRESS": setString(&c.CustomerAddr),
		"CUSTOMER_SERVICE_TIMEOUT": setDuration(&c.CustomerTimeout),
		"EVENTS_WEBHOOK_URL":       setString(&c.EventsWebhook),
		"EVENTS_WORKERS":           setInt(&c.EventsWorkers),
	}

	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}

	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("bankcore", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign customer service tokens")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVarP(&c.CustomerAddr, "customer", "c", c.CustomerAddr, "Customer service address")
	fs.DurationVar(&c.CustomerTimeout, "customer-timeout", c.CustomerTimeout, "Customer service request timeout")
	fs.StringVarP(&c.EventsWebhook, "events-webhook", "w", c.EventsWebhook, "Webhook URL to post events to")
	fs.IntVar(&c.EventsWorkers, "events-workers", c.EventsWorkers, "Number of event publishing workers")

	return fs.Parse(args)
}

func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN must be set"))
	}
	if c.CustomerTimeout <= 0 {
		errs = append(errs, errors.New("customer timeout must be positive"))
	}
	if c.EventsWorkers <= 0 {
		errs = append(errs, errors.New("events workers must be positive"))
	}

	return errors.Join(errs...)
}
