package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/memoria/internal/filestore"
	"github.com/nkiryanov/memoria/internal/logger"
	"github.com/nkiryanov/memoria/internal/service/cleanup"
)

const (
	defaultListenAddr     = "localhost:3000"
	defaultLoggingLevel   = logger.LevelInfo
	defaultEnvironment    = logger.EnvProduction
	defaultTokenTTL       = 15 * 24 * time.Hour
	defaultRequestTimeout = 10 * time.Second
	defaultStorageBackend = filestore.BackendDisk
	defaultUploadDir      = "uploads"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the memoria service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Key to sign session tokens with
	SecretKey string

	// Environment
	Environment string

	// Session token lifetime
	TokenTTL time.Duration

	// Deadline of every request, zero disables it
	RequestTimeout time.Duration

	// Where memory files go: disk or s3
	StorageBackend string
	UploadDir      string
	S3             filestore.S3Config

	// Cron spec of revoked tokens pruning
	PruneSchedule string

	// Origins allowed to make cross-origin requests
	CORSOrigins []string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:       defaultLoggingLevel,
		ListenAddr:     defaultListenAddr,
		Environment:    defaultEnvironment,
		TokenTTL:       defaultTokenTTL,
		RequestTimeout: defaultRequestTimeout,
		StorageBackend: defaultStorageBackend,
		UploadDir:      defaultUploadDir,
		PruneSchedule:  cleanup.DefaultSchedule,
		CORSOrigins:    []string{"*"},
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
	setList := func(o *[]string) func(value string) error {
		return func(value string) error {
			if list := splitList(value); len(list) > 0 {
				*o = list
			}
			return nil
		}
	}

	envMap := map[string]func(string) error{
		"RUN_ADDRESS":     setString(&c.ListenAddr),
		"DATABASE_URI":    setString(&c.DatabaseDSN),
		"JWT_SECRET":      setString(&c.SecretKey),
		"LOG_LEVEL":       setString(&c.LogLevel),
		"ENVIRONMENT":     setString(&c.Environment),
		"TOKEN_TTL":       setDuration(&c.TokenTTL),
		"REQUEST_TIMEOUT": setDuration(&c.RequestTimeout),
		"STORAGE_BACKEND": setString(&c.StorageBackend),
		"UPLOAD_DIR":      setString(&c.UploadDir),
		"S3_BUCKET":       setString(&c.S3.Bucket),
		"S3_REGION":       setString(&c.S3.Region),
		"S3_ENDPOINT":     setString(&c.S3.Endpoint),
		"S3_ACCESS_KEY":   setString(&c.S3.AccessKey),
		"S3_SECRET_KEY":   setString(&c.S3.SecretKey),
		"PRUNE_SCHEDULE":  setString(&c.PruneSchedule),
		"CORS_ORIGINS":    setList(&c.CORSOrigins),
	}

	var errs []error
	for key, parseFn := range envMap {
		if err := parseFn(getenv(key)); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("memoria", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key to sign session tokens")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.DurationVar(&c.TokenTTL, "token-ttl", c.TokenTTL, "Session token lifetime")
	fs.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "Request deadline, 0 disables it")
	fs.StringVar(&c.StorageBackend, "storage", c.StorageBackend, "Memory files storage (disk, s3)")
	fs.StringVar(&c.UploadDir, "upload-dir", c.UploadDir, "Directory for disk storage")
	fs.StringVar(&c.S3.Bucket, "s3-bucket", c.S3.Bucket, "S3 bucket")
	fs.StringVar(&c.S3.Region, "s3-region", c.S3.Region, "S3 region")
	fs.StringVar(&c.S3.Endpoint, "s3-endpoint", c.S3.Endpoint, "S3 compatible endpoint")
	fs.StringVar(&c.PruneSchedule, "prune-schedule", c.PruneSchedule, "Cron spec of revoked tokens pruning")
	fs.StringSliceVar(&c.CORSOrigins, "cors-origins", c.CORSOrigins, "Allowed CORS origins")

	return fs.Parse(args)
}

// Validate checks options the app can't start without
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL))
	}

	switch c.StorageBackend {
	case filestore.BackendDisk:
		if c.UploadDir == "" {
			errs = append(errs, errors.New("upload dir is required for disk storage"))
		}
	case filestore.BackendS3:
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3 bucket is required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	return errors.Join(errs...)
}

func splitList(value string) []string {
	var list []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
