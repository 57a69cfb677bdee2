package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Prefix of environment variables, for example GITPULSE_BACKEND_ADDRESS.
const envPrefix = "gitpulse"

// Config is the container for app configuration
type Config struct {
	// BackendAddress - address of gitpulse backend rest api with protocol
	BackendAddress string `split_words:"true" default:"http://127.0.0.1:8000"`

	// BackendTimeout - timeout for a single backend request
	BackendTimeout time.Duration `split_words:"true" default:"30s"`

	// BackendRateLimit - max frequency of backend calls per second
	BackendRateLimit float64 `split_words:"true" default:"20"`

	// BackendRateBurst - max number of backend calls made at once
	BackendRateBurst int `split_words:"true" default:"10"`

	// RefreshInterval - period of scheduled dashboard refresh
	RefreshInterval time.Duration `split_words:"true" default:"5m"`

	// HTTPServerAddress - listen address for dashboard http server
	HTTPServerAddress string `envconfig:"HTTP_SERVER_ADDRESS" default:"127.0.0.1:8090"`

	// HTTPProfileServerAddress - listen address for profiler http server. If empty, profiler server is disabled
	HTTPProfileServerAddress string `envconfig:"HTTP_PROFILE_SERVER_ADDRESS" default:""`

	// ServiceResponseTimeout - timeout for handling dashboard http request
	ServiceResponseTimeout time.Duration `split_words:"true" default:"60s"`

	// FiltersDBPath - filepath for bolt db keeping filter selections. If empty, selections aren't persisted
	FiltersDBPath string `envconfig:"FILTERS_DB_PATH" default:"./gitpulse.data"`

	// FiltersDBBucketName - bolt db bucket name
	FiltersDBBucketName string `envconfig:"FILTERS_DB_BUCKET_NAME" default:"filters"`

	// LogLevel - one of: trace, debug, info, warn, error
	LogLevel string `split_words:"true" default:"info"`
}

func loadConfig() (Config, error) {
	var conf Config
	if err := envconfig.Process(envPrefix, &conf); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if conf.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("refresh interval must be greater than zero, got %v", conf.RefreshInterval)
	}
	if conf.BackendRateLimit <= 0 {
		return Config{}, fmt.Errorf("backend rate limit must be greater than zero, got %v", conf.BackendRateLimit)
	}

	return conf, nil
}

func newLogger(conf Config) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	l := logrus.New()
	l.Level = level

	return l, nil
}
