// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envListenAddr             = "ATOM_LISTEN_ADDR"
	envPlatformURL            = "ATOM_PLATFORM_URL"
	envRequestTimeout         = "ATOM_REQUEST_TIMEOUT"
	envInsecureSkipVerify     = "ATOM_PLATFORM_INSECURE"
	envLogLevel               = "ATOM_LOG_LEVEL"
	envServerReadTimeout      = "ATOM_SERVER_READ_TIMEOUT"
	envServerWriteTimeout     = "ATOM_SERVER_WRITE_TIMEOUT"
	envServerIdleTimeout      = "ATOM_SERVER_IDLE_TIMEOUT"
	envGracefulShutdown       = "ATOM_GRACEFUL_SHUTDOWN"
	envNotifyFD               = "ATOM_NOTIFY_FD"
	defaultListenAddr         = "127.0.0.1:0"
	defaultPlatformURL        = "https://api.boomi.com/api/rest/v1"
	defaultRequestTimeout     = 30 * time.Second
	defaultLogLevel           = "info"
	defaultServerReadTimeout  = 30 * time.Second
	defaultServerWriteTimeout = 60 * time.Second
	defaultServerIdleTimeout  = 120 * time.Second
	defaultGracefulShutdown   = 10 * time.Second
)

// Config captures runtime settings for the proxy.
type Config struct {
	ListenAddr              string
	Platform                *url.URL
	RequestTimeout          time.Duration
	InsecureSkipVerify      bool
	LogLevel                string
	ServerReadTimeout       time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	GracefulShutdownTimeout time.Duration
	// NotifyFD is the inherited file descriptor a supervising parent expects
	// the bound-port message on; -1 when no supervisor is present.
	NotifyFD int
}

// Load reads configuration from environment variables and validates required values.
func Load() (Config, error) {
	platformRaw := getString(envPlatformURL, defaultPlatformURL)

	platform, err := url.Parse(platformRaw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", envPlatformURL, err)
	}
	if !platform.IsAbs() {
		return Config{}, fmt.Errorf("%s must be absolute (scheme://host)", envPlatformURL)
	}

	notifyFD := -1
	if raw := strings.TrimSpace(os.Getenv(envNotifyFD)); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", envNotifyFD, raw)
		}
		notifyFD = parsed
	}

	cfg := Config{
		ListenAddr:              getString(envListenAddr, defaultListenAddr),
		Platform:                platform,
		RequestTimeout:          getDuration(envRequestTimeout, defaultRequestTimeout),
		InsecureSkipVerify:      getBool(envInsecureSkipVerify, false),
		LogLevel:                strings.ToLower(getString(envLogLevel, defaultLogLevel)),
		ServerReadTimeout:       getDuration(envServerReadTimeout, defaultServerReadTimeout),
		ServerWriteTimeout:      getDuration(envServerWriteTimeout, defaultServerWriteTimeout),
		ServerIdleTimeout:       getDuration(envServerIdleTimeout, defaultServerIdleTimeout),
		GracefulShutdownTimeout: getDuration(envGracefulShutdown, defaultGracefulShutdown),
		NotifyFD:                notifyFD,
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
