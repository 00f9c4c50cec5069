package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ProjectID           string
	LogLevel            string
	Port                string
	OWMSAPIBaseURL      string
	OWMSAPITimeout      time.Duration
	OWMSAPIRateLimit    float64
	RedisAddr           string
	RedisDB             int
	RedisPassword       string
	RedisPasswordSecret string
	WidgetDedupeWindow  time.Duration
	WidgetRefresh       time.Duration
	WidgetCacheSize     int
	Timezone            string
}

func New() *Config {
	return &Config{
		ProjectID:           os.Getenv("PROJECTID"),
		LogLevel:            os.Getenv("LOGLEVEL"),
		Port:                getString("PORT", "8080"),
		OWMSAPIBaseURL:      strings.TrimRight(os.Getenv("OWMSAPIBASEURL"), "/"),
		OWMSAPITimeout:      getDuration("OWMSAPITIMEOUT", 10*time.Second),
		OWMSAPIRateLimit:    getFloat("OWMSAPIRATELIMIT", 20),
		RedisAddr:           os.Getenv("REDISADDR"),
		RedisDB:             getInt("REDISDB", 0),
		RedisPassword:       os.Getenv("REDISPASSWORD"),
		RedisPasswordSecret: os.Getenv("REDISPASSWORDSECRET"),
		WidgetDedupeWindow:  getDuration("WIDGETDEDUPEWINDOW", 30*time.Second),
		WidgetRefresh:       getDuration("WIDGETREFRESHINTERVAL", 5*time.Minute),
		WidgetCacheSize:     getInt("WIDGETCACHESIZE", 1024),
		Timezone:            getString("TIMEZONE", "Asia/Seoul"),
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	var problems []error
	if c.OWMSAPIBaseURL == "" {
		problems = append(problems, errors.New("OWMSAPIBASEURL is required"))
	}
	if c.WidgetDedupeWindow <= 0 {
		problems = append(problems, errors.New("WIDGETDEDUPEWINDOW must be positive"))
	}
	if c.WidgetRefresh < c.WidgetDedupeWindow {
		problems = append(problems, fmt.Errorf("WIDGETREFRESHINTERVAL (%s) must not be shorter than WIDGETDEDUPEWINDOW (%s)", c.WidgetRefresh, c.WidgetDedupeWindow))
	}
	if c.RedisPasswordSecret != "" && c.ProjectID == "" && !strings.HasPrefix(c.RedisPasswordSecret, "projects/") {
		problems = append(problems, errors.New("REDISPASSWORDSECRET needs PROJECTID or a full resource name"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(problems...)
}

// --- Helpers ---

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil {
		return d
	}
	return def
}

func getInt(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return n
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64); err == nil {
		return f
	}
	return def
}
