package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Asimsayam/lms-automation-bot/internal/obs"
)

// Portal describes the monitored LMS instance and the selectors used to
// pull event fragments out of its calendar day view.
type Portal struct {
	BaseURL        string        `mapstructure:"base_url"`
	LoginPath      string        `mapstructure:"login_path"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Timeout        time.Duration `mapstructure:"timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	EventSelector  string        `mapstructure:"event_selector"`
	TitleSelector  string        `mapstructure:"title_selector"`
	CourseSelector string        `mapstructure:"course_selector"`
	DateSelector   string        `mapstructure:"date_selector"`
	PendingMarker  string        `mapstructure:"pending_marker"`
	VerifyTLS      bool          `mapstructure:"verify_tls"`
}

type SMTP struct {
	Addr       string        `mapstructure:"addr"`
	From       string        `mapstructure:"from"`
	To         string        `mapstructure:"to"`
	User       string        `mapstructure:"user"`
	Password   string        `mapstructure:"password"`
	UseTLS     bool          `mapstructure:"use_tls"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SubjPrefix string        `mapstructure:"subj_prefix"`
}

// Schedule configures daemon mode. One-shot mode (the default) leaves
// scheduling to the external cron that invokes the binary.
type Schedule struct {
	Daemon bool     `mapstructure:"daemon"`
	Specs  []string `mapstructure:"specs"`
}

type Server struct {
	MetricsAddr string `mapstructure:"metrics_addr"`
}

type OTEL struct {
	Enable      bool    `mapstructure:"enable"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"otlp_endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func (o OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      o.Enable,
		Endpoint:    o.Endpoint,
		ServiceName: o.ServiceName,
		SampleRatio: o.SampleRatio,
	}
}

type Config struct {
	Portal   Portal   `mapstructure:"portal"`
	SMTP     SMTP     `mapstructure:"smtp"`
	Schedule Schedule `mapstructure:"schedule"`
	Server   Server   `mapstructure:"server"`
	OTEL     OTEL     `mapstructure:"otel"`

	// TZOffsetHours is the fixed local offset all day-window math runs in.
	// The reference deployment is UTC+5.
	TZOffsetHours int    `mapstructure:"tz_offset_hours"`
	LogLevel      string `mapstructure:"log_level"`
}

// Location returns the fixed-offset zone classification runs in. A fixed
// offset keeps start-of-day arithmetic free of DST transitions.
func (c *Config) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.TZOffsetHours), c.TZOffsetHours*3600)
}

// Validate checks the four required secrets. Missing any of them is a
// fatal startup condition.
func (c *Config) Validate() error {
	var missing []string
	if c.Portal.Username == "" {
		missing = append(missing, "portal.username (LMS_USER)")
	}
	if c.Portal.Password == "" {
		missing = append(missing, "portal.password (LMS_PASS)")
	}
	if c.SMTP.User == "" {
		missing = append(missing, "smtp.user (EMAIL_USER)")
	}
	if c.SMTP.Password == "" {
		missing = append(missing, "smtp.password (EMAIL_PASS)")
	}
	if len(missing) > 0 {
		return errors.New("missing required credentials: " + strings.Join(missing, ", "))
	}
	return nil
}
