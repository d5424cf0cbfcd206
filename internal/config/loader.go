package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Load reads the optional yaml config at path and applies environment
// overrides. The four secrets keep the env names the deployment has always
// used (LMS_USER, LMS_PASS, EMAIL_USER, EMAIL_PASS).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}

	v.SetDefault("portal.base_url", "https://lms.vcomsats.edu.pk")
	v.SetDefault("portal.login_path", "/login/index.php")
	v.SetDefault("portal.timeout", "30s")
	v.SetDefault("portal.user_agent", "lms-notifier/1.0")
	v.SetDefault("portal.event_selector", `div[data-type="event"]`)
	v.SetDefault("portal.title_selector", "h3.name")
	v.SetDefault("portal.course_selector", ".course a")
	v.SetDefault("portal.date_selector", ".date")
	v.SetDefault("portal.pending_marker", "Add submission")
	v.SetDefault("portal.verify_tls", true)

	v.SetDefault("smtp.addr", "smtp.gmail.com:465")
	v.SetDefault("smtp.use_tls", true)
	v.SetDefault("smtp.timeout", "15s")
	v.SetDefault("smtp.subj_prefix", "[LMS]")

	v.SetDefault("schedule.daemon", false)
	// Defaults cover the three notification windows in portal-local time.
	v.SetDefault("schedule.specs", []string{
		"0 10 * * *",
		"30 17 * * *",
		"30 22 * * *",
	})

	v.SetDefault("server.metrics_addr", ":8085")

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "lms-notifier")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("tz_offset_hours", 5)
	v.SetDefault("log_level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("portal.username", "PORTAL_USERNAME", "LMS_USER")
	_ = v.BindEnv("portal.password", "PORTAL_PASSWORD", "LMS_PASS")
	_ = v.BindEnv("smtp.user", "SMTP_USER", "EMAIL_USER")
	_ = v.BindEnv("smtp.password", "SMTP_PASSWORD", "EMAIL_PASS")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	if cfg.SMTP.To == "" {
		cfg.SMTP.To = cfg.SMTP.User
	}
	return &cfg, nil
}
