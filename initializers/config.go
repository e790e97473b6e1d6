package initializers

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/CampusPrayer/models"
)

type Config struct {
	Port        string
	Environment string
	PublicURL   string

	DatabaseURL string

	SessionSecret     string
	SessionCookieName string
	SessionTTL        time.Duration

	ChecklistItems []string
	StreakLookback int

	GoogleClientID     string
	GoogleClientSecret string

	ResendAPIKey string
	EmailFrom    string

	FirebaseServiceAccountPath string
}

// Cfg is populated once by LoadConfig and treated as read-only afterwards.
var Cfg = DefaultConfig()

func DefaultConfig() Config {
	return Config{
		Port:              "8080",
		Environment:       "development",
		PublicURL:         "http://localhost:8080",
		SessionCookieName: "appwrite-session",
		SessionTTL:        30 * 24 * time.Hour,
		ChecklistItems:    append([]string(nil), models.DefaultChecklistItems...),
		StreakLookback:    100,
		EmailFrom:         "Campus Prayer <noreply@campusprayer.app>",
	}
}

// LoadConfig builds Cfg from the process environment and stops the process
// when a required value is missing.
func LoadConfig() {
	cfg, err := ParseConfig(os.Getenv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	Cfg = cfg
}

func ParseConfig(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	cfg.DatabaseURL = getenv("DB_URL")
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DB_URL is not set")
	}

	cfg.SessionSecret = getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return cfg, fmt.Errorf("SESSION_SECRET is not set")
	}

	if v := getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := getenv("APP_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := getenv("PUBLIC_URL"); v != "" {
		cfg.PublicURL = strings.TrimRight(v, "/")
	}
	if v := getenv("SESSION_COOKIE_NAME"); v != "" {
		cfg.SessionCookieName = v
	}

	if v := getenv("SESSION_TTL_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return cfg, fmt.Errorf("SESSION_TTL_DAYS must be a positive integer, got %q", v)
		}
		cfg.SessionTTL = time.Duration(days) * 24 * time.Hour
	}

	if v := getenv("STREAK_LOOKBACK"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("STREAK_LOOKBACK must be a positive integer, got %q", v)
		}
		cfg.StreakLookback = n
	}

	if v := getenv("CHECKLIST_ITEMS"); v != "" {
		items, err := parseChecklistItems(v)
		if err != nil {
			return cfg, err
		}
		cfg.ChecklistItems = items
	}

	cfg.GoogleClientID = getenv("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = getenv("GOOGLE_CLIENT_SECRET")
	cfg.ResendAPIKey = getenv("RESEND_API_KEY")
	if v := getenv("EMAIL_FROM"); v != "" {
		cfg.EmailFrom = v
	}
	cfg.FirebaseServiceAccountPath = getenv("FIREBASE_SERVICE_ACCOUNT_PATH")

	return cfg, nil
}

// campus_prayer_done always leads the list since the streak depends on it.
func parseChecklistItems(raw string) ([]string, error) {
	items := []string{models.CampusPrayerDone}
	seen := map[string]bool{models.CampusPrayerDone: true}

	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" || seen[item] {
			continue
		}
		if !models.IsKnownChecklistItem(item) {
			return nil, fmt.Errorf("CHECKLIST_ITEMS contains unknown item %q", item)
		}
		seen[item] = true
		items = append(items, item)
	}

	return items, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) ChecklistEnabled(item string) bool {
	for _, enabled := range c.ChecklistItems {
		if enabled == item {
			return true
		}
	}
	return false
}

func (c Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
