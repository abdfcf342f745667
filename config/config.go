package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds configuration values. Sensitive data never has defaults in
// code and must be provided via the JSON file or the environment.
type AppConfig struct {
	AppPort   string `json:"AppPort"`
	JWTSecret string `json:"JWTSecret"`
	GinMode   string `json:"GinMode"`
	GinPath   string `json:"GinPath"`

	// Database. Driver is "mysql" or "sqlite"; DatabaseURI overrides the
	// individual fields when set.
	DBDriver    string `json:"DBDriver"`
	DatabaseURI string `json:"DatabaseURI"`
	DBHost      string `json:"DBHost"`
	DBPort      string `json:"DBPort"`
	DBUser      string `json:"DBUser"`
	DBPassword  string `json:"DBPassword"`
	DBName      string `json:"DBName"`
	SQLitePath  string `json:"SQLitePath"`

	// GitHub OAuth login
	GitHubClientID     string `json:"GitHubClientID"`
	GitHubClientSecret string `json:"GitHubClientSecret"`
	OAuthRedirectBase  string `json:"OAuthRedirectBase"`

	RateLimitPerMinute int      `json:"RateLimitPerMinute"`
	AllowedOrigins     []string `json:"AllowedOrigins"`

	// Featured image uploads
	UploadDir         string `json:"UploadDir"`
	UploadMaxSizeMB   int    `json:"UploadMaxSizeMB"`
	UploadMaxWidthPx  int    `json:"UploadMaxWidthPx"`

	// Site metadata served to the frontend.
	SiteTitle       string `json:"SiteTitle"`
	SiteDescription string `json:"SiteDescription"`
	SiteURL         string `json:"SiteURL"`

	// Daily view counters older than this are pruned in the background.
	ViewRetentionDays int `json:"ViewRetentionDays"`

	// SMTP for comment notifications; disabled when SMTPHost is empty.
	SMTPHost     string `json:"SMTPHost"`
	SMTPPort     int    `json:"SMTPPort"`
	SMTPUsername string `json:"SMTPUsername"`
	SMTPPassword string `json:"SMTPPassword"`
	SMTPFrom     string `json:"SMTPFrom"`
	SMTPFromName string `json:"SMTPFromName"`

	// Redis cache; caching is disabled when RedisHost is empty.
	RedisHost     string `json:"RedisHost"`
	RedisPort     int    `json:"RedisPort"`
	RedisDB       int    `json:"RedisDB"`
	RedisPassword string `json:"RedisPassword"`

	// Logging
	LogLevel      string `json:"LogLevel"`
	LogPath       string `json:"LogPath"`
	LogMaxSizeMB  int    `json:"LogMaxSizeMB"`
	LogMaxBackups int    `json:"LogMaxBackups"`
	LogMaxAgeDays int    `json:"LogMaxAgeDays"`
	LogCompress   bool   `json:"LogCompress"`
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. Precedence: config/config.json ->
// defaults -> environment variable overrides. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// loadJSONConfig reads the JSON file into out if present. Returns an error
// only for invalid JSON.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // missing file is fine
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "goblog"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "data/goblog.db"
	}
	if c.OAuthRedirectBase == "" {
		c.OAuthRedirectBase = "http://localhost:8080"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join("static", "storage", "images")
	}
	if c.UploadMaxSizeMB == 0 {
		c.UploadMaxSizeMB = 2
	}
	if c.UploadMaxWidthPx == 0 {
		c.UploadMaxWidthPx = 1200
	}
	if c.SiteTitle == "" {
		c.SiteTitle = "Go Blog"
	}
	if c.SiteURL == "" {
		c.SiteURL = "http://localhost:8080"
	}
	if c.ViewRetentionDays == 0 {
		c.ViewRetentionDays = 90
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/goblog.log"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setStr(&c.AppPort, "APP_PORT")
	setStr(&c.JWTSecret, "JWT_SECRET")
	setStr(&c.GinMode, "GIN_MODE")
	setStr(&c.GinPath, "GIN_PATH")
	setStr(&c.DBDriver, "DB_DRIVER")
	setStr(&c.DatabaseURI, "DATABASE_URI")
	setStr(&c.DBHost, "DB_HOST")
	setStr(&c.DBPort, "DB_PORT")
	setStr(&c.DBUser, "DB_USER")
	setStr(&c.DBPassword, "DB_PASSWORD")
	setStr(&c.DBName, "DB_NAME")
	setStr(&c.SQLitePath, "SQLITE_PATH")
	setStr(&c.GitHubClientID, "GITHUB_CLIENT_ID")
	setStr(&c.GitHubClientSecret, "GITHUB_CLIENT_SECRET")
	setStr(&c.OAuthRedirectBase, "OAUTH_REDIRECT_BASE")
	setInt(&c.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
	setStr(&c.UploadDir, "UPLOAD_DIR")
	setInt(&c.UploadMaxSizeMB, "UPLOAD_MAX_SIZE_MB")
	setStr(&c.SiteTitle, "SITE_TITLE")
	setStr(&c.SiteDescription, "SITE_DESCRIPTION")
	setStr(&c.SiteURL, "SITE_URL")
	setInt(&c.ViewRetentionDays, "VIEW_RETENTION_DAYS")
	setStr(&c.SMTPHost, "SMTP_HOST")
	setInt(&c.SMTPPort, "SMTP_PORT")
	setStr(&c.SMTPUsername, "SMTP_USERNAME")
	setStr(&c.SMTPPassword, "SMTP_PASSWORD")
	setStr(&c.SMTPFrom, "SMTP_FROM")
	setStr(&c.SMTPFromName, "SMTP_FROM_NAME")
	setStr(&c.RedisHost, "REDIS_HOST")
	setInt(&c.RedisPort, "REDIS_PORT")
	setInt(&c.RedisDB, "REDIS_DB")
	setStr(&c.RedisPassword, "REDIS_PASSWORD")
	setStr(&c.LogLevel, "LOG_LEVEL")
	setStr(&c.LogPath, "LOG_PATH")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				origins = append(origins, s)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
}
