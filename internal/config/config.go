package config

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	gomysql "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Records     RecordsConfig     `yaml:"records"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Mail        MailConfig        `yaml:"mail"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Eligibility EligibilityConfig `yaml:"eligibility"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port         int      `yaml:"port"`
	FrontendURL  string   `yaml:"frontend_url"`
	AllowOrigins []string `yaml:"allow_origins"`
}

// RecordsConfig points at the Teable base holding members and work hours.
type RecordsConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	BaseID         string `yaml:"base_id"`
	MembersTable   string `yaml:"members_table"`
	WorkHoursTable string `yaml:"work_hours_table"`
	// HoursUnit is how the work hours table stores durations: hours or seconds.
	HoursUnit  string `yaml:"hours_unit"`
	Timezone   string `yaml:"timezone"`
	TimeoutSec int    `yaml:"timeout_sec"`
	PageSize   int    `yaml:"page_size"`
	Fanout     int    `yaml:"fanout"`
}

type DatabaseConfig struct {
	// Driver is sqlite or mysql.
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLHours   int    `yaml:"token_ttl_hours"`
	SelectionTTLMin int    `yaml:"selection_ttl_min"`
	ResetTTLHours   int    `yaml:"reset_ttl_hours"`
}

type MailConfig struct {
	ResendAPIKey string `yaml:"resend_api_key"`
	From         string `yaml:"from"`
}

type RateTier struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

type RateLimitConfig struct {
	Enabled bool     `yaml:"enabled"`
	Auth    RateTier `yaml:"auth"`
	Read    RateTier `yaml:"read"`
	Write   RateTier `yaml:"write"`
}

type EligibilityConfig struct {
	StandardHours float64 `yaml:"standard_hours"`
	MinAge        int     `yaml:"min_age"`
	MaxAge        int     `yaml:"max_age"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 3000, FrontendURL: "http://localhost:5173", AllowOrigins: []string{"*"}},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Records: RecordsConfig{
			BaseURL:    "https://app.teable.io/api",
			HoursUnit:  "hours",
			Timezone:   "Europe/Berlin",
			TimeoutSec: 15,
			PageSize:   1000,
			Fanout:     4,
		},
		Database:    DatabaseConfig{Driver: "sqlite", Path: "data/club-hours.db", Port: 3306, Name: "club_hours"},
		Auth:        AuthConfig{TokenTTLHours: 24, SelectionTTLMin: 5, ResetTTLHours: 24},
		Mail:        MailConfig{From: "Arbeitsstunden <noreply@example.org>"},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Auth:    RateTier{PerSecond: 1, Burst: 3},
			Read:    RateTier{PerSecond: 5, Burst: 10},
			Write:   RateTier{PerSecond: 1, Burst: 3},
		},
		Eligibility: EligibilityConfig{StandardHours: 8, MinAge: 17, MaxAge: 70},
	}
}

func Load(configFile string) *Config {
	c := Default()

	paths := []string{"etc/config.yaml", "/etc/club-hours/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverride(&c.Server.FrontendURL, "FRONTEND_URL")
	envOverride(&c.Records.BaseURL, "TEABLE_API_URL")
	envOverride(&c.Records.Token, "TEABLE_TOKEN")
	envOverride(&c.Records.BaseID, "TEABLE_BASE_ID")
	envOverride(&c.Records.MembersTable, "MEMBERS_TABLE_ID")
	envOverride(&c.Records.WorkHoursTable, "WORK_HOURS_TABLE_ID")
	envOverride(&c.Records.HoursUnit, "HOURS_UNIT")
	envOverride(&c.Records.Timezone, "CLUB_TIMEZONE")
	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverrideInt(&c.Database.Port, "DB_PORT")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Mail.ResendAPIKey, "RESEND_API_KEY")
	envOverride(&c.Mail.From, "MAIL_FROM")
	envOverrideInt(&c.Eligibility.MinAge, "ELIGIBILITY_MIN_AGE")
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.Path = strings.TrimPrefix(v, "sqlite:")
	}

	return c
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Records.BaseURL == "" {
		errs = append(errs, errors.New("records.base_url is required"))
	}
	if c.Records.Token == "" {
		errs = append(errs, errors.New("records.token is required"))
	}
	if c.Records.MembersTable == "" || c.Records.WorkHoursTable == "" {
		errs = append(errs, errors.New("records.members_table and records.work_hours_table are required"))
	}
	if c.Records.HoursUnit != "hours" && c.Records.HoursUnit != "seconds" {
		errs = append(errs, fmt.Errorf("records.hours_unit %q: want hours or seconds", c.Records.HoursUnit))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Location is the club's timezone, used for "today" and for stored dates.
func (c *Config) Location() (*time.Location, error) {
	if c.Records.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Records.Timezone)
	if err != nil {
		return nil, fmt.Errorf("records.timezone: %w", err)
	}
	return loc, nil
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
