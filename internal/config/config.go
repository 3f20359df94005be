package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	SMTP       SMTPConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
	OTP        OTPConfig
	Mongo      MongoConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	DefaultLocale  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

// AttendanceConfig describes the office geofence and the working-hour
// boundaries used to derive attendance status.
type AttendanceConfig struct {
	OfficeLatitude  float64
	OfficeLongitude float64
	RadiusMeters    float64
	Timezone        string
	LateHour        int
	OvertimeHour    int
}

type OTPConfig struct {
	Store         string
	CodeTTL       time.Duration
	VerifiedTTL   time.Duration
	MaxAttempts   int
	PurgeInterval time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "infinite_track")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)

	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_LOCALE", "en")

	v.SetDefault("JWT_ACCESS_EXPIRATION_TIME", "1h")

	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "Infinite Track")

	v.SetDefault("STORAGE_BASE_PATH", "./uploads")
	v.SetDefault("STORAGE_BASE_URL", "http://localhost:8080/uploads")

	v.SetDefault("OFFICE_LATITUDE", 1.117)
	v.SetDefault("OFFICE_LONGITUDE", 104.048)
	v.SetDefault("GEOFENCE_RADIUS_METERS", 125)
	v.SetDefault("ATTENDANCE_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("ATTENDANCE_LATE_HOUR", 9)
	v.SetDefault("ATTENDANCE_OVERTIME_HOUR", 17)

	v.SetDefault("OTP_STORE", "postgres")
	v.SetDefault("OTP_CODE_TTL", "5m")
	v.SetDefault("OTP_VERIFIED_TTL", "15m")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("OTP_PURGE_INTERVAL", "1h")

	v.SetDefault("MONGO_DATABASE", "infinite_track")
}

// Load reads the optional .env file and then resolves every key from the
// environment through viper, falling back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{}

	config.Database = DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSL_MODE"),
		MaxConns: v.GetInt32("DB_MAX_CONNS"),
		MinConns: v.GetInt32("DB_MIN_CONNS"),
	}

	config.App = AppConfig{
		Port:           v.GetInt("APP_PORT"),
		Env:            v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DefaultLocale:  v.GetString("DEFAULT_LOCALE"),
	}

	accessExp, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRATION_TIME"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	config.JWT = JWTConfig{
		Secret:           v.GetString("JWT_SECRET_KEY"),
		AccessExpiration: accessExp,
	}

	config.SMTP = SMTPConfig{
		Host:     v.GetString("SMTP_HOST"),
		Port:     v.GetInt("SMTP_PORT"),
		Username: v.GetString("SMTP_USERNAME"),
		Password: v.GetString("SMTP_PASSWORD"),
		From:     v.GetString("SMTP_FROM"),
		FromName: v.GetString("SMTP_FROM_NAME"),
	}

	config.Storage = StorageConfig{
		BasePath: v.GetString("STORAGE_BASE_PATH"),
		BaseURL:  v.GetString("STORAGE_BASE_URL"),
	}

	config.Attendance = AttendanceConfig{
		OfficeLatitude:  v.GetFloat64("OFFICE_LATITUDE"),
		OfficeLongitude: v.GetFloat64("OFFICE_LONGITUDE"),
		RadiusMeters:    v.GetFloat64("GEOFENCE_RADIUS_METERS"),
		Timezone:        v.GetString("ATTENDANCE_TIMEZONE"),
		LateHour:        v.GetInt("ATTENDANCE_LATE_HOUR"),
		OvertimeHour:    v.GetInt("ATTENDANCE_OVERTIME_HOUR"),
	}

	codeTTL, err := time.ParseDuration(v.GetString("OTP_CODE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_CODE_TTL: %w", err)
	}
	verifiedTTL, err := time.ParseDuration(v.GetString("OTP_VERIFIED_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_VERIFIED_TTL: %w", err)
	}
	purgeInterval, err := time.ParseDuration(v.GetString("OTP_PURGE_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_PURGE_INTERVAL: %w", err)
	}
	config.OTP = OTPConfig{
		Store:         strings.ToLower(v.GetString("OTP_STORE")),
		CodeTTL:       codeTTL,
		VerifiedTTL:   verifiedTTL,
		MaxAttempts:   v.GetInt("OTP_MAX_ATTEMPTS"),
		PurgeInterval: purgeInterval,
	}

	config.Mongo = MongoConfig{
		URI:      v.GetString("MONGO_URI"),
		Database: v.GetString("MONGO_DATABASE"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if config.SMTP.Host == "" {
		slog.Warn("SMTP_HOST is empty, OTP emails will not be delivered")
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.RadiusMeters <= 0 {
		return fmt.Errorf("GEOFENCE_RADIUS_METERS must be positive")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	switch c.OTP.Store {
	case "postgres":
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when OTP_STORE=mongo")
		}
	default:
		return fmt.Errorf("OTP_STORE must be postgres or mongo, got %q", c.OTP.Store)
	}
	return nil
}

// Location returns the timezone attendance hours are evaluated in.
func (c AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
