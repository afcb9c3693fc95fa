package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Admin      AdminConfig
	Cloudinary CloudinaryConfig
	Messaging  MessagingConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	MaxUploadBytes int64
}

type StoreConfig struct {
	Driver string // postgres or mongo
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

// DSN builds a pgx connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode, c.Schema)
}

type MongoConfig struct {
	URI          string
	Database     string
	Transactions bool // requires a replica set
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt
}

type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
	Folder       string
}

type MessagingConfig struct {
	Phone   string
	BaseURL string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Load reads an optional .env file, then the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "coqueta")
	v.SetDefault("MONGO_TRANSACTIONS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_EXPIRY", 60)
	v.SetDefault("CLOUDINARY_FOLDER", "productos_coqueta")
	v.SetDefault("WHATSAPP_PHONE", "50235724563")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_REQUESTS", 30)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Mongo: MongoConfig{
			URI:          v.GetString("MONGO_URI"),
			Database:     v.GetString("MONGO_DATABASE"),
			Transactions: v.GetBool("MONGO_TRANSACTIONS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: v.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Admin: AdminConfig{
			Email:        v.GetString("ADMIN_EMAIL"),
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:    v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:       v.GetString("CLOUDINARY_API_KEY"),
			APISecret:    v.GetString("CLOUDINARY_API_SECRET"),
			UploadPreset: v.GetString("CLOUDINARY_UPLOAD_PRESET"),
			Folder:       v.GetString("CLOUDINARY_FOLDER"),
		},
		Messaging: MessagingConfig{
			Phone:   v.GetString("WHATSAPP_PHONE"),
			BaseURL: v.GetString("PUBLIC_BASE_URL"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}
}

// Validate reports settings the service cannot start without
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Admin.Email == "" || c.Admin.PasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required"))
	}
	if c.Store.Driver != StoreDriverPostgres && c.Store.Driver != StoreDriverMongo {
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	if c.Cloudinary.CloudName == "" {
		errs = append(errs, errors.New("CLOUDINARY_CLOUD_NAME is required"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
