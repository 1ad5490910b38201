package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds MongoDB connection settings, used when STORE_DRIVER=mongo.
type MongoConfig struct {
	URI                string
	Database           string
	MediaCollection    string
	SettingsCollection string
}

// MinIOConfig holds object storage settings for MinIO.
// PublicURL, when set, is the base used to build media URLs handed to browsers.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// S3Config holds AWS S3 settings, used when STORAGE_DRIVER=s3.
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// UploadConfig bounds what the media upload endpoint accepts.
type UploadConfig struct {
	MaxBytes  int64
	KeyPrefix string
}

// ClientConfig configures the viewer client talking to the API.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout int
}

// TracingConfig selects the OTLP exporter and sampler. Exporter endpoints
// are read by the exporters from the standard OTEL_EXPORTER_OTLP_* variables.
type TracingConfig struct {
	Disabled    bool
	ServiceName string
	Protocol    string
	Endpoint    string
	Sampler     string
	SamplerArg  string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppEnv        string
	Port          string
	LogLevel      string
	LogFormat     string
	StoreDriver   string
	StorageDriver string
	Database      DatabaseConfig
	Mongo         MongoConfig
	MinIO         MinIOConfig
	S3            S3Config
	Upload        UploadConfig
	Client        ClientConfig
	Tracing       TracingConfig
}

// IsDevelopment reports whether the app runs in development mode.
// Error responses include stack traces only in this mode.
func (c *AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppEnv:        getEnv("APP_ENV", "production"),
		Port:          getEnv("PORT", "5000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "minio")),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:                getEnv("MONGO_URI", ""),
			Database:           getEnv("MONGO_DATABASE", "modelviewer"),
			MediaCollection:    getEnv("MONGO_MEDIA_COLLECTION", "media"),
			SettingsCollection: getEnv("MONGO_SETTINGS_COLLECTION", "settings"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", ""),
		},
		S3: S3Config{
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    getEnv("S3_BUCKET", ""),
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			PublicURL: getEnv("S3_PUBLIC_URL", ""),
		},
		Upload: UploadConfig{
			MaxBytes:  getEnvInt64("UPLOAD_MAX_BYTES", 50*1024*1024),
			KeyPrefix: getEnv("UPLOAD_KEY_PREFIX", "3d-models"),
		},
		Client: ClientConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:5000"),
			RequestTimeout: getEnvInt("CLIENT_TIMEOUT_SEC", 15),
		},
		Tracing: TracingConfig{
			Disabled:    getEnvBool("OTEL_SDK_DISABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "modelviewer"),
			Protocol:    getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
			Sampler:     getEnv("OTEL_TRACES_SAMPLER", "parentbased_traceidratio"),
			SamplerArg:  getEnv("OTEL_TRACES_SAMPLER_ARG", "1.0"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
