package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"Scrubline/core/scrub"
	"Scrubline/logger"

	"github.com/joho/godotenv"
)

// Timeline sources understood by TIMELINE_SOURCE.
const (
	SourceFile  = "file"
	SourceDB    = "db"
	SourceMinio = "minio"
)

// Config stores the application configuration.
type Config struct {
	Addr string

	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool

	TimelineSource   string // file, db or minio
	TimelineDir      string // directory of <track>.json files for the file source
	TimelineCacheTTL time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioRegion    string

	JWTSecret  string
	JWTTTL     time.Duration
	APIKeyHash string // bcrypt hash of the key that may mint session tokens

	// Engine defaults applied to every new session.
	Deadzone          float64
	MinTouchTarget    float64
	HapticsEnabled    bool
	ScrubFromAnywhere bool
	HandleSize        float64
	TrackHeight       float64
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load never overrides variables that are already set
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables and defaults.")
	}

	return &Config{
		Addr: getEnv("SCRUB_ADDR", ":8080"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", 30),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),

		TimelineSource:   strings.ToLower(getEnv("TIMELINE_SOURCE", SourceFile)),
		TimelineDir:      getEnv("TIMELINE_DIR", "timelines"),
		TimelineCacheTTL: time.Duration(getEnvInt("TIMELINE_CACHE_TTL", 600)) * time.Second,

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "scrubline"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "scrubline"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		MinioRegion:    getEnv("MINIO_REGION", "us-east-1"),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		JWTTTL:     time.Duration(getEnvInt("JWT_TTL_MINUTES", 60)) * time.Minute,
		APIKeyHash: getEnv("API_KEY_HASH", ""),

		Deadzone:          getEnvFloat("SCRUB_DEADZONE", scrub.DefaultDeadzone),
		MinTouchTarget:    getEnvFloat("SCRUB_MIN_TOUCH_TARGET", scrub.DefaultMinTouchTarget),
		HapticsEnabled:    getEnvBool("SCRUB_HAPTICS", true),
		ScrubFromAnywhere: getEnvBool("SCRUB_FROM_ANYWHERE", false),
		HandleSize:        getEnvFloat("SCRUB_HANDLE_SIZE", 20),
		TrackHeight:       getEnvFloat("SCRUB_TRACK_HEIGHT", 44),
	}
}

// EngineOptions returns the engine defaults for a track of the given duration.
func (c *Config) EngineOptions(duration float64, markers []scrub.SectionMarker) scrub.Options {
	opts := scrub.DefaultOptions()
	opts.Duration = duration
	opts.Markers = markers
	opts.Deadzone = c.Deadzone
	opts.MinTouchTarget = c.MinTouchTarget
	opts.HapticFeedbackEnabled = c.HapticsEnabled
	opts.ScrubFromAnywhere = c.ScrubFromAnywhere
	opts.HandleSize = scrub.Size{Width: c.HandleSize, Height: c.HandleSize}
	opts.TrackHeight = c.TrackHeight
	return opts
}

// LoggerConfig maps the LOG_* settings onto the logger package.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      logger.LogLevel(strings.ToLower(c.LogLevel)),
		OutputPath: c.LogFile,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
		Compress:   c.LogCompress,
	}
}
