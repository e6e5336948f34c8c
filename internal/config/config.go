package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The JWT secret is kept base64-encoded here;
// the token codec decodes and length-checks it at startup.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // base64-encoded HS256 secret (>=32 raw bytes)
	AccessTTLMin  int    // session token time-to-live in minutes
	RefreshTTLDay int    // refresh token time-to-live in days
	ResetTTLMin   int    // password-reset token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing

	Storage StorageConfig // blob store selection and parameters
}

// StorageConfig selects and parameterizes the blob-store driver.
type StorageConfig struct {
	Driver        string // "local" or "s3"
	UploadDir     string // local driver: directory uploads land in
	PublicBaseURL string // local driver: URL prefix mapped to UploadDir
	S3Bucket      string // s3 driver: bucket name
	S3Region      string // s3 driver: region
	S3Endpoint    string // s3 driver: optional custom endpoint (minio etc.)
	S3AccessKey   string // s3 driver: static credentials (falls back to the default chain)
	S3SecretKey   string
}

// IsProd reports whether the app runs with production hardening, which
// among other things disables the development-only logging of reset
// tokens.
func (c Config) IsProd() bool { return c.Env == "prod" }

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must(); missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		AccessTTLMin:  mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDay: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		ResetTTLMin:   mustInt("RESET_TOKEN_TTL_MIN"),
		BcryptCost:    mustInt("BCRYPT_COST"),
		Storage: StorageConfig{
			Driver:        getenv("STORAGE_DRIVER", "local"),
			UploadDir:     getenv("UPLOAD_DIR", "uploads"),
			PublicBaseURL: getenv("PUBLIC_BASE_URL", "/files"),
			S3Bucket:      os.Getenv("S3_BUCKET"),
			S3Region:      os.Getenv("S3_REGION"),
			S3Endpoint:    os.Getenv("S3_ENDPOINT"),
			S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
			S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		},
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an
// integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
