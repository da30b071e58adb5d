package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Port     int    `env:"PORT" envDefault:"8080"`

	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"travel_planner"`

	JwtSecret    string        `env:"JWT_SECRET"`
	JwtExpires   string        `env:"JWT_EXPIRES" envDefault:"24h"`
	CookieDomain string        `env:"COOKIE_DOMAIN"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	OTPExpiry    time.Duration `env:"OTP_EXPIRY" envDefault:"10m"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	ImageStorage        string `env:"IMAGE_STORAGE" envDefault:"cloudinary"`
	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	S3Region            string `env:"S3_REGION"`
	S3Bucket            string `env:"S3_BUCKET"`
	S3PublicURL         string `env:"S3_PUBLIC_URL"`

	GoogleClientID        string `env:"GOOGLE_CLIENT_ID"`
	GoogleTranslateAPIKey string `env:"GOOGLE_TRANSLATE_API_KEY"`
	StadiaAPIKey          string `env:"STADIA_API_KEY"`
	ValhallaURL           string `env:"VALHALLA_URL"`
}

func New() *Config {
	if loadErr := godotenv.Load(".env"); loadErr != nil {
		log.Printf("[Env]: unable to load .env file %v", loadErr)
	}

	var cfg Config

	if parseErr := env.Parse(&cfg); parseErr != nil {
		log.Printf("[Env]: failed to parse environment variables: %v", parseErr)
	}

	return &cfg
}

// Validate rejects settings the server must not start with. Tokens signed
// with an empty secret are forgeable, so JWT_SECRET is required outside
// development.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JwtSecret) == "" && !c.IsDevelopment() {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

// IsDevelopment reports whether the service runs with developer defaults
// (console logs, non-secure cookies).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// TokenTTL parses JwtExpires, falling back to 24h.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JwtExpires)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
