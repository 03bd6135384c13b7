package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Debug            bool   `envconfig:"debug"`
	Port             int    `envconfig:"port" default:"8080"`
	Env              string `envconfig:"env" default:"dev"`
	PostgresHost     string `envconfig:"postgres_host" default:"localhost"`
	PostgresUser     string `envconfig:"postgres_user" default:"postgres"`
	PostgresDB       string `envconfig:"postgres_db" default:"ain"`
	PostgresPort     int    `envconfig:"postgres_port" default:"5432"`
	PostgresPassword string `envconfig:"postgres_password"`
	PostgresTimeZone string `envconfig:"postgres_timezone" default:"UTC"`

	JWTSecret          string `envconfig:"jwt_secret"`
	JWTIssuer          string `envconfig:"jwt_issuer" default:"ain"`
	JWTAudience        string `envconfig:"jwt_audience" default:"ain-clients"`
	JWTExpiryHours     int    `envconfig:"jwt_expiry_hours" default:"24"`
	RefreshTokenDays   int    `envconfig:"refresh_token_days" default:"7"`
	OTPExpiryMinutes   int    `envconfig:"otp_expiry_minutes" default:"15"`
	SecureCookie       bool   `envconfig:"secure_cookie"`
	RateLimitPerMinute uint   `envconfig:"rate_limit_per_minute" default:"1000"`

	MailgunApiKey string `envconfig:"mg_public_api_key"`
	MgDomain      string `envconfig:"mg_domain"`
	MgEmailFrom   string `envconfig:"email_from" default:"no-reply@ain.local"`

	UploadsRoot string `envconfig:"uploads_root" default:"wwwroot/uploads"`
	AWSBucket   string `envconfig:"aws_bucket"`
	AWSRegion   string `envconfig:"aws_region"`
	AWSKeyID    string `envconfig:"aws_access_key_id"`
	AWSSecret   string `envconfig:"aws_secret_access_key"`

	AdminEmail       string `envconfig:"admin_email" default:"admin@ain.local"`
	AdminPassword    string `envconfig:"admin_password" default:"Admin@123"`
	AdminDisplayName string `envconfig:"admin_display_name" default:"Admin"`

	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
	LogLevel                 string `envconfig:"log_level" default:"info"`
}

// AllowedOrigins splits the comma separated CORS origin list.
// An empty list means every origin is allowed.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.AccessControlAllowOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("ain", c)
	if err != nil {
		return nil, err
	}
	if c.JWTSecret == "" {
		return nil, errors.New("AIN_JWT_SECRET must be set")
	}
	return c, nil
}
