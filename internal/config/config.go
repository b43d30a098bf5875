package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything read from the environment. main loads a .env file
// first (godotenv), then processes this struct.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Database
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`

	// Redis
	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`

	// JWT
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// AWS: S3 for room images, SQS for the booking queue
	AWSRegion       string `envconfig:"AWS_REGION"`
	AWSAccessKey    string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey    string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket        string `envconfig:"AWS_S3_BUCKET"`
	BookingQueueURL string `envconfig:"BOOKING_QUEUE_URL" required:"true"`

	// Stripe
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`

	// Mail
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SenderEmail  string `envconfig:"SENDER_EMAIL"`
}

func Load() (Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}
