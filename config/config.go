package config

// Config is parsed from the environment once at startup. An optional .env
// file is loaded into the environment first (see main.go).
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"8080"`
	FrontendURL string `env:"FRONTEND_URL"`
	DatabaseDSN string `env:"DATABASE_DSN"`
	JWTSecret   string `env:"JWT_SECRET"`

	Stripe Stripe `envPrefix:"STRIPE_"`
	SMTP   SMTP   `envPrefix:"SMTP_"`
	S3     S3     `envPrefix:"S3_"`
}

type Stripe struct {
	BaseURL       string `env:"BASE_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type SMTP struct {
	Address      string `env:"ADDRESS"`
	Host         string `env:"HOST"`
	FromEmail    string `env:"FROM_EMAIL"`
	FromPassword string `env:"FROM_PASSWORD"`
}

type S3 struct {
	Bucket string `env:"BUCKET" envDefault:"dukahub"`
}
