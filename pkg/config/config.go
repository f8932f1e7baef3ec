package config

import (
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL" required:"true"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"false"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"30m"`
}

type Supabase struct {
	Url         string        `envconfig:"URL"`
	AnonKey     string        `envconfig:"ANON_KEY"`
	JwtSecret   string        `envconfig:"JWT_SECRET"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type Auth struct {
	Strategy string        `envconfig:"STRATEGY" default:"supabase"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"30s"`
}

//revive:disable
type Stripe struct {
	SecretKey                string `envconfig:"SECRET_KEY"`
	WebhookSecret            string `envconfig:"WEBHOOK_SECRET"`
	Currency                 string `envconfig:"CURRENCY" default:"usd"`
	SuccessURL               string `envconfig:"SUCCESS_URL" default:"http://localhost:5173/success"`
	CancelURL                string `envconfig:"CANCEL_URL" default:"http://localhost:5173/cancel"`
	IgnoreAPIVersionMismatch bool   `envconfig:"IGNORE_API_VERSION_MISMATCH" default:"true"`
	// BackendURL overrides the Stripe API endpoint, used against stripe-mock.
	BackendURL string `envconfig:"BACKEND_URL"`
}

//revive:enable

type Cors struct {
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"http://localhost:5173"`
}

type Redis struct {
	URL          string        `envconfig:"URL"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"spotavibe:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type Portfolio struct {
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"30s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Kafka struct {
	Brokers     string `envconfig:"BROKERS"`
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"spotavibe.events"`
	GroupID     string `envconfig:"GROUP_ID" default:"spotavibe"`
}

type EventBus struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
	Kafka  *Kafka `envconfig:"KAFKA"`
}

type Sentry struct {
	DSN              string  `envconfig:"DSN"`
	TracesSampleRate float64 `envconfig:"TRACES_SAMPLE_RATE" default:"0"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[spotavibe]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"0.0.0.0"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Supabase  *Supabase  `envconfig:"SUPABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	Stripe    *Stripe    `envconfig:"STRIPE"`
	Cors      *Cors      `envconfig:"CORS"`
	Redis     *Redis     `envconfig:"REDIS"`
	Portfolio *Portfolio `envconfig:"PORTFOLIO"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	EventBus  *EventBus  `envconfig:"EVENT_BUS"`
	Sentry    *Sentry    `envconfig:"SENTRY"`
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (a *App) IsProduction() bool {
	return a.Env == "production"
}
