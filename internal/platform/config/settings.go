package config

import (
	"net"
	"strconv"
	"time"
)

// App holds process-level settings.
type App struct {
	Host string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"APP_PORT" envDefault:"8000"`

	// BaseURL is the externally reachable root of this service; confirmation
	// links in outbound email are built from it.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://127.0.0.1:8000"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text|json
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`  // debug|info|warn|error

	// StorageBackend selects the storage adapter: memory for local dev and
	// tests, postgres for real deployments.
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`

	// EmailBackend selects the mail adapter: dev writes messages to disk,
	// postmark sends them for real.
	EmailBackend string `env:"EMAIL_BACKEND" envDefault:"dev"`
}

func (a App) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Postgres holds connection settings for the postgres storage backend.
type Postgres struct {
	URL           string        `env:"DATABASE_URL"`
	MaxConns      int32         `env:"PG_MAX_CONNS" envDefault:"10"`
	MinConns      int32         `env:"PG_MIN_CONNS" envDefault:"2"`
	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"2s"`
}

// Email holds outbound email settings.
type Email struct {
	PostmarkServerToken  string        `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string        `env:"POSTMARK_ACCOUNT_TOKEN"`
	Sender               string        `env:"SENDER_EMAIL"`
	MessageStream        string        `env:"POSTMARK_MESSAGE_STREAM"`
	SendTimeout          time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"10s"`

	// DevOutboxDir is where the dev email backend writes messages.
	DevOutboxDir string `env:"DEV_OUTBOX_DIR" envDefault:"./outbox"`
}
