package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPPort    int    `env:"HTTP_PORT"    envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8083"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	TempDir     string `env:"TEMP_DIR"     envDefault:"/tmp/bjj-classifier"`

	ModelServerURL string `env:"MODEL_SERVER_URL" envDefault:"http://torchserve:8080"`
	ModelName      string `env:"MODEL_NAME"       envDefault:"slowfast_r50"`
	ModelVersion   string `env:"MODEL_VERSION"    envDefault:"v1.2.3"`

	NumFrames int `env:"NUM_FRAMES" envDefault:"32"`
	Alpha     int `env:"SLOWFAST_ALPHA" envDefault:"4"`

	DefaultCategory string `env:"DEFAULT_CATEGORY" envDefault:"pulling_guard"`

	// Training examples come from a directory tree by default, or from an
	// object-store bucket when TRAINING_SOURCE=minio.
	TrainingSource string `env:"TRAINING_SOURCE" envDefault:"dir"`
	TrainingDir    string `env:"TRAINING_DIR"    envDefault:"/data/training"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"        envDefault:"minio:9000"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY"      envDefault:"minioadmin"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY"      envDefault:"minioadmin"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL"         envDefault:"false"`
	MinIOBucket    string `env:"MINIO_TRAINING_BUCKET" envDefault:"training"`

	// Optional collaborators; each stays disabled while its setting is empty.
	DatabaseURL      string `env:"DATABASE_URL"      envDefault:""`
	RabbitMQURL      string `env:"RABBITMQ_URL"      envDefault:""`
	RabbitMQExchange string `env:"RABBITMQ_EXCHANGE" envDefault:"bjj.classifier"`
	JaegerEndpoint   string `env:"JAEGER_ENDPOINT"   envDefault:""`

	SMTPHost       string `env:"SMTP_HOST"       envDefault:"mailhog"`
	SMTPPort       int    `env:"SMTP_PORT"       envDefault:"1025"`
	SMTPFrom       string `env:"SMTP_FROM"       envDefault:"noreply@bjj-classifier.local"`
	NotificationTo string `env:"NOTIFICATION_TO" envDefault:""`

	RequestTimeoutSeconds int `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"120"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
