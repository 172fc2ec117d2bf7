package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string `env:"ENV" env-required:"true" yaml:"env"`
	LogLevel      string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc." yaml:"log_level"`
	HttpServer    HttpServer
	Database      Database
	Limiter       Limiter
	Auth          AuthConfig
	PasswordReset PasswordResetConfig
	SMTP          SMTPConfig
	Email         EmailConfig
	Cache         Cache
	Queue         Queue
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"4s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	CorsOrigins    []string      `env:"HTTP_CORS_ORIGINS" env-default:"http://localhost:3000" env-description:"comma separated list of allowed origins"`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"40"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"40"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	BcryptCost int `env:"AUTH_BCRYPT_COST" env-default:"10"`
}

type PasswordResetConfig struct {
	CodeTTL         time.Duration `env:"RESET_CODE_TTL" env-default:"10m" env-description:"lifetime of an issued reset code"`
	RecordRetention time.Duration `env:"RESET_RECORD_RETENTION" env-default:"1h" env-description:"how long an expired or used code is kept to report it precisely"`
	ResendCooldown  time.Duration `env:"RESET_RESEND_COOLDOWN" env-default:"0s" env-description:"minimum delay between two codes for one email, 0 disables"`
	MaxAttempts     int           `env:"RESET_MAX_ATTEMPTS" env-default:"0" env-description:"wrong codes allowed per issued code, 0 disables"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST" env-required:"true"`
	Port int    `env:"SMTP_PORT" env-required:"true"`
	From string `env:"SMTP_FROM" env-required:"true"`
	Pass string `env:"SMTP_PASS" env-required:"true"`
}

type EmailConfig struct {
	Enabled   bool   `env:"EMAIL_ENABLED" env-default:"false"`
	Dir       string `env:"EMAIL_TEMPLATES_DIR" env-default:"./templates"`
	Templates EmailTemplates
}

type EmailTemplates struct {
	PasswordResetCode string `env:"EMAIL_TEMPLATE_PASSWORD_RESET_CODE" env-default:"password_reset_code.html"`
	PasswordChanged   string `env:"EMAIL_TEMPLATE_PASSWORD_CHANGED" env-default:"password_changed.html"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-required:"true" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes: ['172.27.29.90:7000','172.27.29.91:7001'', '172.27.29.92:7002'']"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"70" env-description:"max tcp connections pool size"`
	}
}

type Queue struct {
	Concurrency int `env:"QUEUE_CONCURRENCY" env-default:"10"`
	MaxRetry    int `env:"QUEUE_MAX_RETRY" env-default:"5"`
}

// Load reads the optional YAML file at CONFIG_PATH and then the environment,
// which always wins.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return cfg
}
