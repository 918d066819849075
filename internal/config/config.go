package config

import (
	"fmt"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	Host string `env:"HOST,default=0.0.0.0"`
	Port int    `env:"PORT,default=8080"`

	DatabasePath string `env:"DATABASE_PATH,default=bharatgram.db"`

	JWTSecret string        `env:"JWT_SECRET,default=development-insecure-secret-change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=720h"`

	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`

	// Outbound events queued per connection before best-effort drops kick in.
	SendBufferSize int `env:"SEND_BUFFER_SIZE,default=64"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
