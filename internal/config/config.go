package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
)

// Backends soportados para guardar la sesion del cliente.
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// ClientConfig centraliza la configuración del cliente de terminal.
type ClientConfig struct {
	APIBaseURL     string        `env:"LIBRARY_API_BASE_URL" envDefault:"http://localhost:8080/api"`
	APITimeout     time.Duration `env:"LIBRARY_API_TIMEOUT" envDefault:"10s"`
	SessionBackend string        `env:"LIBRARY_SESSION_BACKEND" envDefault:"file"`
	SessionFile    string        `env:"LIBRARY_SESSION_FILE"`
	SessionPrefix  string        `env:"LIBRARY_SESSION_PREFIX" envDefault:"library:session:"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"warn"`
}

// ServerConfig centraliza la configuración del backend de desarrollo.
type ServerConfig struct {
	HTTPPort         string        `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTTTLMinutes    int           `env:"JWT_TTL_MINUTES" envDefault:"1440"`
	SeedCatalog      bool          `env:"SEED_CATALOG" envDefault:"true"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW" envDefault:"1m"`
}

// LoadClientConfig carga la configuración del cliente desde variables de entorno.
func LoadClientConfig() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.SessionFile == "" {
		cfg.SessionFile = DefaultSessionFile()
	}
	return &cfg, nil
}

// LoadServerConfig carga la configuración del backend desde variables de entorno.
func LoadServerConfig() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultSessionFile devuelve ~/.library/session.json, o un archivo relativo
// si no se puede resolver el home.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".library", "session.json")
	}
	return filepath.Join(home, ".library", "session.json")
}
