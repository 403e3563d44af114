package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// Config is the API service configuration, read from the environment.
type Config struct {
	Port                 string        `env:"PORT" envDefault:"8080"`
	DatabaseURL          string        `env:"DB_CONNECTION_STRING,required,notEmpty"`
	RedisAddress         string        `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword        string        `env:"REDIS_PASSWORD"`
	PrivateKeyPath       string        `env:"PRIVATE_KEY_PATH" envDefault:"/etc/certs/private.pem"`
	PublicKeyPath        string        `env:"PUBLIC_KEY_PATH" envDefault:"/etc/certs/public.pem"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	MigrationsPath       string        `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	RunMigrations        bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	CORSAllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	SecureCookies        bool          `env:"SECURE_COOKIES" envDefault:"true"`
	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	DefaultEventCapacity int           `env:"DEFAULT_EVENT_CAPACITY" envDefault:"10"`
	Version              string        `env:"APP_VERSION" envDefault:"unknown"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := parseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("config: SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.DefaultEventCapacity <= 0 {
		return nil, fmt.Errorf("config: DEFAULT_EVENT_CAPACITY must be positive, got %d", cfg.DefaultEventCapacity)
	}
	return &cfg, nil
}

// loadDotEnv is best effort: in containers the variables come from the
// environment and there is no .env file.
func loadDotEnv() {
	_ = godotenv.Load()
}

func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// LoadSigningKey reads the session signing key pair and checks that the two
// halves belong together.
func LoadSigningKey(privatePath, publicPath string) (*rsa.PrivateKey, error) {
	privateKey, err := loadPrivateKey(privatePath)
	if err != nil {
		return nil, fmt.Errorf("config: load private key: %w", err)
	}
	publicKey, err := loadPublicKey(publicPath)
	if err != nil {
		return nil, fmt.Errorf("config: load public key: %w", err)
	}
	if !privateKey.PublicKey.Equal(publicKey) {
		return nil, fmt.Errorf("config: public key %s does not match private key %s", publicPath, privatePath)
	}
	return privateKey, nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(keyData)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(keyData)
}
