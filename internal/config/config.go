package config

import (
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Env     string `env:"ENV,required"` // local, dev, prod
	Address string `env:"ADDRESS,required"`
}

type DatabaseConfig struct {
	PostgresConn string `env:"POSTGRES_CONN,required"`
}

type JWTConfig struct {
	Secret                  string `env:"JWT_SECRET,required"`
	AccessExpirationMinutes int    `env:"ACCESS_EXPIRATION_MINUTES" envDefault:"15"`
	RefreshExpirationDays   int    `env:"REFRESH_EXPIRATION_DAYS" envDefault:"7"`
}

type RedisConfig struct {
	RedisConn     string `env:"REDIS_CONN,required"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	DBNumber      int    `env:"REDIS_DB_NUMBER" envDefault:"0"`
}

type WalletConfig struct {
	TransferExpiry time.Duration `env:"TRANSFER_EXPIRY" envDefault:"10m"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"60s"`
	InitialPoints  int           `env:"INITIAL_POINTS" envDefault:"500"`
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Wallet   WalletConfig
}

const envFile = ".env.local"

func MustLoad() *Config {
	// the env file is optional outside local runs
	_ = godotenv.Load(envFile)

	return &Config{
		Server: ServerConfig{
			Env:     mustGetenv("ENV"),
			Address: mustGetenv("ADDRESS"),
		},
		Database: DatabaseConfig{
			PostgresConn: mustGetenv("POSTGRES_CONN"),
		},
		JWT: JWTConfig{
			Secret:                  mustGetenv("JWT_SECRET"),
			AccessExpirationMinutes: intOrDefault("ACCESS_EXPIRATION_MINUTES", 15),
			RefreshExpirationDays:   intOrDefault("REFRESH_EXPIRATION_DAYS", 7),
		},
		Redis: RedisConfig{
			RedisConn:     mustGetenv("REDIS_CONN"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			DBNumber:      intOrDefault("REDIS_DB_NUMBER", 0),
		},
		Wallet: WalletConfig{
			TransferExpiry: durationOrDefault("TRANSFER_EXPIRY", 10*time.Minute),
			SweepInterval:  durationOrDefault("SWEEP_INTERVAL", 60*time.Second),
			InitialPoints:  intOrDefault("INITIAL_POINTS", 500),
		},
	}
}

func mustGetenv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(key + " is required")
	}
	return value
}

func intOrDefault(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		panic("Invalid " + key + " format: " + err.Error())
	}
	return value
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		panic("Invalid " + key + " format: " + err.Error())
	}
	return value
}
