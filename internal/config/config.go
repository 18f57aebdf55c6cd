package config

import "os"

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type AuthConfig struct {
	AccessSecret        string
	RefreshSecret       string
	AccessExpiry        string
	RefreshExpiry       string
	AccessCookieExpiry  string
	RefreshCookieExpiry string
	CookieSecure        bool
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

func Load() Config {
	env := getenv("APP_ENV", "development")

	accessExpiry := getenv("ACCESS_TOKEN_EXPIRY", "15m")
	refreshExpiry := getenv("REFRESH_TOKEN_EXPIRY", "7d")

	return Config{
		Server: ServerConfig{
			Port: getenv("PORT", "8080"),
			Env:  env,
		},
		Auth: AuthConfig{
			AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
			RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
			// cookie lifetimes default to the matching token expiry so the
			// cookie never outlives the credential it carries
			AccessCookieExpiry:  getenv("ACCESS_COOKIE_EXPIRY", accessExpiry),
			RefreshCookieExpiry: getenv("REFRESH_COOKIE_EXPIRY", refreshExpiry),
			CookieSecure:        env == "production",
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
