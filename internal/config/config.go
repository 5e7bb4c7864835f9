package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL string // 接続文字列。指定時はPOSTGRES_*より優先

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // sslmode（disable）

	JWTSecret string // JWT署名シークレット
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	pgPort := 5432
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("POSTGRES_PORT must be number: %w", err)
		}
		pgPort = p
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	//必須チェック（DATABASE_URL指定時はDB系は不要）
	if cfg.DatabaseURL == "" {
		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
