package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Sipariş düşümünde uygulanan politika
const (
	DeductionPolicyBestEffort   = "best_effort"    // satır hatalarında devam et, kısmi sonuç raporla
	DeductionPolicyAllOrNothing = "all_or_nothing" // tek satır bile başarısızsa tamamını geri al
)

type Config struct {
	HTTPPort        string
	DatabaseDSN     string
	JWTSecret       string
	CORSOrigins     string
	StorageTimeout  time.Duration // her depolama çağrısı için üst süre sınırı
	DeductionPolicy string        // best_effort | all_or_nothing
}

func Load() *Config {
	// .env varsa yükle (yoksa sorun değil, environment'tan okunur)
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=mutfak port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		StorageTimeout:  getDurationEnv("STORAGE_TIMEOUT", 5*time.Second),
		DeductionPolicy: getEnv("DEDUCTION_POLICY", DeductionPolicyBestEffort),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DeductionPolicy != DeductionPolicyBestEffort && cfg.DeductionPolicy != DeductionPolicyAllOrNothing {
		log.Fatalf("[FATAL] DEDUCTION_POLICY geçersiz: %q (best_effort veya all_or_nothing olmalı)", cfg.DeductionPolicy)
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=mutfak port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[WARN] %s geçersiz (%q), varsayılan %s kullanılıyor", key, v, def)
		return def
	}
	return d
}
