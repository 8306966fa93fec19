package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	UploadDir        string
	CookieSecure     bool
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] no .env file found, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	UploadDir = GetEnv("UPLOAD_DIR", "uploads")
	CookieSecure = GetEnv("COOKIE_SECURE", "false") == "true"

	if JWTSecret == "" {
		log.Println("[ERROR] JWT_SECRET is not set")
	}
	if JWTRefreshSecret == "" {
		log.Println("[ERROR] JWT_REFRESH_SECRET is not set")
	}

	if err := os.MkdirAll(UploadDir, 0o755); err != nil {
		log.Printf("[WARN] cannot create upload dir %q: %v", UploadDir, err)
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
