package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Valores de CART_STORE.
const (
	CartStoreMongo  = "mongo"
	CartStoreFile   = "file"
	CartStoreMemory = "memory"
)

type Config struct {
	Port     string
	MongoURI string
	MongoDB  string

	CartStore string
	CartDir   string

	JWTSecret   string
	CORSOrigins []string

	FreeShippingThreshold float64
	ShippingFee           float64
	Currency              string

	WhatsAppNumber  string
	WhatsAppMessage string

	MaintenanceMode bool
	SearchThrottle  time.Duration

	LogLevel    string
	Development bool

	// EnvSource indica de dónde salieron las variables, para registrarlo al arrancar.
	EnvSource string
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local
	envSource := "system environment"
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			envSource = "system environment (.env unreadable: " + err.Error() + ")"
		} else {
			envSource = ".env file"
		}
	}

	mongoURI := getEnv("MONGO_URI", "")
	cartStore := strings.ToLower(getEnv("CART_STORE", ""))
	if cartStore == "" {
		cartStore = CartStoreMemory
		if mongoURI != "" {
			cartStore = CartStoreMongo
		}
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		MongoURI: mongoURI,
		MongoDB:  getEnv("MONGO_DB", "craftsStore"),

		CartStore: cartStore,
		CartDir:   getEnv("CART_DIR", "data/carts"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),

		FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", 5000),
		ShippingFee:           getEnvFloat("SHIPPING_FEE", 350),
		Currency:              getEnv("CURRENCY", "LKR"),

		WhatsAppNumber:  getEnv("WHATSAPP_NUMBER", "94752455812"),
		WhatsAppMessage: getEnv("WHATSAPP_MESSAGE", "Hi! I'm interested in your products. Can you help me?"),

		MaintenanceMode: getEnvBool("MAINTENANCE_MODE", false),
		SearchThrottle:  getEnvDuration("SEARCH_THROTTLE", 300*time.Millisecond),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "production") == "development",

		EnvSource: envSource,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
