package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	BackendFile      = "file"
	BackendFirestore = "firestore"
)

type Config struct {
	ServerPort  string
	Environment string

	DataDir                 string
	StoreBackend            string
	FirestoreProject        string
	FirestoreRootCollection string
	ServiceAccountPath      string

	JWTSecret string
	JWTExpiry int64

	AuthRateLimit int

	AdminEmail    string
	AdminPassword string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		Environment:             getEnv("ENVIRONMENT", EnvDevelopment),
		DataDir:                 getEnv("DATA_DIR", "./db"),
		StoreBackend:            getEnv("STORE_BACKEND", BackendFile),
		FirestoreProject:        getEnv("FIRESTORE_PROJECT_ID", ""),
		FirestoreRootCollection: getEnv("FIRESTORE_ROOT_COLLECTION", "laburo_collections"),
		ServiceAccountPath:      getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		JWTSecret:               getEnv("JWT_SECRET", "your-secret-key"),
		JWTExpiry:               getEnvAsInt64("JWT_EXPIRY", 24*60*60), // 24 hours
		AuthRateLimit:           int(getEnvAsInt64("AUTH_RATE_LIMIT", 5)),
		AdminEmail:              getEnv("ADMIN_EMAIL", ""),
		AdminPassword:           getEnv("ADMIN_PASSWORD", ""),
	}

	return config, nil
}

// AutoInit reports whether collections load on first access. Test runs
// control load timing themselves.
func (c *Config) AutoInit() bool {
	return c.Environment != EnvTest
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
