package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the field client (and the dev API stub) reads
// from the environment.
type Config struct {
	APIURL           string
	Token            string
	DBPath           string
	QueuePath        string
	JWTSecret        string
	Port             string
	GoogleMapsAPIKey string

	// Simulated device GPS fix. Both unset means location permission is
	// denied and the route planner falls back to the first located job.
	DeviceLat *float64
	DeviceLng *float64
}

// Load reads .env (if present) and the environment into a Config
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	return &Config{
		APIURL:           getenv("TRADIETRACK_API_URL", "http://localhost:8080"),
		Token:            os.Getenv("TRADIETRACK_TOKEN"),
		DBPath:           getenv("TRADIETRACK_DB_PATH", "tradietrack.db"),
		QueuePath:        getenv("TRADIETRACK_QUEUE_PATH", "tradietrack-queue.db"),
		JWTSecret:        os.Getenv("TRADIETRACK_JWT_SECRET"),
		Port:             getenv("PORT", "8080"),
		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		DeviceLat:        getenvFloat("DEVICE_LAT"),
		DeviceLng:        getenvFloat("DEVICE_LNG"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string) *float64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("⚠️  Ignoring %s: not a number (%q)", key, v)
		return nil
	}
	return &f
}
