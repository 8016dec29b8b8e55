package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load loads environment variables from .env file
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found")
	}
}

// RequiredStringVariable returns the value of an environment variable or panics if not set
func RequiredStringVariable(name string) string {
	value := os.Getenv(name)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", name))
	}
	return value
}

// StringVariable returns the value of an environment variable or a default value
func StringVariable(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

// DurationVariable parses a Go duration such as "500ms", falling back to the default
// when unset. Malformed values panic like the other required-style helpers.
func DurationVariable(name string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		panic(fmt.Sprintf("environment variable %s must be a duration, got: %s", name, value))
	}
	return duration
}

// IntVariable returns the value of an environment variable as int or a default value
func IntVariable(name string, defaultValue int) int {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("environment variable %s must be an integer, got: %s", name, value))
	}
	return intValue
}
