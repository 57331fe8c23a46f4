package environment

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Production defines the prod environment
const Production = "prod"

// Staging defines the staging environment
const Staging = "staging"

// Dev defines the dev environment
const Dev = "dev"

// Environment holds all configuration read from the process environment
type Environment struct {
	Environment   string `mapstructure:"APP_ENV"`
	Port          string `mapstructure:"PORT"`
	Database      string `mapstructure:"DATABASE"`
	DatabaseUrl   string `mapstructure:"DATABASE_URL"`
	Redis         string `mapstructure:"REDIS"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// A connected Google account, empty when the engine runs without an external calendar
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken string `mapstructure:"GOOGLE_REFRESH_TOKEN"`
	GoogleCalendarID   string `mapstructure:"GOOGLE_CALENDAR_ID"`
}

// Global is the environment the application runs in
var Global Environment

// Initialize reads the .env file and the process environment into Global. Process
// variables win over the file.
func Initialize() {
	data, err := godotenv.Read(".env")
	if err != nil {
		data = map[string]string{}
	}

	for _, pair := range os.Environ() {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 {
			data[parts[0]] = parts[1]
		}
	}

	err = mapstructure.Decode(data, &Global)
	if err != nil {
		panic(err)
	}
}
