package config

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/wogarma/missions-api/models"
)

// Config holds the project config values
type Config struct {
	URL              string
	DatabaseName     string
	Port             string
	CloudinaryURL    string
	CloudinaryKey    string
	CloudinarySecret string
}

// New sets up all config related services
func New() *Config {
	// a .env file is optional, deployments configure through the environment
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger, err := setLogger(os.Getenv("APP_ENV"))
	if err != nil {
		logger = zap.NewExample()
	}
	// the logger stays open for the process lifetime, main syncs it on shutdown
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:              os.Getenv("DB_URI"),
		DatabaseName:     os.Getenv("DB_NAME"),
		Port:             os.Getenv("PORT"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}
}

func setLogger(environment string) (*zap.Logger, error) {
	switch environment {
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewExample(), nil
	}
}

// ErrorStatus logs the underlying error with detail and writes the
// generic message body for the given status code
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorResponse{Error: message})
	w.Write(b)
}
