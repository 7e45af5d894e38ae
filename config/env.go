package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Load environment variables and handle errors

func LoadEnv() {
	err := godotenv.Load()

	if err != nil {
		Logger.Warn("Error loading .env file, will use environment variables instead:", err)
		// Don't call Fatal here - continue execution
	}
}

// APIBaseURL returns the TaskFlow API root, e.g. http://localhost:8000/api/v1.
func APIBaseURL() string {
	if url := os.Getenv("TASKFLOW_API_URL"); url != "" {
		return strings.TrimRight(url, "/")
	}
	return "http://localhost:8000/api/v1"
}

// TokenPath returns the file the session credential is persisted to.
// TASKFLOW_TOKEN_FILE overrides the default location under the user config dir.
func TokenPath() (string, error) {
	if p := os.Getenv("TASKFLOW_TOKEN_FILE"); p != "" {
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taskflow", "token"), nil
}
