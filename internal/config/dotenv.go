package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv overlays variables from path onto the process environment
// outside production. It reports whether a file was applied.
func LoadDotEnv(path string) (bool, error) {
	if os.Getenv("ENV") == "production" {
		return false, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := godotenv.Overload(path); err != nil {
		return false, err
	}
	return true, nil
}
