package validate

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Env validates required configuration before anything connects.
// Fail-fast on bad config.
func Env() error {
	if os.Getenv("DATABASE_URL") == "" {
		return errors.New("DATABASE_URL must be set")
	}

	// The JWT secret is optional (anonymous-only deployments), but when set
	// it has to be long enough to be worth verifying against.
	if secret := os.Getenv("AUTH_JWT_SECRET"); secret != "" && len(secret) < 32 {
		return errors.New("AUTH_JWT_SECRET must be at least 32 characters")
	}

	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("PORT %q is not a valid port", port)
		}
	}

	if days := os.Getenv("HISTORY_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err != nil || n < 1 {
			return fmt.Errorf("HISTORY_RETENTION_DAYS %q must be a positive integer", days)
		}
	}
	return nil
}
