package instance

import "github.com/rowdysden/rowdysden-backend/pkg/env"

// GetID names the running API process for log correlation. Heroku-style DYNO
// wins over HOSTNAME.
func GetID() string {
	return env.Get("DYNO", env.Get("HOSTNAME", "local"))
}
