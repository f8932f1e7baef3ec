package config

import (
	"os"
	"strconv"
)

// platformPort returns the port injected by hosting platforms through PORT
// when SERVER_PORT is not set explicitly. Invalid values keep fallback.
func platformPort(fallback int) int {
	if _, ok := os.LookupEnv("SERVER_PORT"); ok {
		return fallback
	}
	raw, ok := os.LookupEnv("PORT")
	if !ok || raw == "" {
		return fallback
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return fallback
	}
	return port
}
