package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port                 int
	TCPPort              int
	DBDSN                string
	JWTSecret            string
	WSInsecureSkipVerify bool
}

func Load() Config {
	port := 5000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	tcpPort := 9000
	if v := os.Getenv("TCP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			tcpPort = p
		}
	}

	wsInsecure := false
	if os.Getenv("WS_INSECURE_SKIP_VERIFY") == "true" {
		wsInsecure = true
	}

	return Config{
		Port:                 port,
		TCPPort:              tcpPort,
		DBDSN:                os.Getenv("DB_DSN"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		WSInsecureSkipVerify: wsInsecure,
	}
}
