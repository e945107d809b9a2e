package config

import (
	"fmt"
	"os"
	"strconv"
)

type ServerConfig struct {
	Port               string
	WorkerPoolSize     int
	MinTargetPages     int
	MaxTargetPages     int
	DefaultTargetPages int
}

func GetServerConfig() (*ServerConfig, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	poolSize := 120
	if raw := os.Getenv("WORKER_POOL_SIZE"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("invalid WORKER_POOL_SIZE: %q", raw)
		}
		poolSize = parsed
	}

	return &ServerConfig{
		Port:               port,
		WorkerPoolSize:     poolSize,
		MinTargetPages:     1,
		MaxTargetPages:     50,
		DefaultTargetPages: 10,
	}, nil
}
