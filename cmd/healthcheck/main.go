package main

import (
	"net/http"
	"os"
	"time"

	"github.com/fabio-anzola/MCTG/internal/constants"
)

func main() {
	addr := os.Getenv(constants.EnvHealthAddr)
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	// The scoreboard is the cheapest unauthenticated endpoint the server
	// exposes; any non-5xx answer means the API and its database respond.
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + constants.RouteAPIPrefix + constants.RouteScoreboard)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
	os.Exit(0)
}
