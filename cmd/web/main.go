package main

import (
	_ "embed"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/cellbreak/internal/config"
)

const (
	defaultHost       = "0.0.0.0"
	defaultPort       = "8080"
	defaultScoresPath = "/app/data/scores.yaml"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Fatal("failed to load env file", "err", err)
	}
	log.SetReportTimestamp(true)

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	scoresPath := config.GetEnv("CELLBREAK_SCORES", defaultScoresPath)

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newRouter(htmlPage, sshHost, scoresPath, log.Default()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting web server", "addr", "http://"+srv.Addr, "scores", scoresPath)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("server error", "err", err)
	}
}
