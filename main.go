package main

import (
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/netisu/relief/aeno"
)

// Initializes everything once.
func main() {
	cfg := LoadConfig()

	presets, err := LoadPresets(cfg.PresetsPath)
	if err != nil {
		log.Fatalf("Failed to load presets: %v", err)
	}

	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Endpoint:         aws.String(cfg.S3Endpoint),
		Region:           aws.String(cfg.S3Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	sess, err := session.NewSession(s3Config)
	if err != nil {
		log.Fatalf("Failed to create S3 session: %v", err)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	metrics := NewMetrics()
	server := NewServer(cfg, s3.New(sess), NewAssetCache(httpClient), presets, metrics)

	if cfg.MetricsAddress != "" {
		go func() {
			log.Printf("Serving metrics on %s", cfg.MetricsAddress)
			if err := http.ListenAndServe(cfg.MetricsAddress, metrics.Handler()); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	log.Printf("%s: %d presets, %d render workers", aeno.Banner(), len(presets), cfg.RenderWorkers)
	log.Printf("Starting server on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, server.Routes()); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
