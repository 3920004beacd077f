package cmd

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var statusServer string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the health endpoint of a running weatherd instance",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusServer, "server", "http://localhost:8080", "weatherd server URL")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
	resp, err := client.Get(statusServer + "/health")
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", statusServer, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	var health struct {
		Status   string `json:"status"`
		Version  string `json:"version"`
		Uptime   string `json:"uptime"`
		Database struct {
			Driver    string `json:"driver"`
			Status    string `json:"status"`
			SizeBytes int64  `json:"size_bytes"`
			Cities    int    `json:"cities"`
		} `json:"database"`
		Refresher *struct {
			LastRun   string `json:"last_run"`
			Cities    int    `json:"cities"`
			Refreshed int    `json:"refreshed"`
			Failed    int    `json:"failed"`
			LastError string `json:"last_error"`
		} `json:"refresher"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&health); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	// Human-readable output.
	fmt.Printf("weatherd %s\n", health.Version)
	fmt.Printf("Status: %s\n", health.Status)
	fmt.Printf("Uptime: %s\n", health.Uptime)
	fmt.Println()

	fmt.Printf("Database: %s (%s)\n", health.Database.Driver, health.Database.Status)
	if health.Database.SizeBytes > 0 {
		fmt.Printf("  Size: %s\n", formatBytes(health.Database.SizeBytes))
	}
	fmt.Printf("  Cached cities: %d\n", health.Database.Cities)

	if health.Refresher != nil {
		fmt.Println()
		fmt.Println("Refresher:")
		if health.Refresher.LastRun != "" {
			fmt.Printf("  Last run: %s\n", health.Refresher.LastRun)
		}
		fmt.Printf("  Refreshed: %d, failed: %d (of %d cities)\n",
			health.Refresher.Refreshed, health.Refresher.Failed, health.Refresher.Cities)
		if health.Refresher.LastError != "" {
			fmt.Printf("  Last error: %s\n", health.Refresher.LastError)
		}
	}

	return nil
}

func formatBytes(b int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
