package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"securerisk/pkg/client"
)

var (
	serverURL string
	username  string
	password  string
)

var rootCmd = &cobra.Command{
	Use:          "riskctl",
	Short:        "Command-line client for the SecureRisk risk register",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("RISKCTL_SERVER", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", os.Getenv("RISKCTL_USERNAME"), "username")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", os.Getenv("RISKCTL_PASSWORD"), "password")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// session logs in with the configured credentials. Every invocation
// authenticates fresh; riskctl never writes the token to disk.
func session(ctx context.Context) (*client.Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required (flags or RISKCTL_USERNAME/RISKCTL_PASSWORD)")
	}
	return client.New(serverURL).Login(ctx, username, password)
}
