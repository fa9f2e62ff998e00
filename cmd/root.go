// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/aero-stat/internal/gateway"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitAuth      = 2
	exitTransport = 3
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aero-stat",
		Short: "A CLI tool to report activity statistics of a GitHub repository.",
		Long: `aero-stat reads a repository, its contributors, pull requests and issues
from the GitHub REST API, following pagination to the last page, and reports
who contributes and how much work is open or stale.
You can specify a date range and a base branch to filter the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Add a persistent flag for verbose output, available to all commands.
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	cmd.PersistentFlags().String("config", "", "Path to a configuration file (default .aero-stat.yaml or ~/.aero-stat/config.yaml)")
	cmd.AddCommand(newReportCmd())
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status: 2 for rejected
// credentials and rate limits, 3 for other transport failures, 1 otherwise.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		return exitAuth
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return exitAuth
		}
	}
	if errors.Is(err, gateway.ErrTransport) {
		return exitTransport
	}
	return exitFailure
}
