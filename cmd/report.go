package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/naka-gawa/aero-stat/internal/config"
	"github.com/naka-gawa/aero-stat/internal/domain"
	"github.com/naka-gawa/aero-stat/internal/gateway"
	"github.com/naka-gawa/aero-stat/internal/githubapi"
	"github.com/naka-gawa/aero-stat/internal/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	inputDateLayout = "2006/01/02"
	formatTable     = "table"
	formatJSON      = "json"
)

// dateValue is a pflag.Value holding a YYYY/MM/DD date. When endOfDay is set
// the parsed date is moved to the last second of that day.
type dateValue struct {
	t        time.Time
	endOfDay bool
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(inputDateLayout)
}

func (d *dateValue) Set(s string) error {
	t, err := time.Parse(inputDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date format, please use YYYY/MM/DD: %w", err)
	}
	if d.endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	d.t = t
	return nil
}

func (d *dateValue) Type() string {
	return "date"
}

func newReportCmd() *cobra.Command {
	since := &dateValue{}
	until := &dateValue{endOfDay: true}

	cmd := &cobra.Command{
		Use:   "report <repository-url>",
		Short: "Reports contributors, pull requests and issues of a repository",
		Long: `Fetches a repository with all of its contributors, pull requests and issues
and prints the active contributors, open and closed counts, and stale work.
The repository is given by URL, e.g. https://github.com/owner/name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get the verbose flag from the root command to set up the logger.
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := logrus.New()
			logger.SetOutput(io.Discard) // Default: discard all logs.
			if verbose {
				logger.SetOutput(os.Stderr) // If verbose, log to standard error.
				logger.SetLevel(logrus.DebugLevel)
			}

			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := applyFlags(cmd.Flags(), cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			format, _ := cmd.Flags().GetString("format")
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown output format %q, use %s or %s", format, formatTable, formatJSON)
			}
			creds, err := cfg.Credentials()
			if err != nil {
				return err
			}

			owner, name, err := githubapi.ParseRepositoryReference(args[0])
			if err != nil {
				return err
			}

			// Inject dependencies and run the main business logic.
			fetcher, err := gateway.NewHTTPFetcher(gateway.Options{
				Timeout:       cfg.HTTP.Timeout,
				WaitRateLimit: cfg.HTTP.WaitRateLimit,
			}, logger)
			if err != nil {
				return fmt.Errorf("failed to create GitHub fetcher: %w", err)
			}
			aggregator := usecase.NewAggregator(fetcher, logger,
				usecase.WithAPIRoot(cfg.GitHub.APIRoot),
				usecase.WithCredentials(creds),
				usecase.WithMaxPages(cfg.HTTP.MaxPages),
			)

			repo, err := aggregator.Collect(cmd.Context(), owner, name)
			if err != nil {
				return err
			}
			reports, err := aggregator.Aggregate(repo, usecase.Options{
				Since:           since.t,
				Until:           until.t,
				Branch:          cfg.Report.Branch,
				TopContributors: cfg.Report.TopContributors,
				StalePullAge:    cfg.Report.StalePullAge,
				StaleIssueAge:   cfg.Report.StaleIssueAge,
				Now:             time.Now,
			})
			if err != nil {
				return fmt.Errorf("failed to aggregate stats: %w", err)
			}
			return writeReports(cmd.OutOrStdout(), format, reports)
		},
	}

	cmd.Flags().Var(since, "since", "Only count pull requests and issues created on or after this date (YYYY/MM/DD)")
	cmd.Flags().Var(until, "until", "Only count pull requests and issues created on or before this date (YYYY/MM/DD)")
	cmd.Flags().StringP("branch", "b", "", "Base branch pull requests must target; empty string for any (default from config: master)")
	cmd.Flags().IntP("top", "n", 0, "Number of contributors to list (default from config: 30)")
	cmd.Flags().StringP("format", "f", formatTable, "Output format: table or json")
	cmd.Flags().String("api-root", "", "GitHub API root (default from config: https://api.github.com)")
	return cmd
}

// applyFlags overrides configuration with the flags given on the command line.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("branch") {
		branch, err := flags.GetString("branch")
		if err != nil {
			return err
		}
		cfg.Report.Branch = branch
	}
	if flags.Changed("top") {
		top, err := flags.GetInt("top")
		if err != nil {
			return err
		}
		cfg.Report.TopContributors = top
	}
	if flags.Changed("api-root") {
		root, err := flags.GetString("api-root")
		if err != nil {
			return err
		}
		cfg.GitHub.APIRoot = root
	}
	return nil
}

func writeReports(w io.Writer, format string, reports []*domain.Report) error {
	if format == formatJSON {
		out := make([]domain.JSONReport, len(reports))
		for i, r := range reports {
			out[i] = r.JSON()
		}
		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}
	for _, r := range reports {
		if _, err := io.WriteString(w, r.Table()); err != nil {
			return err
		}
	}
	return nil
}
