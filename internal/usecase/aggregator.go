// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/aero-stat/internal/domain"
	"github.com/naka-gawa/aero-stat/internal/gateway"
	"github.com/naka-gawa/aero-stat/internal/githubapi"
	"github.com/sirupsen/logrus"
)

const (
	stateOpen   = "open"
	stateClosed = "closed"
)

// Options controls what Aggregate counts.
type Options struct {
	// Since and Until bound the creation time of counted pull requests and
	// issues. A zero value leaves that side unbounded.
	Since time.Time
	Until time.Time
	// Branch restricts pull requests to those targeting it. Empty means any branch.
	Branch string
	// TopContributors is how many contributors the contributors report lists.
	TopContributors int
	// StalePullAge and StaleIssueAge are how long an item must have been open to be stale.
	StalePullAge  time.Duration
	StaleIssueAge time.Duration
	// Now is the reference time for staleness when Until is zero.
	Now func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Branch:          "master",
		TopContributors: 30,
		StalePullAge:    30 * 24 * time.Hour,
		StaleIssueAge:   14 * 24 * time.Hour,
		Now:             time.Now,
	}
}

// reference is the time stale ages are measured from.
func (o Options) reference() time.Time {
	if !o.Until.IsZero() {
		return o.Until
	}
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) inPeriod(t time.Time) bool {
	if !o.Since.IsZero() && t.Before(o.Since) {
		return false
	}
	if !o.Until.IsZero() && t.After(o.Until) {
		return false
	}
	return true
}

// Aggregator is the use case for aggregating repository stats.
// It orchestrates the fetching of a repository and the computation of its reports.
type Aggregator struct {
	fetcher  gateway.Fetcher
	logger   *logrus.Logger
	apiRoot  string
	creds    *gateway.Credentials
	maxPages int
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithAPIRoot sets the API root repositories are fetched from.
func WithAPIRoot(root string) AggregatorOption {
	return func(a *Aggregator) { a.apiRoot = root }
}

// WithCredentials sets the credentials sent with every request.
func WithCredentials(creds *gateway.Credentials) AggregatorOption {
	return func(a *Aggregator) { a.creds = creds }
}

// WithMaxPages bounds every listing to n pages.
func WithMaxPages(n int) AggregatorOption {
	return func(a *Aggregator) { a.maxPages = n }
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *logrus.Logger, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		apiRoot: githubapi.DefaultAPIRoot,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Collect fetches a repository and its contributors, pulls and issues, one after another.
func (a *Aggregator) Collect(ctx context.Context, owner, name string) (*githubapi.Repository, error) {
	repo := githubapi.NewRepository(a.fetcher, owner, name, a.apiRoot,
		githubapi.WithRepositoryCredentials(a.creds),
		githubapi.WithPageLimit(a.maxPages),
		githubapi.WithLogger(a.logger),
	)

	a.logger.Infof("[1/2] Fetching repository %s...", repo.FullName())
	if _, err := repo.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load repository %s: %w", repo.FullName(), err)
	}
	a.logger.Info("[2/2] Fetching contributors, pull requests and issues...")
	if _, err := repo.LoadContainers(ctx); err != nil {
		return nil, fmt.Errorf("failed to load listings of %s: %w", repo.FullName(), err)
	}
	a.logger.WithFields(logrus.Fields{
		"contributors": repo.Contributors().Len(),
		"pulls":        repo.Pulls().Len(),
		"issues":       repo.Issues().Len(),
	}).Info("Completed fetching repository data.")
	return repo, nil
}

// Aggregate computes the reports of a repository whose listings are loaded.
// It only reads the repository.
func (a *Aggregator) Aggregate(repo *githubapi.Repository, opts Options) ([]*domain.Report, error) {
	if !repo.ContainersLoaded() {
		return nil, fmt.Errorf("%w: listings of %s are not loaded", githubapi.ErrPrecondition, repo.FullName())
	}
	a.logger.Info("Usecase: Starting data aggregation...")

	contributors, err := contributorsReport(repo.Contributors().Items(), opts.TopContributors)
	if err != nil {
		return nil, err
	}

	pulls, err := filterPulls(repo.Pulls().Items(), opts)
	if err != nil {
		return nil, err
	}
	issues, err := filterIssues(repo.Issues().Items(), opts)
	if err != nil {
		return nil, err
	}

	reports := []*domain.Report{
		contributors,
		stateReport("Pull requests", pulls),
		staleReport("Stale pull requests", pulls, opts.reference(), opts.StalePullAge),
		stateReport("Issues", issues),
		staleReport("Stale issues", issues, opts.reference(), opts.StaleIssueAge),
	}
	a.logger.Info("Usecase: Aggregation complete.")
	return reports, nil
}

// entry is the part of a pull request or issue the state reports need.
type entry struct {
	state     string
	createdAt time.Time
}

func contributorsReport(contributors []githubapi.Contributor, top int) (*domain.Report, error) {
	type row struct {
		login         string
		contributions int64
	}
	rows := make([]row, 0, len(contributors))
	for _, c := range contributors {
		login, err := c.Login()
		if err != nil {
			return nil, err
		}
		contributions, err := c.Contributions()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row{login: login, contributions: contributions})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].contributions != rows[j].contributions {
			return rows[i].contributions > rows[j].contributions
		}
		return rows[i].login < rows[j].login
	})
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	report := domain.NewReport("Active contributors", "Login", "Contributions")
	for _, r := range rows {
		report.AddRow(r.login, r.contributions)
	}
	return report, nil
}

func filterPulls(pulls []githubapi.Pull, opts Options) ([]entry, error) {
	entries := make([]entry, 0, len(pulls))
	for _, p := range pulls {
		if opts.Branch != "" {
			ref, err := p.BaseRef()
			if err != nil {
				return nil, err
			}
			if ref != opts.Branch {
				continue
			}
		}
		e, ok, err := newEntry(p.State, p.CreatedAt, opts)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func filterIssues(issues []githubapi.Issue, opts Options) ([]entry, error) {
	entries := make([]entry, 0, len(issues))
	for _, i := range issues {
		if i.IsPullRequest() {
			continue
		}
		e, ok, err := newEntry(i.State, i.CreatedAt, opts)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// newEntry reads state and creation time and reports whether the item was created in the period.
func newEntry(state func() (string, error), createdAt func() (*time.Time, error), opts Options) (entry, bool, error) {
	s, err := state()
	if err != nil {
		return entry{}, false, err
	}
	created, err := createdAt()
	if err != nil {
		return entry{}, false, err
	}
	if created == nil || !opts.inPeriod(*created) {
		return entry{}, false, nil
	}
	return entry{state: s, createdAt: *created}, true, nil
}

func stateReport(name string, entries []entry) *domain.Report {
	open, closed := 0, 0
	for _, e := range entries {
		switch e.state {
		case stateOpen:
			open++
		case stateClosed:
			closed++
		}
	}
	report := domain.NewReport(name, "Open", "Closed")
	report.AddRow(open, closed)
	return report
}

func staleReport(name string, entries []entry, reference time.Time, age time.Duration) *domain.Report {
	var ages stats.Float64Data
	for _, e := range entries {
		if e.state == stateOpen && e.createdAt.Before(reference.Add(-age)) {
			ages = append(ages, reference.Sub(e.createdAt).Hours()/24)
		}
	}

	median, longest := 0.0, 0.0
	if len(ages) > 0 {
		// Both only fail on empty input.
		median, _ = stats.Median(ages)
		longest, _ = stats.Max(ages)
		median, _ = stats.Round(median, 1)
		longest, _ = stats.Round(longest, 1)
	}
	report := domain.NewReport(name, "Stale", "Median age (days)", "Max age (days)")
	report.AddRow(len(ages), median, longest)
	return report
}
