package githubapi

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/naka-gawa/aero-stat/internal/gateway"
	"github.com/sirupsen/logrus"
)

// DefaultAPIRoot is the root of the public GitHub REST API.
const DefaultAPIRoot = "https://api.github.com"

// PerPage is the page size requested for every listing, the API maximum.
const PerPage = 100

// Repository is the aggregate root for one repository. Its own data is a
// Resource; its contributor, pull request and issue listings are Containers
// whose URLs come from that data.
type Repository struct {
	*Resource
	Owner string
	Name  string

	root         string
	maxPages     int
	logger       *logrus.Logger
	contributors *Container[Contributor]
	pulls        *Container[Pull]
	issues       *Container[Issue]
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithRepositoryCredentials sets the credentials used for every request of the repository.
func WithRepositoryCredentials(creds *gateway.Credentials) RepositoryOption {
	return func(r *Repository) { r.src.creds = creds }
}

// WithPageLimit bounds every listing to n pages. Zero means unbounded.
func WithPageLimit(n int) RepositoryOption {
	return func(r *Repository) { r.maxPages = n }
}

// WithLogger sets the logger handed to the listings.
func WithLogger(logger *logrus.Logger) RepositoryOption {
	return func(r *Repository) { r.logger = logger }
}

// NewRepository returns an unfetched Repository. An empty apiRoot means
// DefaultAPIRoot. No request is made.
func NewRepository(fetcher gateway.Fetcher, owner, name, apiRoot string, opts ...RepositoryOption) *Repository {
	if apiRoot == "" {
		apiRoot = DefaultAPIRoot
	}
	r := &Repository{
		Resource: NewResource(fetcher, canonicalPath(apiRoot, owner, name), nil),
		Owner:    owner,
		Name:     name,
		root:     apiRoot,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logrus.New()
		r.logger.SetOutput(io.Discard)
	}
	return r
}

func canonicalPath(root, owner, name string) string {
	path, err := url.JoinPath(root, "repos", owner, name)
	if err != nil {
		// Not a parseable URL; keep it verbatim so Load reports the problem.
		return root + "/repos/" + owner + "/" + name
	}
	return path
}

// Root returns the API root the repository was created with.
func (r *Repository) Root() string {
	return r.root
}

// Path returns the canonical API URL of the repository.
func (r *Repository) Path() string {
	return r.URL()
}

// FullName returns "owner/name".
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Load fetches the repository's own data.
func (r *Repository) Load(ctx context.Context) (*Repository, error) {
	if _, err := r.Resource.Load(ctx); err != nil {
		return r, err
	}
	return r, nil
}

// relation describes how a listing URL is read from the repository data.
type relation struct {
	field  string
	params url.Values
}

var (
	contributorsRelation = relation{
		field:  "contributors_url",
		params: url.Values{"per_page": {strconv.Itoa(PerPage)}},
	}
	pullsRelation = relation{
		field:  "pulls_url",
		params: url.Values{"per_page": {strconv.Itoa(PerPage)}, "state": {"all"}},
	}
	issuesRelation = relation{
		field:  "issues_url",
		params: url.Values{"per_page": {strconv.Itoa(PerPage)}, "state": {"all"}},
	}
)

// listingURL reads the URL template of rel and turns it into the URL of the
// first listing page.
func (r *Repository) listingURL(rel relation) (string, error) {
	template, err := r.String(rel.field)
	if err != nil {
		return "", err
	}
	if template == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingAttribute, rel.field)
	}
	return MergeQuery(ExpandEmpty(template), rel.params)
}

// LoadContainers loads the contributors, pulls and issues listings, in that
// order. Load must have succeeded first since the listing URLs are fields of
// the repository data. The three containers are stored only if all loads succeed.
func (r *Repository) LoadContainers(ctx context.Context) (*Repository, error) {
	if !r.Loaded() {
		return r, fmt.Errorf("%w: repository %s must be loaded before its containers", ErrPrecondition, r.FullName())
	}

	contributorsURL, err := r.listingURL(contributorsRelation)
	if err != nil {
		return r, err
	}
	contributors, err := NewContainer(r.src.fetcher, contributorsURL, r.src.creds, NewContributor, r.containerOptions()...).Load(ctx)
	if err != nil {
		return r, fmt.Errorf("loading contributors: %w", err)
	}

	pullsURL, err := r.listingURL(pullsRelation)
	if err != nil {
		return r, err
	}
	pulls, err := NewContainer(r.src.fetcher, pullsURL, r.src.creds, NewPull, r.containerOptions()...).Load(ctx)
	if err != nil {
		return r, fmt.Errorf("loading pulls: %w", err)
	}

	issuesURL, err := r.listingURL(issuesRelation)
	if err != nil {
		return r, err
	}
	issues, err := NewContainer(r.src.fetcher, issuesURL, r.src.creds, NewIssue, r.containerOptions()...).Load(ctx)
	if err != nil {
		return r, fmt.Errorf("loading issues: %w", err)
	}

	r.contributors, r.pulls, r.issues = contributors, pulls, issues
	return r, nil
}

func (r *Repository) containerOptions() []ContainerOption {
	return []ContainerOption{WithMaxPages(r.maxPages), WithContainerLogger(r.logger)}
}

// ContainersLoaded reports whether LoadContainers has succeeded.
func (r *Repository) ContainersLoaded() bool {
	return r.contributors != nil && r.pulls != nil && r.issues != nil
}

// Contributors returns the contributors listing, nil before LoadContainers.
func (r *Repository) Contributors() *Container[Contributor] {
	return r.contributors
}

// Pulls returns the pull request listing, nil before LoadContainers.
func (r *Repository) Pulls() *Container[Pull] {
	return r.pulls
}

// Issues returns the issue listing, nil before LoadContainers.
func (r *Repository) Issues() *Container[Issue] {
	return r.issues
}
