package githubapi

import "time"

// Contributor is an entry of a repository's contributors listing.
type Contributor struct {
	*Resource
}

// NewContributor wraps res as a Contributor.
func NewContributor(res *Resource) Contributor {
	return Contributor{Resource: res}
}

func (c Contributor) Login() (string, error) {
	return c.String("login")
}

// Contributions is the number of commits the contributor authored.
func (c Contributor) Contributions() (int64, error) {
	return c.Int("contributions")
}

// Pull is an entry of a repository's pull request listing.
type Pull struct {
	*Resource
}

// NewPull wraps res as a Pull.
func NewPull(res *Resource) Pull {
	return Pull{Resource: res}
}

func (p Pull) Number() (int64, error) {
	return p.Int("number")
}

func (p Pull) Title() (string, error) {
	return p.String("title")
}

// State is "open" or "closed".
func (p Pull) State() (string, error) {
	return p.String("state")
}

func (p Pull) CreatedAt() (*time.Time, error) {
	return p.Time("created_at")
}

func (p Pull) ClosedAt() (*time.Time, error) {
	return p.Time("closed_at")
}

func (p Pull) MergedAt() (*time.Time, error) {
	return p.Time("merged_at")
}

// Author returns user.login.
func (p Pull) Author() (string, error) {
	user, err := p.Object("user")
	if err != nil {
		return "", err
	}
	return user.String("login")
}

// BaseRef returns base.ref, the branch the pull request targets.
func (p Pull) BaseRef() (string, error) {
	base, err := p.Object("base")
	if err != nil {
		return "", err
	}
	return base.String("ref")
}

// Issue is an entry of a repository's issue listing. The listing also
// returns pull requests; see IsPullRequest.
type Issue struct {
	*Resource
}

// NewIssue wraps res as an Issue.
func NewIssue(res *Resource) Issue {
	return Issue{Resource: res}
}

func (i Issue) Number() (int64, error) {
	return i.Int("number")
}

func (i Issue) Title() (string, error) {
	return i.String("title")
}

func (i Issue) State() (string, error) {
	return i.String("state")
}

func (i Issue) CreatedAt() (*time.Time, error) {
	return i.Time("created_at")
}

func (i Issue) ClosedAt() (*time.Time, error) {
	return i.Time("closed_at")
}

// IsPullRequest reports whether the entry is a pull request listed as an issue.
func (i Issue) IsPullRequest() bool {
	_, ok := i.Lookup("pull_request")
	return ok
}
