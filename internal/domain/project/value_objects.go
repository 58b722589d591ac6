package project

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"gitcollab/internal/domain/errs"
)

// GitHubPrefix is the only accepted repository URL prefix.
const GitHubPrefix = "https://github.com/"

const (
	maxDescriptionLength = 500
	maxCommentLength     = 500
)

// ProjectID is a value object representing a project's unique identifier
type ProjectID struct {
	value uuid.UUID
}

// NewProjectID creates a new ProjectID
func NewProjectID() ProjectID {
	return ProjectID{value: uuid.New()}
}

// ParseProjectID parses a string into a ProjectID
func ParseProjectID(id string) (ProjectID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ProjectID{}, fmt.Errorf("invalid project ID format: %w", err)
	}
	return ProjectID{value: uid}, nil
}

func (id ProjectID) String() string {
	return id.value.String()
}

func (id ProjectID) UUID() uuid.UUID {
	return id.value
}

func (id ProjectID) Equals(other ProjectID) bool {
	return id.value == other.value
}

// RepositoryURL is a normalized https://github.com/<owner>/<repo> reference.
type RepositoryURL struct {
	value string
}

// NewRepositoryURL validates and normalizes a repository URL.
// Surrounding whitespace, a trailing slash and a ".git" suffix are stripped.
func NewRepositoryURL(raw string) (RepositoryURL, error) {
	url := strings.TrimSpace(raw)
	url = strings.TrimRight(url, "/")
	url = strings.TrimSuffix(url, ".git")

	if url == "" {
		return RepositoryURL{}, errs.New(errs.CodeInvalidRepositoryURL, "repository URL cannot be empty")
	}

	if !strings.HasPrefix(url, GitHubPrefix) {
		return RepositoryURL{}, errs.Newf(errs.CodeInvalidRepositoryURL, "repository URL must start with %s", GitHubPrefix)
	}

	if len(pathSegments(url)) < 2 {
		return RepositoryURL{}, errs.New(errs.CodeInvalidRepositoryURL, "repository URL must name an owner and a repository")
	}

	return RepositoryURL{value: url}, nil
}

// OwnerAndName returns the last two path segments of the URL.
func (u RepositoryURL) OwnerAndName() (owner, name string, err error) {
	segs := pathSegments(u.value)
	if len(segs) < 2 {
		return "", "", errs.Newf(errs.CodeMalformedRepoReference, "cannot derive owner and repository from %q", u.value)
	}
	return segs[len(segs)-2], segs[len(segs)-1], nil
}

func (u RepositoryURL) String() string {
	return u.value
}

func (u RepositoryURL) Equals(other RepositoryURL) bool {
	return strings.EqualFold(u.value, other.value)
}

func pathSegments(url string) []string {
	var segs []string
	for _, s := range strings.Split(strings.TrimPrefix(url, GitHubPrefix), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// Description is the free-text project pitch.
type Description struct {
	value string
}

// NewDescription creates a Description with validation
func NewDescription(text string) (Description, error) {
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) > maxDescriptionLength {
		return Description{}, errs.Newf(errs.CodeInvalidInput, "description too long (max %d characters)", maxDescriptionLength)
	}

	return Description{value: text}, nil
}

func (d Description) String() string {
	return d.value
}

// Capacity is the number of contributors a project still needs. Never negative.
type Capacity struct {
	value int
}

// NewCapacity creates a Capacity with validation
func NewCapacity(n int) (Capacity, error) {
	if n < 0 {
		return Capacity{}, errs.New(errs.CodeInvalidInput, "contributors needed cannot be negative")
	}
	return Capacity{value: n}, nil
}

// Decrement returns the capacity reduced by one, floored at zero.
func (c Capacity) Decrement() Capacity {
	if c.value == 0 {
		return c
	}
	return Capacity{value: c.value - 1}
}

func (c Capacity) Int() int {
	return c.value
}
