// Package updater asks GitHub whether a newer HACF release exists. It only
// reports; installing a release is left to the package manager or the
// release page.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Repo is the GitHub repository releases are published from.
const Repo = "IlumCI/HACF"

// DefaultTimeout bounds a release lookup.
const DefaultTimeout = 10 * time.Second

// Release is the part of a GitHub release the check needs.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Result reports how the running version compares to the latest release.
type Result struct {
	Current   string `json:"current" yaml:"current"`
	Latest    string `json:"latest" yaml:"latest"`
	Available bool   `json:"update_available" yaml:"update_available"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Checker looks up the latest release.
type Checker struct {
	endpoint string
	client   *http.Client
}

// Option configures a Checker.
type Option func(*Checker)

// WithEndpoint overrides the latest-release URL.
func WithEndpoint(url string) Option {
	return func(c *Checker) { c.endpoint = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// New creates a Checker for Repo.
func New(opts ...Option) *Checker {
	c := &Checker{
		endpoint: "https://api.github.com/repos/" + Repo + "/releases/latest",
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest fetches the newest published release.
func (c *Checker) Latest(ctx context.Context, userAgent string) (Release, error) {
	var rel Release
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return rel, fmt.Errorf("updater: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return rel, fmt.Errorf("updater: fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return rel, fmt.Errorf("updater: GitHub returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return rel, fmt.Errorf("updater: decode release: %w", err)
	}
	if rel.TagName == "" {
		return rel, fmt.Errorf("updater: release has no tag")
	}
	return rel, nil
}

// Check compares current against the latest release. Development builds
// ("dev" or empty) never report an update.
func (c *Checker) Check(ctx context.Context, current string) (Result, error) {
	res := Result{Current: trimV(current)}
	rel, err := c.Latest(ctx, "hacf/"+res.Current)
	if err != nil {
		return res, err
	}
	res.Latest = trimV(rel.TagName)
	res.URL = rel.HTMLURL
	res.Available = Newer(res.Current, res.Latest)
	return res, nil
}

// Newer reports whether latest is a higher major.minor.patch than current.
// Pre-release and build suffixes are ignored.
func Newer(current, latest string) bool {
	cur, ok := parse(trimV(current))
	if !ok {
		return false
	}
	lat, ok := parse(trimV(latest))
	if !ok {
		return false
	}
	for i := range cur {
		if lat[i] != cur[i] {
			return lat[i] > cur[i]
		}
	}
	return false
}

func trimV(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// parse reads up to three numeric parts; missing parts are zero.
func parse(v string) ([3]int, bool) {
	var out [3]int
	if v == "" || v == "dev" {
		return out, false
	}
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) > 3 {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}
	return out, true
}
