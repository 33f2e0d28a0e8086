package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/oauth2"

	"github.com/barysiuk/ananke/internal/env"
	"github.com/barysiuk/ananke/internal/logger"
)

const (
	// DefaultGitHubAPIURL is the public GitHub REST endpoint.
	DefaultGitHubAPIURL = "https://api.github.com"
	// DefaultRequestTimeout bounds every HTTP request made by the client.
	DefaultRequestTimeout = 30 * time.Second

	userAgent = "Ananke/0.1"
)

// tokenEnvVars are consulted, in order, when no explicit token is given.
var tokenEnvVars = []string{"SKILL_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"}

// GitHubOptions configures a GitHubClient.
type GitHubOptions struct {
	APIURL     string        // defaults to DefaultGitHubAPIURL
	Timeout    time.Duration // defaults to DefaultRequestTimeout
	HTTPClient *http.Client  // base transport; a new client is used when nil
	Logger     logr.Logger   // defaults to the process logger
}

// GitHubClient downloads skills from GitHub repositories and plain URLs.
type GitHubClient struct {
	apiURL string
	base   *http.Client
	log    logr.Logger
}

// NewGitHubClient creates a client with the given options.
func NewGitHubClient(opts GitHubOptions) *GitHubClient {
	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	clone := *base
	clone.Timeout = timeout
	log := opts.Logger
	if log.GetSink() == nil {
		log = logger.NewLogr()
	}
	return &GitHubClient{apiURL: apiURL, base: &clone, log: log.WithName("github")}
}

// APIURL returns the REST endpoint the client talks to.
func (c *GitHubClient) APIURL() string { return c.apiURL }

// resolveToken picks the explicit token, falling back to the environment.
func resolveToken(explicit string, r env.Reader) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if r == nil {
		return ""
	}
	t, _ := env.FirstNonEmpty(r, tokenEnvVars...)
	return strings.TrimSpace(t)
}

// httpClient returns a client that sends token as a bearer credential.
func (c *GitHubClient) httpClient(ctx context.Context, token string) (*http.Client, error) {
	if token == "" {
		return c.base, nil
	}
	if !httpguts.ValidHeaderFieldValue(token) {
		return nil, errors.New("token contains characters that are not allowed in an HTTP header")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = c.base.Timeout
	return hc, nil
}

// validateSkillURL checks the shape every install URL must have.
func validateSkillURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("URL is required")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return "", errors.New("URL must start with http:// or https://")
	}
	return trimmed, nil
}

// githubLocation identifies a directory inside a GitHub repository.
type githubLocation struct {
	Owner  string
	Repo   string
	Branch string // empty means "try the default branch, then main, then master"
	Path   string // repository-relative, no leading slash
}

// parseGitHubLocation recognises github.com and raw.githubusercontent.com
// URLs. ok is false for any other host.
func parseGitHubLocation(raw string) (loc githubLocation, ok bool, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return loc, false, fmt.Errorf("invalid URL: %w", err)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := splitPath(u.Path)

	switch host {
	case "raw.githubusercontent.com":
		if len(segments) < 3 {
			return loc, true, errors.New("raw GitHub URL must include owner/repo/branch")
		}
		loc = githubLocation{
			Owner:  segments[0],
			Repo:   strings.TrimSuffix(segments[1], ".git"),
			Branch: segments[2],
			Path:   strings.Join(segments[3:], "/"),
		}
		return loc, true, nil
	case "github.com":
	default:
		return loc, false, nil
	}

	if len(segments) < 2 {
		return loc, true, errors.New("GitHub URL must include owner and repo")
	}
	loc.Owner = segments[0]
	loc.Repo = strings.TrimSuffix(segments[1], ".git")

	if len(segments) >= 4 && (segments[2] == "tree" || segments[2] == "blob") {
		loc.Branch = segments[3]
		loc.Path = strings.Join(segments[4:], "/")
		if segments[2] == "blob" {
			// A blob URL names a file; the skill is the directory holding it.
			if loc.Path = path.Dir(loc.Path); loc.Path == "." {
				loc.Path = ""
			}
		}
		return loc, true, nil
	}
	loc.Path = strings.Join(segments[2:], "/")
	return loc, true, nil
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// filePath returns the repository path of coreFile within the location.
func (l githubLocation) filePath(coreFile string) string {
	switch {
	case l.Path == "":
		return coreFile
	case strings.HasSuffix(l.Path, coreFile):
		return l.Path
	default:
		return l.Path + "/" + coreFile
	}
}

// directSkillURL appends coreFile to a non-GitHub URL unless it already
// names it.
func directSkillURL(raw, coreFile string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if strings.HasSuffix(u, coreFile) {
		return u
	}
	return u + "/" + coreFile
}

// fallbackNameFromURL derives a skill name from the last meaningful URL
// segment.
func fallbackNameFromURL(raw, coreFile string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "skill"
	}
	segments := splitPath(u.Path)
	if len(segments) == 0 {
		return "skill"
	}
	last := segments[len(segments)-1]
	if strings.EqualFold(last, coreFile) && len(segments) > 1 {
		return segments[len(segments)-2]
	}
	return last
}

// githubSession is a set of API calls sharing one credential and location.
type githubSession struct {
	client *GitHubClient
	http   *http.Client
	loc    githubLocation
}

func (c *GitHubClient) open(ctx context.Context, loc githubLocation, token string) (*githubSession, error) {
	hc, err := c.httpClient(ctx, token)
	if err != nil {
		return nil, err
	}
	return &githubSession{client: c, http: hc, loc: loc}, nil
}

func (s *githubSession) repoURL() string {
	return fmt.Sprintf("%s/repos/%s/%s", s.client.apiURL, url.PathEscape(s.loc.Owner), url.PathEscape(s.loc.Repo))
}

func (s *githubSession) contentsURL(repoPath, branch string) string {
	u := s.repoURL() + "/contents"
	if repoPath != "" {
		parts := splitPath(repoPath)
		for i, p := range parts {
			parts[i] = url.PathEscape(p)
		}
		u += "/" + strings.Join(parts, "/")
	}
	return u + "?" + url.Values{"ref": {branch}}.Encode()
}

// getJSON performs one GET and returns the body of a 2xx response.
func (s *githubSession) getJSON(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		s.client.log.Error(err, "request failed", "url", target)
		return nil, newNetworkError(target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(target, err)
	}
	s.client.log.V(1).Info("GET", "url", target, "status", resp.StatusCode, "authenticated", s.http != s.client.base)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(target, resp, gjson.GetBytes(body, "message").String())
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid GitHub response from %s", target)
	}
	return body, nil
}

func (s *githubSession) defaultBranch(ctx context.Context) (string, error) {
	body, err := s.getJSON(ctx, s.repoURL())
	if err != nil {
		return "", err
	}
	branch := gjson.GetBytes(body, "default_branch").String()
	if branch == "" {
		return "", errors.New("missing default_branch in GitHub response")
	}
	return branch, nil
}

// branchCandidates lists the branches to try, in order.
func (s *githubSession) branchCandidates(ctx context.Context) []string {
	if s.loc.Branch != "" {
		return []string{s.loc.Branch}
	}
	var branches []string
	if b, err := s.defaultBranch(ctx); err == nil {
		branches = append(branches, b)
	}
	for _, b := range []string{"main", "master"} {
		if !ExistsInTarget(branches, b) {
			branches = append(branches, b)
		}
	}
	return branches
}

// contentEntry is one item of a contents API response.
type contentEntry struct {
	Name     string
	Path     string
	Type     string
	SHA      string
	Content  string
	Encoding string
}

func parseContentEntry(v gjson.Result) contentEntry {
	return contentEntry{
		Name:     v.Get("name").String(),
		Path:     v.Get("path").String(),
		Type:     v.Get("type").String(),
		SHA:      v.Get("sha").String(),
		Content:  v.Get("content").String(),
		Encoding: v.Get("encoding").String(),
	}
}

func (s *githubSession) contents(ctx context.Context, repoPath, branch string) ([]contentEntry, error) {
	body, err := s.getJSON(ctx, s.contentsURL(repoPath, branch))
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	switch {
	case res.IsArray():
		var entries []contentEntry
		res.ForEach(func(_, v gjson.Result) bool {
			entries = append(entries, parseContentEntry(v))
			return true
		})
		return entries, nil
	case res.IsObject():
		return []contentEntry{parseContentEntry(res)}, nil
	default:
		return nil, errors.New("unexpected GitHub contents response")
	}
}

func decodeBase64Payload(content, encoding string) ([]byte, error) {
	if encoding != "" && encoding != "base64" {
		return nil, fmt.Errorf("unsupported GitHub encoding %q", encoding)
	}
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(content)
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	return data, nil
}

func (s *githubSession) blob(ctx context.Context, sha string) ([]byte, error) {
	body, err := s.getJSON(ctx, s.repoURL()+"/git/blobs/"+url.PathEscape(sha))
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	if !res.Get("content").Exists() {
		return nil, errors.New("missing content in GitHub blob response")
	}
	return decodeBase64Payload(res.Get("content").String(), res.Get("encoding").String())
}

// fileContent downloads one file. Large files come back without inline
// content and are fetched through the blob API.
func (s *githubSession) fileContent(ctx context.Context, repoPath, branch string) ([]byte, error) {
	body, err := s.getJSON(ctx, s.contentsURL(repoPath, branch))
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	if !res.IsObject() || res.Get("type").String() != "file" {
		return nil, fmt.Errorf("%s is not a file", repoPath)
	}
	e := parseContentEntry(res)
	if e.Content != "" {
		return decodeBase64Payload(e.Content, e.Encoding)
	}
	if e.SHA != "" {
		return s.blob(ctx, e.SHA)
	}
	return nil, errors.New("missing content in GitHub file response")
}

// downloadDir mirrors the location's directory at branch into dest.
func (s *githubSession) downloadDir(ctx context.Context, branch, dest string) error {
	return s.downloadDirRecursive(ctx, s.loc.Path, branch, dest)
}

func (s *githubSession) downloadDirRecursive(ctx context.Context, repoPath, branch, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	entries, err := s.contents(ctx, repoPath, branch)
	if err != nil {
		return err
	}
	for _, e := range entries {
		// Names come from the server; never let one climb out of dest.
		if e.Name == "" || e.Name != filepath.Base(e.Name) || e.Name == ".." {
			continue
		}
		target := filepath.Join(dest, e.Name)
		switch e.Type {
		case "dir":
			if err := s.downloadDirRecursive(ctx, e.Path, branch, target); err != nil {
				return err
			}
		case "file":
			var data []byte
			if e.SHA != "" {
				data, err = s.blob(ctx, e.SHA)
			} else {
				data, err = s.fileContent(ctx, e.Path, branch)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
		}
	}
	return nil
}

// fetchDirect downloads a core file from a plain URL.
func (c *GitHubClient) fetchDirect(ctx context.Context, target, coreFile string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.base.Do(req)
	if err != nil {
		c.log.Error(err, "request failed", "url", target)
		return nil, newNetworkError(target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.V(1).Info("GET", "url", target, "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return nil, newStatusError(target, resp, "")
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError(target, err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return nil, fmt.Errorf("%s is empty", coreFile)
	}
	return body, nil
}
