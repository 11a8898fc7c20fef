/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package readmefetch resolves a repository reference to its README text
// via the GitHub API, so callers can evaluate a repository without pasting
// README contents by hand.
package readmefetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"

	"github.com/readmescope/readmescope/evaluate/llmclient"
)

// Fetcher fetches READMEs. Safe for concurrent use.
type Fetcher struct {
	client *github.Client
}

// New builds a Fetcher. An empty token uses unauthenticated access, which
// is rate-limited but sufficient for public repositories.
func New(token string) *Fetcher {
	var client *github.Client
	if token != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(context.Background(), source))
	} else {
		client = github.NewClient(nil)
	}
	return &Fetcher{client: client}
}

// NewWithClient wraps an existing GitHub client, which lets tests point at
// a local server.
func NewWithClient(client *github.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Readme is a fetched README.
type Readme struct {
	// Content is the decoded README text.
	Content string
	// Filename is the file GitHub selected as the repository README.
	Filename string
}

// Fetch resolves ref (an "owner/repo" pair or a github.com URL) and returns
// the repository's preferred README decoded to text.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (Readme, error) {
	owner, repo, err := ParseRepoRef(ref)
	if err != nil {
		return Readme{}, err
	}
	readme, _, err := f.client.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		return Readme{}, fmt.Errorf("fetching README for %s/%s: %w", owner, repo, err)
	}
	content, err := readme.GetContent()
	if err != nil {
		return Readme{}, fmt.Errorf("decoding README for %s/%s: %w", owner, repo, err)
	}
	return Readme{Content: content, Filename: readme.GetName()}, nil
}

// ParseRepoRef extracts owner and repo from a repository reference. Accepted
// forms: "owner/repo", "github.com/owner/repo", and https URLs with optional
// extra path segments and a trailing ".git".
func ParseRepoRef(ref string) (owner, repo string, err error) {
	s := strings.TrimSpace(ref)
	if s == "" {
		return "", "", &llmclient.InputError{Msg: "repository reference is required"}
	}

	if strings.Contains(s, "://") {
		u, parseErr := url.Parse(s)
		if parseErr != nil {
			return "", "", &llmclient.InputError{Msg: fmt.Sprintf("invalid repository URL %q", ref)}
		}
		if u.Host != "github.com" && u.Host != "www.github.com" {
			return "", "", &llmclient.InputError{Msg: fmt.Sprintf("unsupported host %q, only github.com is supported", u.Host)}
		}
		s = strings.TrimPrefix(u.Path, "/")
	} else {
		s = strings.TrimPrefix(s, "www.github.com/")
		s = strings.TrimPrefix(s, "github.com/")
	}

	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &llmclient.InputError{Msg: fmt.Sprintf("repository reference %q is not owner/repo", ref)}
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
