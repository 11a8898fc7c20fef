/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

package readmefetch_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v84/github"

	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/readmefetch"
)

func TestParseRepoRef(t *testing.T) {
	t.Parallel()
	cases := []struct {
		ref         string
		owner, repo string
		wantErr     bool
	}{
		{ref: "golang/go", owner: "golang", repo: "go"},
		{ref: "github.com/golang/go", owner: "golang", repo: "go"},
		{ref: "https://github.com/golang/go", owner: "golang", repo: "go"},
		{ref: "https://www.github.com/golang/go.git", owner: "golang", repo: "go"},
		{ref: "https://github.com/golang/go/tree/master/src", owner: "golang", repo: "go"},
		{ref: "https://gitlab.com/x/y", wantErr: true},
		{ref: "justonename", wantErr: true},
		{ref: "  ", wantErr: true},
	}
	for _, tc := range cases {
		owner, repo, err := readmefetch.ParseRepoRef(tc.ref)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseRepoRef(%q): expected error", tc.ref)
				continue
			}
			var inputErr *llmclient.InputError
			if !errors.As(err, &inputErr) {
				t.Errorf("ParseRepoRef(%q): err = %v, want InputError", tc.ref, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepoRef(%q): %v", tc.ref, err)
			continue
		}
		if owner != tc.owner || repo != tc.repo {
			t.Errorf("ParseRepoRef(%q) = %s/%s, want %s/%s", tc.ref, owner, repo, tc.owner, tc.repo)
		}
	}
}

func testFetcher(t *testing.T, handler http.Handler) *readmefetch.Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parsing server URL: %v", err)
	}
	client.BaseURL = base
	return readmefetch.NewWithClient(client)
}

func TestFetchDecodesReadme(t *testing.T) {
	t.Parallel()
	f := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/golang/go/readme" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"name":     "README.md",
			"content":  base64.StdEncoding.EncodeToString([]byte("# The Go Programming Language\n")),
		})
	}))

	readme, err := f.Fetch(context.Background(), "golang/go")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if readme.Content != "# The Go Programming Language\n" {
		t.Errorf("Fetch content = %q", readme.Content)
	}
	if readme.Filename != "README.md" {
		t.Errorf("Fetch filename = %q", readme.Filename)
	}
}

func TestFetchMissingRepo(t *testing.T) {
	t.Parallel()
	f := testFetcher(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))
	if _, err := f.Fetch(context.Background(), "nobody/nothing"); err == nil {
		t.Fatal("expected error for missing repository")
	}
}

func TestFetchRejectsBadRefBeforeNetwork(t *testing.T) {
	t.Parallel()
	called := false
	f := testFetcher(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	if _, err := f.Fetch(context.Background(), "not-a-repo"); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("invalid reference must fail before any API call")
	}
}
