/*
Copyright 2026 ReadmeScope Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs the readmescope HTTP service: README documentation
// evaluation against a fixed taxonomy, via a configurable LLM backend.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/readmescope/readmescope/config"
	"github.com/readmescope/readmescope/evaluate/llmclient"
	"github.com/readmescope/readmescope/evaluate/llmclient/factory"
	"github.com/readmescope/readmescope/evaluate/llmclient/retry"
	"github.com/readmescope/readmescope/evaluate/pipeline"
	"github.com/readmescope/readmescope/readmefetch"
	"github.com/readmescope/readmescope/resultstore"
	"github.com/readmescope/readmescope/resultstore/jsonfile"
	"github.com/readmescope/readmescope/resultstore/sqlite"
	"github.com/readmescope/readmescope/server"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file; environment variables override it")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx, *configPath)
	if err != nil {
		clog.FatalContextf(ctx, "loading config: %v", err)
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts

	client, err := factory.New(ctx, factory.Config{
		Provider:        cfg.Provider,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		OllamaBaseURL:   cfg.OllamaBaseURL,
		Retry:           retryCfg,
	})
	if err != nil {
		clog.FatalContextf(ctx, "creating LLM client: %v", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		clog.FatalContextf(ctx, "opening result store: %v", err)
	}
	defer store.Close()

	p, err := pipeline.New(pipeline.Config{
		Client:     client,
		SchemaPath: cfg.SchemaPath,
		Capacity:   cfg.Capacity,
		Defaults: llmclient.Options{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.AttemptTimeout,
		},
		Metrics: pipeline.NewMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		clog.FatalContextf(ctx, "building pipeline: %v", err)
	}

	srv := server.New(server.Config{
		Addr:           cfg.Addr,
		Pipeline:       p,
		Store:          store,
		Fetcher:        readmefetch.New(cfg.GitHubToken),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	clog.InfoContextf(ctx, "readmescope starting: provider=%s model=%s store=%s addr=%s",
		cfg.Provider, cfg.Model, cfg.StoreBackend, cfg.Addr)
	if err := srv.Run(ctx); err != nil {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (resultstore.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		return sqlite.Open(ctx, cfg.StorePath)
	default:
		return jsonfile.Open(cfg.StorePath)
	}
}
