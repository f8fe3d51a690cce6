// Copyright 2025 Kotae Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kotaelabs/kotae"
	"github.com/kotaelabs/kotae/ai"
	"github.com/kotaelabs/kotae/ingestion"
	"github.com/kotaelabs/kotae/reindex"
	"github.com/kotaelabs/kotae/search"
	"github.com/kotaelabs/kotae/session"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "kotae",
		Usage: "Support knowledge base with retrieval-backed conversation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Index support page entries from a JSON file",
				Action: ingestCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a JSON array of {title, url, metadata} entries",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries to embed per API call",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent indexing workers (0 = one per CPU)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				)...),
			},
			{
				Name:      "search",
				Usage:     "Find support pages similar to a query",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of matches to return",
						Value: search.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum cosine similarity for a match",
						Value: float64(search.DefaultMinScore),
					},
				)...),
			},
			{
				Name:   "chat",
				Usage:  "Start an interactive support conversation",
				Action: chatCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.StringFlag{
						Name:  "chat-host",
						Usage: "Chat completion service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "chat-model",
						Usage: "Chat model name for replies and intent classification",
						Value: "gpt-4o-mini",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of matches retrieved per turn",
						Value: search.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum cosine similarity for a match",
						Value: float64(search.DefaultMinScore),
					},
				)...),
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed all stored records with a new embedding model",
				Action: reindexCommand,
				Flags: append(storeFlags(), append(embeddingFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				)...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// storeFlags are shared by every command that opens the record store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding dimension enforced by the store",
			Value: kotae.DefaultDimension,
		},
	}
}

// embeddingFlags are shared by every command that calls the embedding API.
func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "API key for the AI service (omit for local servers)",
		},
	}
}

func openDatabase(c *cli.Context) (*kotae.Database, error) {
	chatHost := c.String("chat-host")
	if chatHost == "" {
		chatHost = c.String("embedding-host")
	}
	chatModel := c.String("chat-model")
	if chatModel == "" {
		chatModel = ai.DefaultConfig().ChatModel
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatHost(chatHost),
		ai.WithChatModel(chatModel),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := kotae.NewDatabase(c.String("db"),
		kotae.WithDimension(c.Int("dimension")),
		kotae.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}
	var entries []ingestion.SourceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse source file: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := []ingestion.Option{
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
	}
	if c.Int("pool-size") > 0 {
		opts = append(opts, ingestion.WithPoolSize(c.Int("pool-size")))
	}
	indexer, err := db.NewIndexer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer indexer.Release()

	report, err := indexer.Index(ctx, entries)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Indexed: %d\n", report.Indexed)
	fmt.Printf("Skipped: %d\n", report.Skipped)
	fmt.Printf("Failed:  %d\n", len(report.Failed))
	for _, f := range report.Failed {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", f.Entry.URL, f.Err)
	}
	if report.HasFailures() {
		return fmt.Errorf("%d of %d entries failed", len(report.Failed), report.Total())
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	retriever, err := db.NewRetriever(
		search.WithTopK(c.Int("top-k")),
		search.WithMinScore(float32(c.Float64("min-score"))))
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	matches, err := retriever.Retrieve(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(matches))
	for i, hit := range matches {
		fmt.Printf("%d: '%s' %s [%0.3f]\n", i, hit.Record.Title, hit.Record.URL, hit.Score)
	}
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	orchestrator, err := db.NewOrchestrator([]search.Option{
		search.WithTopK(c.Int("top-k")),
		search.WithMinScore(float32(c.Float64("min-score"))),
	}, nil, session.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	fmt.Println("Type a question. An empty line, \"quit\", or \"exit\" ends the session.")

	var sessionID string
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "quit" || line == "exit" {
			break
		}

		result, err := orchestrator.Ask(ctx, sessionID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		sessionID = result.SessionID
		fmt.Println(result.Reply)
		fmt.Println()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if sessionID != "" {
		orchestrator.End(sessionID)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	reindexer := db.NewReindexer(config, os.Stderr)
	if err := reindexer.Run(ctx); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
