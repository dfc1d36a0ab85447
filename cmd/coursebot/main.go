// Copyright 2025 Poiesic Systems
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ching011500/coursebot"
	"github.com/ching011500/coursebot/ai"
	"github.com/ching011500/coursebot/ingest"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "coursebot",
		Usage: "Natural-language question answering over a course catalog",
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
				Name:   "rebuild",
				Usage:  "Rebuild the course index from a catalog database",
				Action: rebuildCommand,
				Flags: append(indexFlags(),
					&cli.StringFlag{
						Name:     "courses",
						Aliases:  []string{"c"},
						Usage:    "Path to the SQLite course catalog",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of courses to embed in each batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding batches",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run one retrieval pass and print ranked courses",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(indexFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "semantic-only",
						Usage: "Skip the lexical signal and rank by embedding similarity alone",
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Answer one question about the catalog",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags:     append(indexFlags(), queryFlags()...),
			},
			{
				Name:   "chat",
				Usage:  "Answer questions interactively until EOF",
				Action: chatCommand,
				Flags:  append(indexFlags(), queryFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// indexFlags are shared by every command that opens the index.
func indexFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB index directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

// queryFlags cover answer generation on top of retrieval.
func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "generator-host",
			Usage: "Answer generator service host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "generator-model",
			Usage: "Answer generator model name",
			Value: "qwen2.5:3b",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "Maximum number of courses in the answer",
			Value:   10,
		},
		&cli.DurationFlag{
			Name:  "generation-timeout",
			Usage: "Maximum time to wait for one generated answer",
			Value: 60 * time.Second,
		},
	}
}

// openService wires a Service from the shared flags.
func openService(c *cli.Context, opts ...coursebot.ServiceOption) (*coursebot.Service, error) {
	configOpts := []ai.ConfigOption{
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	}

	// Commands without generation flags keep the config defaults.
	generatorHost := c.String("generator-host")
	if generatorHost == "" {
		generatorHost = c.String("embedding-host")
	}
	configOpts = append(configOpts, ai.WithGeneratorHost(generatorHost))
	if model := c.String("generator-model"); model != "" {
		configOpts = append(configOpts, ai.WithGeneratorModel(model))
	}

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts = append(opts, coursebot.WithAIConfig(aiConfig))
	if timeout := c.Duration("generation-timeout"); timeout > 0 {
		opts = append(opts, coursebot.WithGenerationTimeout(timeout))
	}

	service, err := coursebot.New(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open course index: %w", err)
	}
	return service, nil
}

func rebuildCommand(c *cli.Context) error {
	ctx := context.Background()

	source, err := ingest.OpenSQLiteSource(c.String("courses"))
	if err != nil {
		return fmt.Errorf("failed to open course catalog: %w", err)
	}

	service, err := openService(c, coursebot.WithSource(source))
	if err != nil {
		source.Close()
		return err
	}
	defer service.Close()

	fmt.Fprintf(os.Stderr, "Index: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Catalog: %s\n", c.String("courses"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	report, err := service.RebuildIndex(ctx,
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		ingest.WithProgressWriter(os.Stderr))
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d of %d courses\n", report.Built, report.Total)
	for _, skipped := range report.Skipped {
		fmt.Fprintf(os.Stderr, "  skipped %s %s: %s\n", skipped.Serial, skipped.Name, skipped.Reason)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	results, err := service.Search(context.Background(), query, c.Int("limit"), !c.Bool("semantic-only"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for i, result := range results {
		course := result.Course
		fmt.Printf("%2d. [%.4f] %s %s（%s）%s\n",
			i+1, result.Score, course.Serial, course.Name, course.Teacher, course.ScheduleRaw)
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question argument is required")
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	answer, err := service.Query(context.Background(), question, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answer)
	return nil
}

func chatCommand(c *cli.Context) error {
	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	fmt.Fprintln(os.Stderr, "輸入問題，Ctrl-D 結束。")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		answer, err := service.Query(context.Background(), question, c.Int("limit"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(answer)
		fmt.Println()
	}
	return scanner.Err()
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
