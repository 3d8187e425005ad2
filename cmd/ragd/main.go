// Copyright 2026 Lattice Works
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/latticeworks/ragd"
	"github.com/latticeworks/ragd/ai"
	"github.com/latticeworks/ragd/core"
	"github.com/latticeworks/ragd/ingestion"
	"github.com/latticeworks/ragd/query"
	"github.com/latticeworks/ragd/vault"
)

func main() {
	app := &cli.App{
		Name:  "ragd",
		Usage: "Multi-tenant document Q&A with retrieval-augmented generation",
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
				Name:   "init-key",
				Usage:  "Generate vault key material and write it to a key file",
				Action: initKeyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Path to write the key file",
						Required: true,
					},
				},
			},
			{
				Name:   "register",
				Usage:  "Register a new tenant",
				Action: registerCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Tenant name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "secret",
						Usage:    "Tenant secret",
						Required: true,
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Create a collection (or extend one) from documents",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: append(append(serviceFlags(), tenantFlags()...),
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Existing collection id to extend (omit to create)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Name for a new collection",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model selector for a new collection (openai, claude)",
						Value: "openai",
					},
					&cli.StringFlag{
						Name:  "provider-key",
						Usage: "Provider API key for a new collection (required for openai)",
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Ask a question against a collection",
				ArgsUsage: "QUESTION",
				Action:    queryCommand,
				Flags: append(append(serviceFlags(), tenantFlags()...),
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection id to query",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "supplement",
						Usage: "Path to an ad-hoc document to include in context",
					},
				),
			},
			{
				Name:   "list",
				Usage:  "List the tenant's collections",
				Action: listCommand,
				Flags:  append(serviceFlags(), tenantFlags()...),
			},
			{
				Name:   "delete",
				Usage:  "Delete a collection: metadata, documents and vector index",
				Action: deleteCommand,
				Flags: append(append(serviceFlags(), tenantFlags()...),
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection id to delete",
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Service root directory (registry, documents and index live here)",
			Value:   "./ragd-data",
		},
		&cli.StringFlag{
			Name:     "vault-key-file",
			Usage:    "Path to the base64 vault key file",
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
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Number of chunks retrieved per query",
			Value: query.DefaultTopK,
		},
	}
}

func tenantFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "tenant-name",
			Usage:    "Tenant name",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "tenant-secret",
			Usage:    "Tenant secret",
			Required: true,
		},
	}
}

func openService(c *cli.Context) (*ragd.Service, error) {
	return ragd.NewService(c.String("root"),
		ragd.WithVaultKeyFile(c.String("vault-key-file")),
		ragd.WithEmbeddingConfig(ai.NewEmbeddingConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithModel(c.String("embedding-model")),
		)),
		ragd.WithTopK(c.Int("top-k")),
	)
}

func authenticate(ctx context.Context, c *cli.Context, service *ragd.Service) (*core.Tenant, error) {
	tenant, err := service.Authenticate(ctx, c.String("tenant-name"), c.String("tenant-secret"))
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	return tenant, nil
}

func initKeyCommand(c *cli.Context) error {
	out := c.String("out")
	if _, err := os.Stat(out); err == nil {
		return fmt.Errorf("key file %s already exists, refusing to overwrite", out)
	}

	key, err := vault.GenerateKeyString()
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}
	if err := os.WriteFile(out, []byte(key+"\n"), 0600); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Vault key written to %s\n", out)
	return nil
}

func registerCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := service.Register(ctx, c.String("name"), c.String("secret"))
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Registered tenant %s (%s)\n", tenant.Name, tenant.Id)
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() == 0 {
		return fmt.Errorf("at least one document file is required")
	}

	req := &ingestion.Request{
		CollectionID: core.CollectionID(c.String("collection")),
		Name:         c.String("name"),
		ProviderKey:  c.String("provider-key"),
	}
	if req.CollectionID == "" {
		model, err := core.ParseModelSelector(c.String("model"))
		if err != nil {
			return err
		}
		req.Model = model
		if req.Name == "" {
			return fmt.Errorf("--name is required when creating a collection")
		}
	}

	for _, path := range c.Args().Slice() {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		req.Documents = append(req.Documents, core.Upload{
			Filename: filepath.Base(path),
			Content:  content,
		})
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := authenticate(ctx, c, service)
	if err != nil {
		return err
	}

	result, err := service.Ingest(ctx, tenant.Id, req)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if result.Created {
		fmt.Printf("Created collection %s\n", result.CollectionID)
	}
	for _, doc := range result.Documents {
		if doc.Err != nil {
			fmt.Printf("  %s: FAILED: %v\n", doc.Filename, doc.Err)
			continue
		}
		fmt.Printf("  %s: %d chunks\n", doc.Filename, doc.ChunkCount)
	}
	fmt.Printf("Indexed %d chunks total\n", result.ChunkCount)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() != 1 {
		return fmt.Errorf("exactly one question argument is required")
	}

	req := &query.Request{Query: c.Args().First()}
	if path := c.String("supplement"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading supplement %s: %w", path, err)
		}
		req.Supplement = &core.Upload{
			Filename: filepath.Base(path),
			Content:  content,
		}
	}

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := authenticate(ctx, c, service)
	if err != nil {
		return err
	}

	answer, err := service.Answer(ctx, tenant.Id, core.CollectionID(c.String("collection")), req)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answer.Text)
	fmt.Fprintf(os.Stderr, "\n%d context units, retrieval %s, generation %s\n",
		answer.RetrievedCount,
		answer.Timings.Retrieval.Round(1e6),
		answer.Timings.Generation.Round(1e6),
	)
	for _, p := range answer.Provenance {
		if p.Supplement {
			fmt.Fprintf(os.Stderr, "  [supplement] %s\n", p.Source)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s (page %d, score %.3f)\n", p.ChunkID, p.Page, p.Score)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := authenticate(ctx, c, service)
	if err != nil {
		return err
	}

	summaries, err := service.ListCollections(ctx, tenant.Id)
	if err != nil {
		return fmt.Errorf("listing failed: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No collections")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  (%s)\n", s.Id, s.Name, s.Model)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	service, err := openService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	tenant, err := authenticate(ctx, c, service)
	if err != nil {
		return err
	}

	result, err := service.DeleteCollection(ctx, tenant.Id, core.CollectionID(c.String("collection")))
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	if result.AllFailed() {
		fmt.Println("Nothing to delete")
		return nil
	}
	fmt.Printf("Deleted: metadata=%t files=%t index=%t\n",
		result.MetadataDeleted, result.FilesDeleted, result.IndexDeleted)
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
