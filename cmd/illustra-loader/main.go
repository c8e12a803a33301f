// Command illustra-loader ingests pre-embedded illustration records from a
// JSONL file into the database. Each line carries one record with its
// metadata, theme texts, and per-dimension embedding vectors; the loader
// validates, writes in pipelined batches, and optionally marks every loaded
// ID as curated.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/illustra/internal/config"
	dbRedis "github.com/kailas-cloud/illustra/internal/db/redis"
	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	domill "github.com/kailas-cloud/illustra/internal/domain/illustration"
	logpkg "github.com/kailas-cloud/illustra/internal/logger"
	illustrationrepo "github.com/kailas-cloud/illustra/internal/repository/illustration"
)

// recordLine is the JSONL wire format for one illustration record.
type recordLine struct {
	ID          string               `json:"id"`
	Filename    string               `json:"filename"`
	BookTitle   string               `json:"book_title"`
	ImageURL    string               `json:"image_url"`
	Description string               `json:"description"`
	Themes      map[string]string    `json:"themes"`
	Embeddings  map[string][]float32 `json:"embeddings"`
	CreatedAt   int64                `json:"created_at"`
	UpdatedAt   int64                `json:"updated_at"`
}

func main() {
	var (
		inputPath = flag.String("input", "", "path to JSONL file with pre-embedded records (required)")
		batchSize = flag.Int("batch", 100, "records per pipelined write batch")
		curated   = flag.Bool("curated", false, "mark every loaded record as curated")
		strict    = flag.Bool("strict", false, "abort on the first invalid record instead of skipping")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: illustra-loader -input records.jsonl [-batch N] [-curated] [-strict]")
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg := config.MustLoad(env)

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	repo := illustrationrepo.New(store, cfg.Storage.KeyPrefix)

	loader := &loader{
		repo:      repo,
		logger:    logger,
		dim:       cfg.Embedding.Dimensions,
		batchSize: *batchSize,
		curated:   *curated,
		strict:    *strict,
	}

	stats, err := loader.run(ctx, *inputPath)
	if err != nil {
		logger.Fatal("Load failed", zap.Error(err))
	}

	logger.Info("Load completed",
		zap.Int("loaded", stats.loaded),
		zap.Int("skipped", stats.skipped),
		zap.Bool("curated", *curated),
	)
}

type loadStats struct {
	loaded  int
	skipped int
}

type loader struct {
	repo      *illustrationrepo.Repo
	logger    *zap.Logger
	dim       int
	batchSize int
	curated   bool
	strict    bool
}

func (l *loader) run(ctx context.Context, path string) (loadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return loadStats{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var stats loadStats
	batch := make([]domill.Record, 0, l.batchSize)
	ids := make([]string, 0, l.batchSize)

	scanner := bufio.NewScanner(f)
	// Embedding lines are large: 8 vectors x 1536 floats
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		rec, err := l.parseLine(line)
		if err != nil {
			if l.strict {
				return stats, fmt.Errorf("line %d: %w", lineNo, err)
			}
			l.logger.Warn("Skipping invalid record", zap.Int("line", lineNo), zap.Error(err))
			stats.skipped++
			continue
		}

		batch = append(batch, rec)
		ids = append(ids, rec.ID())

		if len(batch) >= l.batchSize {
			if err := l.flush(ctx, batch, ids); err != nil {
				return stats, err
			}
			stats.loaded += len(batch)
			batch = batch[:0]
			ids = ids[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read input: %w", err)
	}

	if len(batch) > 0 {
		if err := l.flush(ctx, batch, ids); err != nil {
			return stats, err
		}
		stats.loaded += len(batch)
	}

	return stats, nil
}

func (l *loader) parseLine(line []byte) (domill.Record, error) {
	var rl recordLine
	if err := json.Unmarshal(line, &rl); err != nil {
		return domill.Record{}, fmt.Errorf("parse json: %w", err)
	}

	themes := make(map[dimension.Key]string, len(rl.Themes))
	for k, v := range rl.Themes {
		themes[dimension.Key(k)] = v
	}
	embeddings := make(map[dimension.Key][]float32, len(rl.Embeddings))
	for k, v := range rl.Embeddings {
		embeddings[dimension.Key(k)] = v
	}

	now := time.Now().Unix()
	createdAt := rl.CreatedAt
	if createdAt == 0 {
		createdAt = now
	}
	updatedAt := rl.UpdatedAt
	if updatedAt == 0 {
		updatedAt = now
	}

	rec, err := domill.New(
		rl.ID, rl.Filename, rl.BookTitle, rl.ImageURL, rl.Description,
		themes, embeddings, l.dim, createdAt, updatedAt,
	)
	if err != nil {
		return domill.Record{}, fmt.Errorf("record %q: %w", rl.ID, err)
	}
	return rec, nil
}

func (l *loader) flush(ctx context.Context, batch []domill.Record, ids []string) error {
	err := withRetry(ctx, 3, 500*time.Millisecond, func() error {
		return l.repo.UpsertMulti(ctx, batch)
	})
	if err != nil {
		return fmt.Errorf("write batch: %w", err)
	}

	if l.curated {
		err := withRetry(ctx, 3, 500*time.Millisecond, func() error {
			return l.repo.MarkCurated(ctx, ids...)
		})
		if err != nil {
			return fmt.Errorf("mark curated: %w", err)
		}
	}

	l.logger.Debug("Batch written", zap.Int("size", len(batch)))
	return nil
}

// withRetry runs fn up to attempts times with exponential backoff and jitter.
func withRetry(ctx context.Context, attempts int, base time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		backoff := base << uint(i)
		backoff += time.Duration(rand.Int63n(int64(backoff) / 2))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}
