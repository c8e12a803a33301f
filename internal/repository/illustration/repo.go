// Package illustration persists illustration records as redis hashes with a
// curated allow-list set. The search engine uses the read side only; the
// write side belongs to the ingestion collaborator (loader).
package illustration

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/illustra/internal/db"
	"github.com/kailas-cloud/illustra/internal/domain"
	domill "github.com/kailas-cloud/illustra/internal/domain/illustration"
	"github.com/kailas-cloud/illustra/internal/domain/search/scope"
)

// store is the consumer interface for the illustration repository (ISP).
type store interface {
	db.HashStore
	db.SetStore
}

// Repo stores illustration records in redis hashes.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an illustration repository.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = domain.KeyPrefix
	}
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) recordKey(id string) string {
	return r.keyPrefix + "illustration:" + id
}

func (r *Repo) curatedKey() string {
	return r.keyPrefix + "curated"
}

func (r *Repo) idFromKey(key string) string {
	return strings.TrimPrefix(key, r.keyPrefix+"illustration:")
}

// FetchCandidates returns all records in the given corpus scope with their
// embeddings populated. One bulk read; the scoring loop never touches
// storage per candidate.
func (r *Repo) FetchCandidates(ctx context.Context, sc scope.Scope) ([]domill.Record, error) {
	var keys []string

	switch sc {
	case scope.Curated:
		ids, err := r.store.SMembers(ctx, r.curatedKey())
		if err != nil {
			return nil, fmt.Errorf("read curated set: %w", err)
		}
		sort.Strings(ids)
		keys = make([]string, len(ids))
		for i, id := range ids {
			keys[i] = r.recordKey(id)
		}
	case scope.Full:
		found, err := r.store.Scan(ctx, r.keyPrefix+"illustration:*")
		if err != nil {
			return nil, fmt.Errorf("scan records: %w", err)
		}
		sort.Strings(found)
		keys = found
	default:
		return nil, fmt.Errorf("invalid scope: %q", sc)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	records := make([]domill.Record, 0, len(hashes))
	for i, m := range hashes {
		// A curated ID may point at a deleted record; skip empty hashes.
		if len(m) == 0 {
			continue
		}
		records = append(records, parseHashFields(r.idFromKey(keys[i]), m))
	}

	return records, nil
}

// Get returns a single record by ID.
func (r *Repo) Get(ctx context.Context, id string) (domill.Record, error) {
	m, err := r.store.HGetAll(ctx, r.recordKey(id))
	if err != nil {
		return domill.Record{}, fmt.Errorf("read record: %w", err)
	}
	if len(m) == 0 {
		return domill.Record{}, fmt.Errorf("illustration %q: %w", id, domain.ErrNotFound)
	}
	return parseHashFields(id, m), nil
}

// Upsert writes a single record (ingestion write path).
func (r *Repo) Upsert(ctx context.Context, rec *domill.Record) error {
	if err := r.store.HSet(ctx, r.recordKey(rec.ID()), buildHashFields(rec)); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// UpsertMulti writes multiple records in one pipelined round-trip.
func (r *Repo) UpsertMulti(ctx context.Context, recs []domill.Record) error {
	if len(recs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(recs))
	for i := range recs {
		items[i] = db.HashSetItem{
			Key:    r.recordKey(recs[i].ID()),
			Fields: buildHashFields(&recs[i]),
		}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// MarkCurated flags record IDs as members of the curated subset.
func (r *Repo) MarkCurated(ctx context.Context, ids ...string) error {
	if err := r.store.SAdd(ctx, r.curatedKey(), ids...); err != nil {
		return fmt.Errorf("mark curated: %w", err)
	}
	return nil
}

// UnmarkCurated removes record IDs from the curated subset.
func (r *Repo) UnmarkCurated(ctx context.Context, ids ...string) error {
	if err := r.store.SRem(ctx, r.curatedKey(), ids...); err != nil {
		return fmt.Errorf("unmark curated: %w", err)
	}
	return nil
}

// CuratedCount returns the curated subset size.
func (r *Repo) CuratedCount(ctx context.Context) (int64, error) {
	n, err := r.store.SCard(ctx, r.curatedKey())
	if err != nil {
		return 0, fmt.Errorf("count curated: %w", err)
	}
	return n, nil
}
