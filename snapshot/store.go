package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/hupe1980/somgo/blobstore"
	"github.com/hupe1980/somgo/resource"
)

const (
	// CurrentName is the blob naming the latest snapshot.
	CurrentName = "CURRENT"
	// Dir is the blob prefix snapshots are written under.
	Dir = "snapshots/"
	// Ext is the snapshot blob extension.
	Ext = ".soms"
)

// Save encodes s, writes it to snapshots/<unix-nanos>.soms and points CURRENT
// at it. It returns the snapshot's blob name. CreatedAt is set from the clock.
func Save(ctx context.Context, store blobstore.BlobStore, s *Snapshot, opts ...Option) (string, error) {
	o := applyOptions(opts)

	now := o.now()
	s.CreatedAt = now.UTC()

	var buf bytes.Buffer
	if err := encodeTo(resource.NewRateLimitedWriter(ctx, &buf, o.rc), s, o); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s%d%s", Dir, now.UnixNano(), Ext)
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("snapshot: write %s: %w", name, err)
	}
	if err := store.Put(ctx, CurrentName, []byte(name)); err != nil {
		return "", fmt.Errorf("snapshot: commit %s: %w", name, err)
	}
	return name, nil
}

// Current returns the name CURRENT points at.
func Current(ctx context.Context, store blobstore.BlobStore) (string, error) {
	data, err := blobstore.Get(ctx, store, CurrentName)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", fmt.Errorf("%w: empty %s", ErrCorrupt, CurrentName)
	}
	return name, nil
}

// Load reads the snapshot CURRENT points at.
func Load(ctx context.Context, store blobstore.BlobStore, opts ...Option) (*Snapshot, error) {
	name, err := Current(ctx, store)
	if err != nil {
		return nil, err
	}
	return LoadNamed(ctx, store, name, opts...)
}

// LoadNamed reads the snapshot stored under name.
func LoadNamed(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*Snapshot, error) {
	o := applyOptions(opts)

	data, err := blobstore.Get(ctx, store, name)
	if err != nil {
		return nil, err
	}

	s, err := DecodeFrom(resource.NewRateLimitedReader(ctx, bytes.NewReader(data), o.rc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// List returns the names of all stored snapshots, oldest first.
func List(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	names, err := store.List(ctx, Dir)
	if err != nil {
		return nil, err
	}

	out := names[:0]
	for _, n := range names {
		if path.Ext(n) == Ext {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, compareNames)
	return out, nil
}

// compareNames orders snapshot names by their numeric timestamp.
func compareNames(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

// Prune deletes all but the newest keep snapshots. The snapshot CURRENT
// points at is never deleted. It returns the deleted names.
func Prune(ctx context.Context, store blobstore.BlobStore, keep int) ([]string, error) {
	names, err := List(ctx, store)
	if err != nil {
		return nil, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(names) <= keep {
		return nil, nil
	}

	current, err := Current(ctx, store)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	var deleted []string
	for _, n := range names[:len(names)-keep] {
		if n == current {
			continue
		}
		if err := store.Delete(ctx, n); err != nil {
			return deleted, err
		}
		deleted = append(deleted, n)
	}
	return deleted, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, blobstore.ErrNotFound)
}
