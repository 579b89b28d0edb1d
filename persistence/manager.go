package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/drometa"
	"github.com/hupe1980/drometa/blobstore"
	"github.com/hupe1980/drometa/codec"
	"github.com/hupe1980/drometa/resource"
)

// snapshotDir is the blob prefix under which snapshots are stored.
const snapshotDir = "snapshots"

// ErrNoSnapshot is returned when the manifest has no entry for a dataset.
var ErrNoSnapshot = errors.New("persistence: no snapshot")

// Manifest is the content of the CURRENT blob: the latest snapshot blob of
// every dataset.
type Manifest struct {
	Version   uint64            `json:"version"`
	UpdatedAt time.Time         `json:"updated_at"`
	Snapshots map[string]string `json:"snapshots"`
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithController throttles snapshot IO.
func WithController(c *resource.Controller) ManagerOption {
	return func(m *Manager) { m.controller = c }
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(l *drometa.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithEncodeOptions sets the codec and compression of saved snapshots.
func WithEncodeOptions(opts ...Option) ManagerOption {
	return func(m *Manager) { m.encode = append(m.encode, opts...) }
}

// Manager saves and loads dataset snapshots in a blob store. Each save
// writes a new uuid-named blob, then points the manifest at it, so a
// failed save never damages the previous snapshot.
//
// A Manager serializes its own manifest updates. Writers in different
// processes need a store with an atomic CURRENT, such as
// s3.DDBCommitStore.
type Manager struct {
	store      blobstore.BlobStore
	controller *resource.Controller
	logger     *drometa.Logger
	encode     []Option

	mu sync.Mutex
}

// NewManager creates a manager over store.
func NewManager(store blobstore.BlobStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  store,
		logger: drometa.NoopLogger(),
	}
	for _, fn := range opts {
		fn(m)
	}
	return m
}

// Save snapshots ds and makes it the current snapshot of its name. It
// returns the blob name.
func (m *Manager) Save(ctx context.Context, ds *drometa.Dataset) (string, error) {
	s, err := ds.State()
	if err != nil {
		return "", err
	}
	return m.SaveState(ctx, s)
}

// SaveState is Save for an already captured state.
func (m *Manager) SaveState(ctx context.Context, s *drometa.State) (string, error) {
	start := time.Now()
	name := path.Join(snapshotDir, s.Name, uuid.NewString()+".drm")

	size, err := m.save(ctx, name, s)
	m.logger.LogSnapshot(ctx, "save", name, size, time.Since(start), err)
	if err != nil {
		return "", err
	}
	return name, nil
}

func (m *Manager) save(ctx context.Context, name string, s *drometa.State) (int, error) {
	var buf bytes.Buffer
	if err := Encode(resource.NewRateLimitedWriter(ctx, &buf, m.controller), s, m.encode...); err != nil {
		return 0, err
	}
	if err := m.store.Put(ctx, name, buf.Bytes()); err != nil {
		return 0, fmt.Errorf("persistence: put %s: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	manifest, err := m.Manifest(ctx)
	if err != nil {
		return 0, err
	}
	manifest.Version++
	manifest.UpdatedAt = time.Now().UTC()
	manifest.Snapshots[s.Name] = name

	data, err := codec.Default.Marshal(manifest)
	if err != nil {
		return 0, err
	}
	if err := m.store.Put(ctx, blobstore.CurrentName, data); err != nil {
		return 0, fmt.Errorf("persistence: commit %s: %w", name, err)
	}
	return buf.Len(), nil
}

// Manifest reads the CURRENT blob. A missing CURRENT yields an empty
// manifest.
func (m *Manager) Manifest(ctx context.Context) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, m.store, blobstore.CurrentName)
	if errors.Is(err, blobstore.ErrNotFound) {
		return &Manifest{Snapshots: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: read manifest: %w", err)
	}

	var manifest Manifest
	if err := codec.Default.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("persistence: decode manifest: %w", err)
	}
	if manifest.Snapshots == nil {
		manifest.Snapshots = make(map[string]string)
	}
	return &manifest, nil
}

// Names returns the sorted names of datasets with a current snapshot.
func (m *Manager) Names(ctx context.Context) ([]string, error) {
	manifest, err := m.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(manifest.Snapshots)), nil
}

// Load restores the current snapshot of the dataset called name.
func (m *Manager) Load(ctx context.Context, name string, opts ...drometa.Option) (*drometa.Dataset, error) {
	manifest, err := m.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	blob, ok := manifest.Snapshots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, name)
	}
	return m.LoadBlob(ctx, blob, opts...)
}

// LoadBlob restores the snapshot stored in blob, current or not.
func (m *Manager) LoadBlob(ctx context.Context, blob string, opts ...drometa.Option) (*drometa.Dataset, error) {
	start := time.Now()
	s, size, err := m.read(ctx, blob)
	m.logger.LogSnapshot(ctx, "load", blob, size, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return drometa.Restore(s, opts...)
}

func (m *Manager) read(ctx context.Context, blob string) (*drometa.State, int, error) {
	data, err := blobstore.ReadAll(ctx, m.store, blob)
	if err != nil {
		return nil, 0, fmt.Errorf("persistence: read %s: %w", blob, err)
	}
	var s drometa.State
	if _, err := Decode(resource.NewRateLimitedReader(ctx, bytes.NewReader(data), m.controller), &s); err != nil {
		return nil, len(data), err
	}
	return &s, len(data), nil
}

// Prune deletes the snapshot blobs of name that the manifest no longer
// references and returns how many were removed.
func (m *Manager) Prune(ctx context.Context, name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	manifest, err := m.Manifest(ctx)
	if err != nil {
		return 0, err
	}
	current := manifest.Snapshots[name]

	blobs, err := m.store.List(ctx, path.Join(snapshotDir, name)+"/")
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, b := range blobs {
		if b == current || !strings.HasSuffix(b, ".drm") {
			continue
		}
		if err := m.store.Delete(ctx, b); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
