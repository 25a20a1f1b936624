package primarydb

import (
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rpmd/internal/core/domain"
)

const checksumType = "xxh64"

// Revision fingerprints metas in order.
func Revision(metas []domain.PackageMetadata) string {
	h := xxhash.New()
	for i := range metas {
		_, _ = h.WriteString(packageChecksum(&metas[i]))
		_, _ = h.Write([]byte{0})
	}
	return format(h.Sum64())
}

// packageChecksum fingerprints the identity and dependencies of m.
func packageChecksum(m *domain.PackageMetadata) string {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}
	write(m.NEVRA().String())
	write(strconv.Itoa(m.Epoch))
	write(m.Location)
	for _, t := range DepKinds {
		write(t.Name)
		for _, d := range *t.Field(m) {
			write(d.String())
		}
	}
	for _, f := range m.Files {
		write(f)
	}
	var sizes [16]byte
	binary.LittleEndian.PutUint64(sizes[:8], uint64(m.InstallSize))
	binary.LittleEndian.PutUint64(sizes[8:], uint64(m.PackageSize))
	_, _ = h.Write(sizes[:])
	return format(h.Sum64())
}

// FileFingerprint hashes the content of the file at path.
func FileFingerprint(path string) (string, error) {
	// #nosec G304 -- path points into a configured repository or cache dir
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return format(h.Sum64()), nil
}

func format(sum uint64) string {
	return strconv.FormatUint(sum, 16)
}

// cacheEntry is the parsed content of one database file.
type cacheEntry struct {
	size     int64
	modTime  time.Time
	revision string
	metas    []domain.PackageMetadata
}

// Cache keeps parsed databases in memory so sessions that load the same
// repository share one parse. Entries are revalidated against the file's
// size and modification time.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// get returns the entry for path if the file has not changed since it was stored.
func (c *Cache) get(path string, info os.FileInfo) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[path]
	if !ok || e.size != info.Size() || !e.modTime.Equal(info.ModTime()) {
		return nil, false
	}
	return e, true
}

func (c *Cache) put(path string, info os.FileInfo, revision string, metas []domain.PackageMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = &cacheEntry{size: info.Size(), modTime: info.ModTime(), revision: revision, metas: metas}
}

// Len returns the number of cached databases.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
