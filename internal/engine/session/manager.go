package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"maps"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/zerr"
)

// Manager is the session table. It is the only state shared between sessions.
type Manager struct {
	deps Deps
	// defaults are merged under the options of every new session.
	defaults map[string]any

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session table.
func NewManager(deps Deps, defaults map[string]any) *Manager {
	return &Manager{
		deps:     deps,
		defaults: maps.Clone(defaults),
		sessions: make(map[string]*Session),
	}
}

// Open creates a session for owner from the client's option map and returns its path.
func (m *Manager) Open(ctx context.Context, owner string, options map[string]any) (string, error) {
	merged := maps.Clone(m.defaults)
	if merged == nil {
		merged = make(map[string]any, len(options))
	}
	maps.Copy(merged, options)

	opts, err := ParseOptions(merged)
	if err != nil {
		return "", err
	}
	path, err := newPath()
	if err != nil {
		return "", err
	}
	s, err := newSession(ctx, path, owner, opts, m.deps)
	if err != nil {
		return "", zerr.Wrap(err, "cannot open session")
	}

	m.mu.Lock()
	m.sessions[path] = s
	m.mu.Unlock()

	m.deps.Logger.Debug("opened session " + path + " for " + owner)
	return path, nil
}

// newPath returns a fresh object path with a 32 character lowercase hex token.
func newPath() (string, error) {
	var token [16]byte
	if _, err := rand.Read(token[:]); err != nil {
		return "", zerr.Wrap(err, "cannot generate session token")
	}
	return domain.SessionManagerPath + "/" + hex.EncodeToString(token[:]), nil
}

// IsSessionPath reports whether path has the shape of a session path.
func IsSessionPath(path string) bool {
	token, ok := strings.CutPrefix(path, domain.SessionManagerPath+"/")
	if !ok || len(token) != 32 {
		return false
	}
	_, err := hex.DecodeString(token)
	return err == nil && strings.ToLower(token) == token
}

// Get returns the live session at path.
func (m *Manager) Get(path string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[path]
	m.mu.Unlock()
	if !ok || s.Closed() {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidSession, "no such session"), "session", path)
	}
	return s, nil
}

// Close closes the session at path if owner opened it. It reports true only
// for the call that actually closed a live session.
func (m *Manager) Close(ctx context.Context, owner, path string) bool {
	m.mu.Lock()
	s, ok := m.sessions[path]
	if !ok || s.owner != owner {
		m.mu.Unlock()
		return false
	}
	delete(m.sessions, path)
	m.mu.Unlock()

	return m.closeSession(ctx, s)
}

// CloseOwner closes every session opened by owner and returns how many were closed.
func (m *Manager) CloseOwner(ctx context.Context, owner string) int {
	m.mu.Lock()
	var owned []*Session
	for path, s := range m.sessions {
		if s.owner == owner {
			owned = append(owned, s)
			delete(m.sessions, path)
		}
	}
	m.mu.Unlock()

	closed := 0
	for _, s := range owned {
		if m.closeSession(ctx, s) {
			closed++
		}
	}
	return closed
}

// CloseAll closes every session.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	all := slices.Collect(maps.Values(m.sessions))
	clear(m.sessions)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, s := range all {
		wg.Go(func() { m.closeSession(ctx, s) })
	}
	wg.Wait()
}

// closeSession waits for the session's in-flight work unless ctx ends first.
// The session is closed either way.
func (m *Manager) closeSession(ctx context.Context, s *Session) bool {
	done := make(chan bool, 1)
	go func() { done <- s.close() }()
	select {
	case ok := <-done:
		m.deps.Logger.Debug("closed session " + s.path)
		return ok
	case <-ctx.Done():
		m.deps.Logger.Warn("session " + s.path + " still draining after close")
		return true
	}
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
