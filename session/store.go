package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Store is the per-client session state.
//
// It is safe for concurrent use. A session is "active" iff a non-empty
// session id is set. The zero store is not usable; construct with NewStore.
type Store struct {
	log   *slog.Logger
	state *FileState

	mu        sync.RWMutex
	sessionID string
	deviceID  string
}

// NewStore constructs a Store. state may be nil, in which case the device id
// lives in memory only and a fresh one is minted per process.
func NewStore(log *slog.Logger, state *FileState) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{log: log, state: state}
}

// SessionID returns the current session id and whether one is set.
func (s *Store) SessionID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID, s.sessionID != ""
}

// Active reports whether a session is currently established.
func (s *Store) Active() bool {
	_, ok := s.SessionID()
	return ok
}

// SetSessionID records a freshly extracted session id.
func (s *Store) SetSessionID(id string) {
	s.mu.Lock()
	s.sessionID = id
	s.mu.Unlock()
}

// ClearSession drops the current session id, marking the session inactive.
func (s *Store) ClearSession() {
	s.mu.Lock()
	s.sessionID = ""
	s.mu.Unlock()
}

// DeviceID returns the stable per-installation device identifier, minting and
// persisting one on first use.
//
// Once a device id has been handed out it never changes for the lifetime of
// the process, even if the backing file is rewritten externally.
func (s *Store) DeviceID() string {
	s.mu.RLock()
	id := s.deviceID
	s.mu.RUnlock()
	if id != "" {
		return id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deviceID != "" {
		return s.deviceID
	}

	if s.state != nil {
		persisted, err := s.state.Load()
		if err != nil {
			s.log.Warn("session.state.load", "err", err)
		}
		if persisted != "" {
			s.deviceID = persisted
			return s.deviceID
		}
	}

	s.deviceID = uuid.NewString()
	if s.state != nil {
		if err := s.state.Save(s.deviceID); err != nil {
			// Persistence is best-effort; the in-memory id stays valid.
			s.log.Warn("session.state.save", "err", err)
		}
	}
	return s.deviceID
}
