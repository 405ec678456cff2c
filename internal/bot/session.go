package bot

import (
	"sync"
	"time"
)

// pendingFile is the subtitle file a chat has uploaded but not yet
// translated. One per chat; a new upload replaces the previous one.
type pendingFile struct {
	name     string
	data     []byte
	received time.Time
}

// SessionStore keeps the per-chat pending file in memory. This is the only
// state the bot holds between updates; nothing is persisted.
type SessionStore struct {
	mu    sync.Mutex
	files map[int64]pendingFile
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{files: make(map[int64]pendingFile)}
}

// Put stores the pending file for a chat, replacing any previous one.
func (s *SessionStore) Put(chatID int64, name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[chatID] = pendingFile{name: name, data: data, received: time.Now()}
}

// Get returns the chat's pending file, if any. The file stays stored so a
// user can translate the same upload to several languages.
func (s *SessionStore) Get(chatID int64) (name string, data []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[chatID]
	return f.name, f.data, ok
}

// Delete removes the chat's pending file.
func (s *SessionStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, chatID)
}

// Len returns the number of chats with a pending file.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
