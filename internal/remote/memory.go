package remote

import (
	"context"
	"sync"
)

// MemoryRemote is an in-process Remote. It stores encoded envelopes so
// loads go through the same decoding as real backends.
type MemoryRemote struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
	err   error
}

// NewMemoryRemote creates an empty in-memory remote.
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{data: make(map[string][]byte)}
}

func (m *MemoryRemote) Name() string { return KindMemory }

func (m *MemoryRemote) Load(_ context.Context, language string) (*Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	raw, ok := m.data[language]
	if !ok {
		return nil, nil
	}
	return Decode(raw)
}

func (m *MemoryRemote) Save(_ context.Context, language string, env *Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	raw, err := Encode(env)
	if err != nil {
		return err
	}
	m.data[language] = raw
	m.saves++
	return nil
}

// SetRaw stores a raw payload for language, bypassing encoding.
func (m *MemoryRemote) SetRaw(language string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[language] = raw
}

// Raw returns the stored payload for language.
func (m *MemoryRemote) Raw(language string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[language]
	return raw, ok
}

// SetError makes every subsequent call fail with err until cleared with nil.
func (m *MemoryRemote) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SaveCount returns the number of successful saves.
func (m *MemoryRemote) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
