package sessionfakes

import (
	"sync"

	"github.com/jrsteele09/nexus-console/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is an in-memory Store that records how often it was cleared.
type FakeStore struct {
	lock    sync.RWMutex
	current *session.Session
	clears  int
	SaveErr error
}

func NewFakeStore(initial *session.Session) *FakeStore {
	return &FakeStore{current: initial}
}

func (fs *FakeStore) Load() (*session.Session, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	if fs.current == nil {
		return nil, false
	}
	s := *fs.current
	return &s, true
}

func (fs *FakeStore) Save(s *session.Session) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.SaveErr != nil {
		return fs.SaveErr
	}
	copied := *s
	fs.current = &copied
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.current = nil
	fs.clears++
	return nil
}

// Clears reports how many times Clear was called.
func (fs *FakeStore) Clears() int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.clears
}
