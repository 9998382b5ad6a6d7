// Package memory provides the default storage.Storage implementation:
// a map held in process memory. Nothing survives a restart.
package memory

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/aanand-mishra/student-roster/internal/storage"
	"github.com/aanand-mishra/student-roster/internal/types"
)

// Memory is an in-process roster guarded by a read/write mutex.
//
// nextID only ever grows, so a deleted id is never assigned again.
type Memory struct {
	mu       sync.RWMutex
	students map[string]string
	nextID   int64
}

// New returns a roster pre-populated with seed, in order, under ids
// "1".."len(seed)".
func New(seed ...string) *Memory {
	m := &Memory{
		students: make(map[string]string, len(seed)),
		nextID:   1,
	}
	for _, name := range seed {
		m.insert(name)
	}
	return m
}

// insert must be called with mu held for writing.
func (m *Memory) insert(name string) types.Student {
	id := strconv.FormatInt(m.nextID, 10)
	m.nextID++
	m.students[id] = name
	return types.Student{ID: id, Name: name}
}

func (m *Memory) GetStudents() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Hand out a copy; callers encode it after the lock is released.
	out := make(map[string]string, len(m.students))
	for id, name := range m.students {
		out[id] = name
	}
	return out, nil
}

func (m *Memory) SearchStudents(name string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string)
	for id, n := range m.students {
		if n == name {
			out[id] = n
		}
	}
	return out, nil
}

func (m *Memory) CreateStudent(name string) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(name), nil
}

func (m *Memory) GetStudentByID(id string) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name, ok := m.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("GetStudentByID %q: %w", id, storage.ErrNotFound)
	}
	return types.Student{ID: id, Name: name}, nil
}

func (m *Memory) UpdateStudentByID(id string, name string) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return types.Student{}, fmt.Errorf("UpdateStudentByID %q: %w", id, storage.ErrNotFound)
	}
	m.students[id] = name
	return types.Student{ID: id, Name: name}, nil
}

func (m *Memory) DeleteStudentByID(id string) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name, ok := m.students[id]
	if !ok {
		return types.Student{}, fmt.Errorf("DeleteStudentByID %q: %w", id, storage.ErrNotFound)
	}
	delete(m.students, id)
	return types.Student{ID: id, Name: name}, nil
}

func (m *Memory) CountStudents() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.students), nil
}
