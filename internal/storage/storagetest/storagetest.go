// Package storagetest holds behavioural tests that every storage.Storage
// implementation must pass. A backend's own test file calls Run with a
// constructor for fresh instances.
package storagetest

import (
	"testing"

	"github.com/aanand-mishra/student-roster/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// OpenFunc returns a new, independent roster holding seed under ids 1..n.
type OpenFunc func(t *testing.T, seed ...string) storage.Storage

// Run runs the whole suite against open.
func Run(t *testing.T, open OpenFunc) {
	t.Run("CreateOnEmpty", func(t *testing.T) { testCreateOnEmpty(t, open) })
	t.Run("Seed", func(t *testing.T) { testSeed(t, open) })
	t.Run("EmptyList", func(t *testing.T) { testEmptyList(t, open) })
	t.Run("EmptyName", func(t *testing.T) { testEmptyName(t, open) })
	t.Run("Get", func(t *testing.T) { testGet(t, open) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, open) })
	t.Run("UpdateIdempotent", func(t *testing.T) { testUpdateIdempotent(t, open) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, open) })
	t.Run("NoIDReuse", func(t *testing.T) { testNoIDReuse(t, open) })
	t.Run("Search", func(t *testing.T) { testSearch(t, open) })
	t.Run("Count", func(t *testing.T) { testCount(t, open) })
	t.Run("NonCanonicalID", func(t *testing.T) { testNonCanonicalID(t, open) })
}

func testCreateOnEmpty(t *testing.T, open OpenFunc) {
	store := open(t)

	alice, err := store.CreateStudent("Alice")
	require.NoError(t, err)
	assert.Equal(t, "1", alice.ID)
	assert.Equal(t, "Alice", alice.Name)

	bob, err := store.CreateStudent("Bob")
	require.NoError(t, err)
	assert.Equal(t, "2", bob.ID)

	all, err := store.GetStudents()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Alice", "2": "Bob"}, all)
}

func testSeed(t *testing.T, open OpenFunc) {
	store := open(t, "Alice", "Bob")

	all, err := store.GetStudents()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Alice", "2": "Bob"}, all)

	carol, err := store.CreateStudent("Carol")
	require.NoError(t, err)
	assert.Equal(t, "3", carol.ID)
}

func testEmptyList(t *testing.T, open OpenFunc) {
	store := open(t)

	all, err := store.GetStudents()
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func testEmptyName(t *testing.T, open OpenFunc) {
	store := open(t)

	s, err := store.CreateStudent("")
	require.NoError(t, err)

	got, err := store.GetStudentByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Name)
}

func testGet(t *testing.T, open OpenFunc) {
	store := open(t, "Alice")

	s, err := store.GetStudentByID("1")
	require.NoError(t, err)
	assert.Equal(t, "1", s.ID)
	assert.Equal(t, "Alice", s.Name)

	_, err = store.GetStudentByID("2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testUpdate(t *testing.T, open OpenFunc) {
	store := open(t, "Alice")

	s, err := store.UpdateStudentByID("1", "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "1", s.ID)
	assert.Equal(t, "Alicia", s.Name)

	got, err := store.GetStudentByID("1")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)

	_, err = store.UpdateStudentByID("9", "Nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := store.GetStudents()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Alicia"}, all, "update of a missing id must not insert")
}

func testUpdateIdempotent(t *testing.T, open OpenFunc) {
	store := open(t, "Alice", "Bob")

	_, err := store.UpdateStudentByID("2", "Robert")
	require.NoError(t, err)
	first, err := store.GetStudents()
	require.NoError(t, err)

	_, err = store.UpdateStudentByID("2", "Robert")
	require.NoError(t, err)
	second, err := store.GetStudents()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func testDelete(t *testing.T, open OpenFunc) {
	store := open(t, "Alice", "Bob")

	s, err := store.DeleteStudentByID("1")
	require.NoError(t, err)
	assert.Equal(t, "1", s.ID)
	assert.Equal(t, "Alice", s.Name)

	all, err := store.GetStudents()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2": "Bob"}, all)

	_, err = store.DeleteStudentByID("1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testNoIDReuse(t *testing.T, open OpenFunc) {
	store := open(t, "Alice", "Bob")

	_, err := store.DeleteStudentByID("1")
	require.NoError(t, err)

	// A count-based id would be "2" here and clobber Bob.
	carol, err := store.CreateStudent("Carol")
	require.NoError(t, err)
	assert.Equal(t, "3", carol.ID)

	_, err = store.DeleteStudentByID("3")
	require.NoError(t, err)
	dave, err := store.CreateStudent("Dave")
	require.NoError(t, err)
	assert.Equal(t, "4", dave.ID)

	all, err := store.GetStudents()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2": "Bob", "4": "Dave"}, all)
}

func testSearch(t *testing.T, open OpenFunc) {
	store := open(t, "Alice", "Bob", "Alice")

	found, err := store.SearchStudents("Alice")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Alice", "3": "Alice"}, found)

	found, err = store.SearchStudents("alice")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found, "search is case-sensitive")

	found, err = store.SearchStudents("Ali")
	require.NoError(t, err)
	assert.Empty(t, found, "search is not a prefix match")
}

func testCount(t *testing.T, open OpenFunc) {
	store := open(t, "Alice", "Bob")

	n, err := store.CountStudents()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = store.DeleteStudentByID("2")
	require.NoError(t, err)
	n, err = store.CountStudents()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func testNonCanonicalID(t *testing.T, open OpenFunc) {
	store := open(t, "Alice")

	for _, id := range []string{"", "01", " 1", "one", "-1"} {
		_, err := store.GetStudentByID(id)
		assert.ErrorIs(t, err, storage.ErrNotFound, "id %q", id)
	}
}
