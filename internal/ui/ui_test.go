package ui

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-roster/internal/client"
	"github.com/aanand-mishra/student-roster/internal/http/routes"
	"github.com/aanand-mishra/student-roster/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI(t *testing.T, input string, seed ...string) (*UI, *bytes.Buffer) {
	server := httptest.NewServer(routes.NewRouter(memory.New(seed...)))
	t.Cleanup(server.Close)

	api, err := client.New(server.URL, server.Client())
	require.NoError(t, err)

	var out bytes.Buffer
	return New(api, strings.NewReader(input), &out), &out
}

// brokenRoster answers every call with a fixed result or error.
type brokenRoster struct {
	res *client.Result
	err error
}

func (b brokenRoster) List(context.Context) (*client.Result, error) { return b.res, b.err }
func (b brokenRoster) Add(context.Context, string) (*client.Result, error) { return b.res, b.err }
func (b brokenRoster) Update(context.Context, string, string) (*client.Result, error) { return b.res, b.err }
func (b brokenRoster) Delete(context.Context, string) (*client.Result, error) { return b.res, b.err }
func (b brokenRoster) Search(context.Context, string) (*client.Result, error) { return b.res, b.err }
func (b brokenRoster) Check(context.Context, string) (*client.Result, error) { return b.res, b.err }

func TestViewAll(t *testing.T) {
	ctx := context.Background()

	u, out := newTestUI(t, "")
	require.NoError(t, u.ViewAll(ctx))
	assert.Equal(t, "WARNING: No students found.\n", out.String())

	u, out = newTestUI(t, "", "Alice")
	require.NoError(t, u.ViewAll(ctx))
	assert.JSONEq(t, `{"1":"Alice"}`, out.String())
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUI(t, "")

	require.NoError(t, u.Add(ctx, ""))
	assert.Equal(t, "WARNING: Please enter a name\n", out.String())

	out.Reset()
	require.NoError(t, u.Add(ctx, "Alice"))
	assert.Equal(t, "OK: Student added. ID: 1\n", out.String())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUI(t, "", "Alice")

	require.NoError(t, u.Update(ctx, "1", ""))
	assert.Equal(t, "WARNING: Please provide both ID and new name\n", out.String())

	out.Reset()
	require.NoError(t, u.Update(ctx, "9", "Nobody"))
	assert.Equal(t, "ERROR: Student not found\n", out.String())

	out.Reset()
	require.NoError(t, u.Update(ctx, "1", "Alicia"))
	assert.Equal(t, "OK: Updated: student 1 is now \"Alicia\"\n", out.String())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUI(t, "", "Alice")

	require.NoError(t, u.Delete(ctx, ""))
	assert.Equal(t, "WARNING: Please provide a student ID\n", out.String())

	out.Reset()
	require.NoError(t, u.Delete(ctx, "1"))
	assert.Equal(t, "OK: Deleted: student 1 (Alice)\n", out.String())

	out.Reset()
	require.NoError(t, u.Delete(ctx, "1"))
	assert.Equal(t, "ERROR: Student not found\n", out.String())
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUI(t, "", "Alice", "Bob")

	require.NoError(t, u.Search(ctx, ""))
	assert.Equal(t, "WARNING: Please enter a name\n", out.String())

	out.Reset()
	require.NoError(t, u.Search(ctx, "Zed"))
	assert.Equal(t, "WARNING: No match found\n", out.String())

	out.Reset()
	require.NoError(t, u.Search(ctx, "Bob"))
	assert.JSONEq(t, `{"2":"Bob"}`, out.String())
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	u, out := newTestUI(t, "", "Alice")

	require.NoError(t, u.Check(ctx, "1"))
	assert.Equal(t, "OK: Student 1 exists: Alice\n", out.String())

	out.Reset()
	require.NoError(t, u.Check(ctx, "2"))
	assert.Equal(t, "ERROR: Student not found\n", out.String())
}

func TestServerErrors(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	u := New(brokenRoster{res: &client.Result{StatusCode: http.StatusInternalServerError, Payload: client.Payload{}}},
		strings.NewReader(""), &out)

	require.NoError(t, u.ViewAll(ctx))
	require.NoError(t, u.Add(ctx, "x"))
	require.NoError(t, u.Search(ctx, "x"))
	assert.Equal(t,
		"ERROR: Error fetching students\nERROR: Failed to add student\nERROR: Error searching student\n",
		out.String())
}

func TestTransportErrorReturned(t *testing.T) {
	boom := errors.New("connection refused")
	u := New(brokenRoster{err: boom}, strings.NewReader(""), &bytes.Buffer{})

	assert.ErrorIs(t, u.ViewAll(context.Background()), boom)
	assert.ErrorIs(t, u.Add(context.Background(), "x"), boom)
}

func TestRunMenu(t *testing.T) {
	input := strings.Join([]string{
		"2", "Alice", // add
		"3", "1", "Alicia", // update
		"5", "Alicia", // search
		"4", "1", // delete
		"1", // view all
		"7", // unknown
		"q",
	}, "\n") + "\n"
	u, out := newTestUI(t, input)

	require.NoError(t, u.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "1) View All Students")
	assert.Contains(t, text, "OK: Student added. ID: 1")
	assert.Contains(t, text, `OK: Updated: student 1 is now "Alicia"`)
	assert.Contains(t, text, `"1": "Alicia"`)
	assert.Contains(t, text, "OK: Deleted: student 1 (Alicia)")
	assert.Contains(t, text, "WARNING: No students found.")
	assert.Contains(t, text, `WARNING: Unknown choice "7"`)
}

func TestRunStopsAtEOF(t *testing.T) {
	u, out := newTestUI(t, "2\n")

	require.NoError(t, u.Run(context.Background()))
	assert.NotContains(t, out.String(), "Student added")
}

func TestRunReportsTransportErrors(t *testing.T) {
	var out bytes.Buffer
	u := New(brokenRoster{err: errors.New("connection refused")}, strings.NewReader("1\nq\n"), &out)

	require.NoError(t, u.Run(context.Background()))
	assert.Contains(t, out.String(), "ERROR: connection refused")
}
