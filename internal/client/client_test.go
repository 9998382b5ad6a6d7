package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aanand-mishra/student-roster/internal/http/routes"
	"github.com/aanand-mishra/student-roster/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, seed ...string) *Client {
	server := httptest.NewServer(routes.NewRouter(memory.New(seed...)))
	t.Cleanup(server.Close)

	c, err := New(server.URL, server.Client())
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/students", nil)
	assert.Error(t, err)

	_, err = New("://bad", nil)
	assert.Error(t, err)
}

func TestWelcome(t *testing.T) {
	c := newTestClient(t)

	res, err := c.Welcome(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.True(t, res.Payload.HasMessage())
	assert.Equal(t, "Welcome to Student API", res.Payload["message"])
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	res, err := c.Add(ctx, "Alice")
	require.NoError(t, err)
	var created Created
	require.NoError(t, res.Decode(&created))
	assert.Equal(t, Created{ID: "1", Name: "Alice"}, created)

	res, err = c.Update(ctx, "1", "Alicia")
	require.NoError(t, err)
	assert.False(t, res.Payload.HasError())
	var updated Updated
	require.NoError(t, res.Decode(&updated))
	assert.Equal(t, Updated{ID: "1", UpdatedName: "Alicia"}, updated)

	res, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, Payload{"1": "Alicia"}, res.Payload)

	res, err = c.Search(ctx, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, Payload{"1": "Alicia"}, res.Payload)

	res, err = c.Check(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = c.Delete(ctx, "1")
	require.NoError(t, err)
	var deleted Deleted
	require.NoError(t, res.Decode(&deleted))
	assert.Equal(t, Deleted{DeletedID: "1", DeletedName: "Alicia"}, deleted)

	res, err = c.Check(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.True(t, res.Payload.HasError())
}

func TestNotFoundPayloads(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	res, err := c.Update(ctx, "5", "X")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.True(t, res.Payload.HasError())

	res, err = c.Delete(ctx, "5")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.True(t, res.Payload.HasError())

	res, err = c.Search(ctx, "Nobody")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.True(t, res.Payload.HasMessage())
}

func TestSearchEncodesName(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, "Mary Ann", "A&B")

	res, err := c.Search(ctx, "Mary Ann")
	require.NoError(t, err)
	assert.Equal(t, Payload{"1": "Mary Ann"}, res.Payload)

	res, err = c.Search(ctx, "A&B")
	require.NoError(t, err)
	assert.Equal(t, Payload{"2": "A&B"}, res.Payload)
}

func TestIDIsPathEscaped(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"Student not found"}`))
	}))
	defer server.Close()

	c, err := New(server.URL, server.Client())
	require.NoError(t, err)

	_, err = c.Delete(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/students/a%2Fb", gotPath)
}

func TestContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c, err := New(server.URL, server.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.List(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer server.Close()

	c, err := New(server.URL, server.Client())
	require.NoError(t, err)

	_, err = c.List(context.Background())
	assert.ErrorContains(t, err, "decode response")
}
