package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-roster/internal/logger"
	"github.com/aanand-mishra/students-roster/internal/types"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", time.Second, logger.Discard())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestList(t *testing.T) {
	want := []types.Student{
		{ID: 2, Name: "Bob Lee", Email: "bob@x.com", Branch: "EE"},
		{ID: 1, Name: "Ann", Email: "a@x.com", Branch: "CS"},
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(types.RequestIDHeader))
		writeJSON(w, http.StatusOK, want)
	})

	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	got, err := c.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCreate(t *testing.T) {
	draft := types.StudentDraft{Name: "Bob Lee", Email: "bob@x.com", Branch: "EE"}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/students", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Bob Lee","email":"bob@x.com","branch":"EE"}`, string(raw))

		writeJSON(w, http.StatusCreated, types.Student{ID: 11, Name: draft.Name, Email: draft.Email, Branch: draft.Branch})
	})

	created, err := c.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, draft, created.Draft())
}

func TestUpdate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/students/7", r.URL.Path)

		var draft types.StudentDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		writeJSON(w, http.StatusOK, types.Student{ID: 7, Name: draft.Name, Email: draft.Email, Branch: draft.Branch})
	})

	updated, err := c.Update(context.Background(), 7, types.StudentDraft{Name: "Ann Marie", Email: "a@x.com", Branch: "CS"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.ID)
	assert.Equal(t, "Ann Marie", updated.Name)
}

func TestDelete(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNoContent} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/api/students/3", r.URL.Path)
			w.WriteHeader(status)
		})

		assert.NoError(t, c.Delete(context.Background(), 3), "status %d", status)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantMessage   string
		wantDuplicate bool
	}{
		{
			name:          "backend duplicate envelope",
			status:        http.StatusBadRequest,
			body:          `{"status":"error","error":"Student with email a@x.com already exist"}`,
			wantMessage:   "Student with email a@x.com already exist",
			wantDuplicate: true,
		},
		{
			name:          "spring style body",
			status:        http.StatusBadRequest,
			body:          `{"status":400,"error":"Bad Request","message":"Student with email a@x.com already exist"}`,
			wantMessage:   "Student with email a@x.com already exist",
			wantDuplicate: true,
		},
		{
			name:          "other 400 follows the status convention",
			status:        http.StatusBadRequest,
			body:          `{"status":"error","error":"name is required"}`,
			wantMessage:   "name is required",
			wantDuplicate: true,
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        `{"status":"error","error":"disk full"}`,
			wantMessage: "disk full",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			body:        "upstream down",
			wantMessage: "upstream down",
		},
		{
			name:        "empty body",
			status:      http.StatusNotFound,
			wantMessage: "Not Found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Create(context.Background(), types.StudentDraft{Name: "Ann", Email: "a@x.com", Branch: "CS"})
			require.Error(t, err)

			var terr *TransportError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.status, terr.Status)
			assert.Equal(t, tt.wantMessage, terr.Message)
			assert.Equal(t, tt.wantDuplicate, IsDuplicateEmail(err))
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(srv.URL, time.Second, logger.Discard())
	_, err := c.List(context.Background())
	require.Error(t, err)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Zero(t, terr.Status)
	assert.False(t, IsDuplicateEmail(err))
	assert.Contains(t, err.Error(), "transport:")
}

func TestUndecodableBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "<html>")
	})

	_, err := c.List(context.Background())

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Contains(t, terr.Message, "decode response")
}

func TestDuplicateByMessageOnly(t *testing.T) {
	err := &TransportError{Status: http.StatusConflict, Message: "Student with email a@x.com already exist"}
	assert.True(t, IsDuplicateEmail(err))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRequestIDPerCall(t *testing.T) {
	var ids []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(types.RequestIDHeader))
		writeJSON(w, http.StatusOK, []types.Student{})
	})

	for range 2 {
		_, err := c.List(context.Background())
		require.NoError(t, err)
	}

	require.Len(t, ids, 2)
	for _, id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, ids[0], ids[1])
}
