package student_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-roster/internal/http/middleware"
	"github.com/aanand-mishra/students-roster/internal/http/router"
	"github.com/aanand-mishra/students-roster/internal/logger"
	"github.com/aanand-mishra/students-roster/internal/storage/sqlite"
	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/aanand-mishra/students-roster/internal/utils/response"
	"github.com/aanand-mishra/students-roster/internal/validation"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	validation.SetBranches(nil)

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(router.New(store, logger.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreate(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid student",
			body:       `{"name":"Bob Lee","email":"bob@x.com","branch":"EE"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			body:       `{"name":"Bobby","email":"bob@x.com","branch":"CS"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Student with email bob@x.com already exist",
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantError:  "request body is empty",
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short name",
			body:       `{"name":"Bo","email":"bo@x.com","branch":"EE"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "name must be at least 3 characters in length",
		},
		{
			name:       "missing branch",
			body:       `{"name":"Bob Lee","email":"bo@x.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "branch is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, srv, http.MethodPost, "/api/students", tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusCreated {
				created := decode[types.Student](t, resp)
				assert.NotZero(t, created.ID)
				assert.Equal(t, "Bob Lee", created.Name)
				return
			}

			body := decode[response.Response](t, resp)
			assert.Equal(t, response.StatusError, body.Status)
			if tt.wantError != "" {
				assert.Contains(t, body.Error, tt.wantError)
			}
		})
	}
}

func TestListGetUpdateDelete(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodGet, "/api/students", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]types.Student](t, resp))

	ann := decode[types.Student](t, do(t, srv, http.MethodPost, "/api/students",
		`{"name":"Ann","email":"a@x.com","branch":"CS"}`))
	bob := decode[types.Student](t, do(t, srv, http.MethodPost, "/api/students",
		`{"name":"Bob Lee","email":"bob@x.com","branch":"EE"}`))

	list := decode[[]types.Student](t, do(t, srv, http.MethodGet, "/api/students", ""))
	require.Len(t, list, 2)
	assert.Equal(t, bob.ID, list[0].ID, "newest first")

	path := "/api/students/" + itoa(ann.ID)

	got := decode[types.Student](t, do(t, srv, http.MethodGet, path, ""))
	assert.Equal(t, "a@x.com", got.Email)

	resp = do(t, srv, http.MethodPut, path, `{"name":"Ann Marie","email":"bob@x.com","branch":"CS"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[response.Response](t, resp).Error, "already exist")

	resp = do(t, srv, http.MethodPut, path, `{"name":"Ann Marie","email":"a@x.com","branch":"ME"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[types.Student](t, resp)
	assert.Equal(t, "Ann Marie", updated.Name)
	assert.Equal(t, "ME", updated.Branch)

	resp = do(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidID(t *testing.T) {
	srv := newServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		resp := do(t, srv, method, "/api/students/abc", `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, method)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/students", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(middleware.RequestIDHeader))

	resp2 := do(t, srv, http.MethodGet, "/api/students", "")
	assert.NotEmpty(t, resp2.Header.Get(middleware.RequestIDHeader))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
