package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-roster/internal/validation"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusCreated, map[string]int{"id": 1}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestErrorEnvelopes(t *testing.T) {
	assert.Equal(t, Response{Status: StatusError, Error: "boom"}, GeneralError(errors.New("boom")))
	assert.Equal(t, Response{Status: StatusError, Error: "nope"}, Message("nope"))

	got := ValidationError([]validation.FieldError{
		{Field: "name", Reason: validation.ReasonRequired, Message: "name is required"},
		{Field: "email", Reason: validation.ReasonEmail, Message: "email must be a valid email address"},
	})
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "name is required, email must be a valid email address", got.Error)
}
