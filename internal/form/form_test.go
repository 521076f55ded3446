package form

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/aanand-mishra/students-roster/internal/validation"
)

func TestNewFormIsUntouched(t *testing.T) {
	f := New()

	for _, name := range Fields {
		assert.Equal(t, Untouched, f.Validity(name).State, name)
		assert.Empty(t, f.Value(name))
	}
	assert.Equal(t, Idle, f.State())
	assert.False(t, f.HasInvalid())
}

func TestSetValidatesOneField(t *testing.T) {
	validation.SetBranches(nil)
	f := New()

	f.Set(Name, "Bo")
	assert.Equal(t, Invalid, f.Validity(Name).State)
	assert.Equal(t, validation.ReasonMinLength, f.Validity(Name).Reason)
	assert.NotEmpty(t, f.Validity(Name).Message)
	assert.Equal(t, Untouched, f.Validity(Email).State, "other fields stay untouched")

	f.Set(Name, "Bob")
	assert.Equal(t, Valid, f.Validity(Name).State)

	f.Set(Email, "not-an-email")
	assert.Equal(t, validation.ReasonEmail, f.Validity(Email).Reason)

	f.Set("unknown", "x")
	assert.Empty(t, f.Value("unknown"))
}

func TestValidate(t *testing.T) {
	validation.SetBranches(nil)

	tests := []struct {
		name        string
		draft       types.StudentDraft
		wantInvalid map[string]string
	}{
		{
			name:  "valid",
			draft: types.StudentDraft{Name: "Bob Lee", Email: "bob@x.com", Branch: "EE"},
		},
		{
			name:        "short name",
			draft:       types.StudentDraft{Name: "Al", Email: "al@x.com", Branch: "EE"},
			wantInvalid: map[string]string{Name: validation.ReasonMinLength},
		},
		{
			name:        "missing email",
			draft:       types.StudentDraft{Name: "Alice", Branch: "EE"},
			wantInvalid: map[string]string{Email: validation.ReasonRequired},
		},
		{
			name:        "missing branch",
			draft:       types.StudentDraft{Name: "Alice", Email: "al@x.com"},
			wantInvalid: map[string]string{Branch: validation.ReasonRequired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			f.Fill(tt.draft)

			err := f.Validate()
			if tt.wantInvalid == nil {
				require.NoError(t, err)
				for _, name := range Fields {
					assert.Equal(t, Valid, f.Validity(name).State)
				}
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			got := make(map[string]string)
			for name, v := range verr.Fields {
				got[name] = v.Reason
			}
			assert.Equal(t, tt.wantInvalid, got)
			assert.True(t, f.HasInvalid())
		})
	}
}

func TestDuplicatedSurvivesValidateUntilEdited(t *testing.T) {
	validation.SetBranches(nil)
	f := New()
	f.Fill(types.StudentDraft{Name: "Ann", Email: "a@x.com", Branch: "CS"})

	f.MarkInvalid(Email, validation.ReasonDuplicated, "email already registered")
	require.Error(t, f.Validate())
	assert.Equal(t, validation.ReasonDuplicated, f.Validity(Email).Reason)

	f.Set(Email, "ann@x.com")
	assert.Equal(t, Valid, f.Validity(Email).State)
	assert.NoError(t, f.Validate())
}

func TestFillCopiesDraft(t *testing.T) {
	f := New()
	d := types.StudentDraft{Name: "Ann", Email: "a@x.com", Branch: "CS"}
	f.Fill(d)

	assert.Equal(t, d, f.Draft())
	assert.Equal(t, Untouched, f.Validity(Name).State)
}

func TestSubmissionLifecycle(t *testing.T) {
	f := New()

	require.NoError(t, f.Begin())
	assert.True(t, f.InFlight())
	assert.ErrorIs(t, f.Begin(), ErrInFlight)

	f.Finish(false)
	assert.Equal(t, Failed, f.State())
	assert.False(t, f.InFlight())

	require.NoError(t, f.Begin())
	f.Finish(true)
	assert.Equal(t, Succeeded, f.State())

	f.Reset()
	assert.Equal(t, Idle, f.State())
}

func TestBeginIsExclusive(t *testing.T) {
	f := New()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Begin() == nil {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
}
