package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		env       string
		wantJSON  bool
		wantDebug bool
	}{
		{"dev", false, true},
		{"", false, true},
		{"staging", true, true},
		{"prod", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := Setup(tt.env, &buf)

			log.Debug("debug line")
			if !tt.wantDebug {
				assert.Zero(t, buf.Len())
			}

			buf.Reset()
			log.Info("info line")
			require.NotZero(t, buf.Len())

			isJSON := json.Valid(bytes.TrimSpace(buf.Bytes()))
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}
