package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleDate_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"bare date", `"2020-01-02"`, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", `"2020-01-02T15:04:05Z"`, time.Date(2020, 1, 2, 15, 4, 5, 0, time.UTC), false},
		{"null", `null`, time.Time{}, false},
		{"empty string", `""`, time.Time{}, false},
		{"garbage", `"not-a-date"`, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d FlexibleDate
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time()), "got %v", d.Time())
		})
	}
}

func TestFlexibleDate_Marshal(t *testing.T) {
	d := NewFlexibleDate(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2020-01-02T00:00:00Z"`, string(b))

	var zero FlexibleDate
	b, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
