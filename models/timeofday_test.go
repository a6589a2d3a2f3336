package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{name: "midnight", input: "00:00", want: 0},
		{name: "morning", input: "09:30", want: 570},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "not padded", input: "9:30", wantErr: true},
		{name: "seconds not accepted", input: "09:30:00", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			if tt.wantErr {
				var fe *FormatError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.input, fe.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestNormalizeStoredTime(t *testing.T) {
	got, err := NormalizeStoredTime("09:15:00")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(9, 15), got)

	got, err = NormalizeStoredTime("17:45:59")
	require.NoError(t, err)
	assert.Equal(t, "17:45", got.String(), "seconds are truncated")

	got, err = NormalizeStoredTime("08:00")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(8, 0), got)

	_, err = NormalizeStoredTime("08:00:61")
	assert.Error(t, err)
	_, err = NormalizeStoredTime("08-00-00")
	assert.Error(t, err)
}

func TestCompareTimes(t *testing.T) {
	a, b := NewTimeOfDay(9, 0), NewTimeOfDay(17, 0)
	assert.Equal(t, -1, CompareTimes(a, b))
	assert.Equal(t, 1, CompareTimes(b, a))
	assert.Equal(t, 0, CompareTimes(a, a))
}

func TestGenerateTimeOptions(t *testing.T) {
	t.Run("inclusive end", func(t *testing.T) {
		got := GenerateTimeOptions(8, 10, 30)
		want := []string{"08:00", "08:30", "09:00", "09:30", "10:00"}
		require.Len(t, got, len(want))
		for i, w := range want {
			assert.Equal(t, w, got[i].String())
		}
	})

	t.Run("partial step is dropped", func(t *testing.T) {
		got := GenerateTimeOptions(8, 9, 45)
		require.Len(t, got, 2)
		assert.Equal(t, "08:00", got[0].String())
		assert.Equal(t, "08:45", got[1].String())
	})

	t.Run("end capped at 23:59", func(t *testing.T) {
		got := GenerateTimeOptions(23, 24, 30)
		require.Len(t, got, 2)
		assert.Equal(t, "23:30", got[1].String())
	})

	t.Run("invalid input yields empty list", func(t *testing.T) {
		assert.Empty(t, GenerateTimeOptions(10, 8, 15))
		assert.Empty(t, GenerateTimeOptions(8, 10, 0))
		assert.NotNil(t, GenerateTimeOptions(8, 10, -5))
	})
}

func TestTimeOfDayJSON(t *testing.T) {
	var payload struct {
		Start TimeOfDay `json:"start"`
		End   TimeOfDay `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"09:00","end":"18:00:00"}`), &payload))
	assert.Equal(t, NewTimeOfDay(9, 0), payload.Start)
	assert.Equal(t, NewTimeOfDay(18, 0), payload.End)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:00","end":"18:00"}`, string(out))

	assert.Equal(t, "09:00:00", payload.Start.Stored())

	err = json.Unmarshal([]byte(`{"start":"9am"}`), &payload)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestTimeRange(t *testing.T) {
	morning := TimeRange{Start: NewTimeOfDay(9, 0), End: NewTimeOfDay(12, 0)}
	adjacent := TimeRange{Start: NewTimeOfDay(12, 0), End: NewTimeOfDay(13, 0)}
	inside := TimeRange{Start: NewTimeOfDay(10, 0), End: NewTimeOfDay(10, 15)}

	assert.True(t, morning.Valid())
	assert.False(t, TimeRange{Start: NewTimeOfDay(12, 0), End: NewTimeOfDay(12, 0)}.Valid())

	assert.False(t, morning.Overlaps(adjacent), "touching ranges do not overlap")
	assert.True(t, morning.Overlaps(inside))
	assert.True(t, morning.Contains(inside))
	assert.True(t, morning.Contains(morning), "bounds are inclusive")
	assert.False(t, morning.Contains(adjacent))

	assert.Equal(t, 180, morning.Minutes())
	assert.Equal(t, "09:00-12:00", morning.String())
}
