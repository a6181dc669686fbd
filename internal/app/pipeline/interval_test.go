package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name       string
		raw        []RawInterval
		duration   float64
		minDur     float64
		wantStatus []string
	}{
		{
			name:       "well formed",
			raw:        []RawInterval{{Speaker: "0", Start: 0, End: 2}, {Speaker: "1", Start: 3, End: 5}},
			duration:   8,
			minDur:     0.1,
			wantStatus: []string{StatusOK, StatusOK},
		},
		{
			name:       "end equals start dropped",
			raw:        []RawInterval{{Speaker: "0", Start: 2, End: 2}},
			duration:   8,
			minDur:     0.1,
			wantStatus: []string{StatusDropped},
		},
		{
			name:       "end before start dropped",
			raw:        []RawInterval{{Speaker: "0", Start: 5, End: 3}},
			duration:   8,
			minDur:     0.1,
			wantStatus: []string{StatusDropped},
		},
		{
			name:       "negative start clamped",
			raw:        []RawInterval{{Speaker: "0", Start: -1, End: 2}},
			duration:   8,
			minDur:     0.1,
			wantStatus: []string{StatusClamped},
		},
		{
			name:       "end past duration clamped",
			raw:        []RawInterval{{Speaker: "0", Start: 7.9, End: 9.5}},
			duration:   8,
			minDur:     0.05,
			wantStatus: []string{StatusClamped},
		},
		{
			name:       "clamp leaves below minimum dropped",
			raw:        []RawInterval{{Speaker: "0", Start: 7.95, End: 9.5}},
			duration:   8,
			minDur:     0.1,
			wantStatus: []string{StatusDropped},
		},
		{
			name:       "below minimum duration dropped",
			raw:        []RawInterval{{Speaker: "0", Start: 10.0, End: 10.05}},
			duration:   20,
			minDur:     0.1,
			wantStatus: []string{StatusDropped},
		},
		{
			name:       "exactly minimum duration kept",
			raw:        []RawInterval{{Speaker: "0", Start: 10.0, End: 10.2}},
			duration:   20,
			minDur:     0.1,
			wantStatus: []string{StatusOK},
		},
		{
			name:       "fully outside range dropped",
			raw:        []RawInterval{{Speaker: "0", Start: 12, End: 15}},
			duration:   8,
			minDur:     0.1,
			wantStatus: []string{StatusDropped},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.raw, tt.duration, tt.minDur)
			require.Len(t, got, len(tt.wantStatus))
			for i, want := range tt.wantStatus {
				assert.Equal(t, want, got[i].Status, "segment %d", i)
				if got[i].Live() {
					assert.GreaterOrEqual(t, got[i].Start, 0.0)
					assert.LessOrEqual(t, got[i].End, tt.duration)
					assert.Less(t, got[i].Start, got[i].End)
				}
			}
		})
	}
}

func TestSanitize_ClampBounds(t *testing.T) {
	got := Sanitize([]RawInterval{{Speaker: "0", Start: 7.9, End: 9.5}}, 8.0, 0.05)
	require.Len(t, got, 1)
	assert.Equal(t, StatusClamped, got[0].Status)
	assert.Equal(t, 7.9, got[0].Start)
	assert.Equal(t, 8.0, got[0].End)
}

func TestSanitize_StableOrdering(t *testing.T) {
	raw := []RawInterval{
		{Speaker: "b", Start: 3, End: 4},
		{Speaker: "a", Start: 1, End: 2},
		{Speaker: "c", Start: 1, End: 5},
		{Speaker: "d", Start: 1, End: 3},
	}

	first := Sanitize(raw, 10, 0.1)
	second := Sanitize(raw, 10, 0.1)
	assert.Equal(t, first, second)

	// Sorted by start; the three equal-start segments keep input order.
	assert.Equal(t, []int{1, 2, 3, 0}, []int{first[0].Index, first[1].Index, first[2].Index, first[3].Index})
}

func TestSanitize_OverlapsPreserved(t *testing.T) {
	raw := []RawInterval{
		{Speaker: "0", Start: 1, End: 4},
		{Speaker: "1", Start: 2, End: 3},
	}
	got := Sanitize(raw, 10, 0.1)
	require.Len(t, got, 2)
	assert.Equal(t, StatusOK, got[0].Status)
	assert.Equal(t, StatusOK, got[1].Status)
	assert.Equal(t, 1.0, got[0].Start)
	assert.Equal(t, 2.0, got[1].Start)
}

func TestCountByStatus(t *testing.T) {
	segments := []SanitizedSegment{
		{Status: StatusOK},
		{Status: StatusClamped},
		{Status: StatusDropped},
		{Status: StatusDropped},
	}
	ok, clamped, dropped := CountByStatus(segments)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, clamped)
	assert.Equal(t, 2, dropped)
}
