package freshness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		materialized  bool
		entryMtime    int64
		expectedStamp int64
		dfsStamp      int64
		want          Outcome
		wantStale     bool
	}{
		{
			name:         "never materialized always needs materialize",
			materialized: false,
			entryMtime:   -1,
			want:         NeedsMaterialize,
		},
		{
			name:          "matches job and local entry is fresh",
			materialized:  true,
			entryMtime:    100,
			expectedStamp: 100,
			dfsStamp:      100,
			want:          Fresh,
		},
		{
			name:          "remote drifted from job is fatal",
			materialized:  true,
			entryMtime:    100,
			expectedStamp: 100,
			dfsStamp:      200,
			wantStale:     true,
		},
		{
			name:          "remote drifted from local entry needs refresh",
			materialized:  true,
			entryMtime:    100,
			expectedStamp: 200,
			dfsStamp:      200,
			want:          NeedsMaterialize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Check(tt.materialized, tt.entryMtime, tt.expectedStamp, tt.dfsStamp)
			if tt.wantStale {
				require.ErrorIs(t, err, ErrStale)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
