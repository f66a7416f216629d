package identity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		raw           string
		defaultFSHost string
		wantID        ID
		wantHost      string
		wantFragment  string
		wantErr       string
	}{
		{
			name:          "dfs scheme keeps explicit host",
			raw:           "dfs://h/a/b.dat#b",
			defaultFSHost: "defaultfs",
			wantID:        "h/a/b.dat",
			wantHost:      "h",
			wantFragment:  "b",
		},
		{
			name:          "schemeless uri uses default host",
			raw:           "/a/b.dat#b",
			defaultFSHost: "defaultfs",
			wantID:        "defaultfs/a/b.dat",
			wantHost:      "defaultfs",
			wantFragment:  "b",
		},
		{
			name:          "non-dfs scheme substitutes default host unconditionally",
			raw:           "s3://other-host/a/m.zip#m",
			defaultFSHost: "defaultfs",
			wantID:        "defaultfs/a/m.zip",
			wantHost:      "defaultfs",
			wantFragment:  "m",
		},
		{
			name:          "no host anywhere is a configuration error",
			raw:           "/a/b.dat",
			defaultFSHost: "",
			wantErr:       "no host",
		},
		{
			name:          "dfs uri without fragment keeps host and path",
			raw:           "dfs://h/rel/path",
			defaultFSHost: "defaultfs",
			wantErr:       "",
			wantID:        "h/rel/path",
			wantHost:      "h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, uri, err := Derive(tt.raw, tt.defaultFSHost)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoHost)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantHost, uri.Host)
			assert.Equal(t, tt.wantFragment, uri.Fragment)
		})
	}
}

func TestParseURI_MissingPath(t *testing.T) {
	t.Parallel()

	_, _, err := Derive("dfs://h/", "defaultfs")
	require.NoError(t, err)

	_, err = ParseURI("dfs://h")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoHost))
}

func TestBasename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "b.dat", Basename(ID("h/a/b.dat")))
	assert.Equal(t, "m.zip", Basename(ID("h/a/m.zip")))
}
