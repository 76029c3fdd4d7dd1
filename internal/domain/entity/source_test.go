package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charfreq/pkg/charfreq"
)

func TestSourceKind(t *testing.T) {
	assert.True(t, KindFile.Valid())
	assert.False(t, KindFile.IsNetwork())
	for _, k := range []SourceKind{KindURL, KindHTML, KindFeed} {
		assert.True(t, k.Valid())
		assert.True(t, k.IsNetwork())
	}
	assert.False(t, SourceKind("ftp").Valid())
}

func TestSource_Validate(t *testing.T) {
	tests := []struct {
		name      string
		source    Source
		wantField string
	}{
		{
			name:   "valid file source",
			source: Source{Name: "alice", Kind: KindFile, Location: "testdata/alice.txt"},
		},
		{
			name:   "valid feed source with overrides",
			source: Source{Name: "blog", Kind: KindFeed, Location: "https://example.com/feed.xml", CaseMode: "insensitive", Threads: 4},
		},
		{
			name:      "missing name",
			source:    Source{Name: " ", Kind: KindFile, Location: "a.txt"},
			wantField: "name",
		},
		{
			name:      "unknown kind",
			source:    Source{Name: "x", Kind: "ftp", Location: "a.txt"},
			wantField: "kind",
		},
		{
			name:      "missing location",
			source:    Source{Name: "x", Kind: KindFile},
			wantField: "location",
		},
		{
			name:      "network kind with bad URL",
			source:    Source{Name: "x", Kind: KindHTML, Location: "not a url"},
			wantField: "url",
		},
		{
			name:      "bad case mode",
			source:    Source{Name: "x", Kind: KindFile, Location: "a.txt", CaseMode: "upper"},
			wantField: "case_mode",
		},
		{
			name:      "negative threads",
			source:    Source{Name: "x", Kind: KindFile, Location: "a.txt", Threads: -2},
			wantField: "threads",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestSource_Overrides(t *testing.T) {
	plain := Source{Name: "a", Kind: KindFile, Location: "a.txt"}
	assert.Equal(t, charfreq.Sensitive, plain.Mode(charfreq.Sensitive))
	assert.Equal(t, 8, plain.ThreadCount(8))

	custom := Source{Name: "a", Kind: KindFile, Location: "a.txt", CaseMode: "insensitive", Threads: 2}
	assert.Equal(t, charfreq.Insensitive, custom.Mode(charfreq.Sensitive))
	assert.Equal(t, 2, custom.ThreadCount(8))
}
