package manifest_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/wiregraph/internal/identity"
	"github.com/hanpama/wiregraph/internal/language"
	"github.com/hanpama/wiregraph/internal/manifest"
)

func testEntries() []manifest.Entry {
	return []manifest.Entry{
		{Name: "Hero", Type: language.Query, Document: "query Hero {\n  hero {\n    name\n  }\n}\n"},
		{Name: "CreateReview", Type: language.Mutation, Document: "mutation CreateReview{createReview(stars:5){stars}}"},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    manifest.Format
		wantErr bool
	}{
		{in: "", want: manifest.Unset},
		{in: "none", want: manifest.None},
		{in: "operation-list", want: manifest.OperationList},
		{in: "persisted-query-map", want: manifest.PersistedQueryMap},
		{in: "yaml", wantErr: true},
	}
	for _, tc := range cases {
		got, err := manifest.ParseFormat(tc.in)
		if tc.wantErr {
			require.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestResolveFormatPolicy(t *testing.T) {
	entries := []manifest.Entry{{Name: "Hero", Type: language.Query, Document: "query Hero { hero { name } }"}}
	cases := []struct {
		name string
		cfg  manifest.Config
		want manifest.Format
	}{
		{name: "absent defaults to none", cfg: manifest.Config{}, want: manifest.None},
		{name: "legacy flag defaults to operation list", cfg: manifest.Config{LegacyOperationList: true}, want: manifest.OperationList},
		{name: "explicit none wins over legacy flag", cfg: manifest.Config{Format: manifest.None, LegacyOperationList: true}, want: manifest.None},
		{name: "explicit format honored", cfg: manifest.Config{Format: manifest.PersistedQueryMap}, want: manifest.PersistedQueryMap},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := manifest.Resolve(entries, tc.cfg)
			require.NoError(t, err)
			require.Equal(t, tc.want, m.Format)
		})
	}
}

func TestResolveConfigurationConflict(t *testing.T) {
	// The document is broken on purpose: the conflict must surface before
	// any identity work would touch it.
	entries := []manifest.Entry{{Name: "Broken", Type: language.Query, Document: "query {"}}
	_, err := manifest.Resolve(entries, manifest.Config{
		Format:              manifest.OperationList,
		LegacyOperationList: true,
	})
	var conflict *manifest.ConfigurationConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, manifest.OperationList, conflict.Format)
}

func TestResolveIdentities(t *testing.T) {
	entries := []manifest.Entry{
		{Name: "Hero", Type: language.Query, Document: "query Hero {\n  hero {\n    name\n  }\n}\n"},
		{Name: "HeroById", Type: language.Query, Document: "query HeroById { hero { id } }"},
	}
	m, err := manifest.Resolve(entries, manifest.Config{Format: manifest.PersistedQueryMap})
	require.NoError(t, err)

	want := []manifest.Entry{
		{
			Identity: identity.Identity{AlgorithmVersion: "sha256", Digest: "45d2bec21196f9c5fc48f109c0127de52ccda1ef26e3fa2ff06a687395652403"},
			Name:     "Hero",
			Type:     language.Query,
			Document: "query Hero { hero { name } }",
		},
		{
			Identity: identity.Identity{AlgorithmVersion: "sha256", Digest: "5c9694d4809d383b0ecedd4c08fe80eb02549bb985720a3cddd363a06922f518"},
			Name:     "HeroById",
			Type:     language.Query,
			Document: "query HeroById { hero { id } }",
		},
	}
	if diff := cmp.Diff(want, m.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDeterministicOrder(t *testing.T) {
	var entries []manifest.Entry
	for i := 0; i < 16; i++ {
		entries = append(entries, manifest.Entry{
			Name:     fmt.Sprintf("Op%d", i),
			Type:     language.Query,
			Document: fmt.Sprintf("query Op%d { hero { name } }", i),
		})
	}
	for round := 0; round < 20; round++ {
		m, err := manifest.Resolve(entries, manifest.Config{Format: manifest.OperationList})
		require.NoError(t, err)
		require.Len(t, m.Entries, len(entries))
		for i, entry := range m.Entries {
			require.Equal(t, fmt.Sprintf("Op%d", i), entry.Name)
		}
	}
}

func TestResolveCollapsesIdenticalText(t *testing.T) {
	// Two declarations whose normalized text is byte-identical become one
	// record, not two.
	entries := []manifest.Entry{
		{Name: "Hero", Type: language.Query, Document: "query Hero { hero { name } }"},
		{Name: "Hero", Type: language.Query, Document: "query Hero{hero{name}}"},
	}
	m, err := manifest.Resolve(entries, manifest.Config{Format: manifest.PersistedQueryMap})
	require.NoError(t, err)
	require.Len(t, m.Entries, 1)
	require.Equal(t, "45d2bec21196f9c5fc48f109c0127de52ccda1ef26e3fa2ff06a687395652403", m.Entries[0].Identity.Digest)
}

func TestResolveDuplicateIdentity(t *testing.T) {
	entries := []manifest.Entry{
		{Name: "Hero", Type: language.Query, Document: "query Hero { hero { name } }"},
		{Name: "HeroById", Type: language.Query, Document: "query HeroById { hero { id } }"},
	}
	cfg := manifest.Config{
		Format:    manifest.PersistedQueryMap,
		Algorithm: identity.Func("const", func(string) string { return "feedc0de" }),
	}
	_, err := manifest.Resolve(entries, cfg)
	var dup *manifest.DuplicateIdentityError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "feedc0de", dup.Digest)
	require.Equal(t, []string{"Hero", "HeroById"}, dup.Names)
	require.EqualError(t, err, "operations Hero, HeroById share identity feedc0de but differ after normalization")
}

func TestResolveParseError(t *testing.T) {
	entries := []manifest.Entry{{Name: "Broken", Type: language.Query, Document: "query Broken {"}}
	_, err := manifest.Resolve(entries, manifest.Config{})
	require.Error(t, err)
	require.Contains(t, err.Error(), `operation "Broken"`)
}

func TestRenderOperationList(t *testing.T) {
	m, err := manifest.Resolve(testEntries(), manifest.Config{Format: manifest.OperationList})
	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, "operation_list", m.Render())
}

func TestRenderPersistedQueryMap(t *testing.T) {
	m, err := manifest.Resolve(testEntries(), manifest.Config{Format: manifest.PersistedQueryMap})
	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, "persisted_query_map", m.Render())
}

func TestRenderNone(t *testing.T) {
	m, err := manifest.Resolve(testEntries(), manifest.Config{})
	require.NoError(t, err)
	require.Equal(t, manifest.None, m.Format)
	require.Nil(t, m.Render())
	// Identities are still computed: they feed generated metadata even when
	// no manifest artifact is written.
	require.Len(t, m.Entries, 2)
	require.NotEmpty(t, m.Entries[0].Identity.Digest)
}

func TestRenderEmpty(t *testing.T) {
	list := &manifest.Manifest{Format: manifest.OperationList}
	require.Equal(t, "[]\n", string(list.Render()))
	pqm := &manifest.Manifest{Format: manifest.PersistedQueryMap}
	require.Equal(t, "{}\n", string(pqm.Render()))
}
