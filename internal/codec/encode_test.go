package codec_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	codec "github.com/hanpama/wiregraph/internal/codec"
	descriptor "github.com/hanpama/wiregraph/internal/descriptor"
	scalar "github.com/hanpama/wiregraph/internal/scalar"
)

// assertRoundTrip decodes a payload, re-encodes it and requires the JSON
// to come back semantically identical.
func assertRoundTrip(t *testing.T, op *descriptor.Operation, payload string) {
	t.Helper()
	v, err := codec.DecodeJSON(op, []byte(payload))
	require.NoError(t, err, "failed to decode payload")
	encoded, err := codec.EncodeJSON(op, v)
	require.NoError(t, err, "failed to encode value")

	var want, got any
	require.NoError(t, json.Unmarshal([]byte(payload), &want))
	require.NoError(t, json.Unmarshal(encoded, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("objects, lists and nulls", func(t *testing.T) {
		op := compileOperation(t, `
			query Q { hero { id name appearsIn friends { name } } }
		`, nil)
		assertRoundTrip(t, op, `{
			"hero": {
				"id": "2001",
				"name": "R2-D2",
				"appearsIn": ["NEWHOPE", "EMPIRE", "JEDI"],
				"friends": [{"name": "Luke Skywalker"}, null, {"name": "Leia Organa"}]
			}
		}`)
	})

	t.Run("null root field", func(t *testing.T) {
		op := compileOperation(t, `query Q { hero { name } }`, nil)
		assertRoundTrip(t, op, `{"hero": null}`)
	})

	t.Run("fragment variant with discriminator", func(t *testing.T) {
		op := compileOperation(t, `
			query Q {
			  hero {
			    name
			    ... on Human { height }
			    ... on Droid { primaryFunction }
			  }
			}
		`, nil)
		assertRoundTrip(t, op, `{
			"hero": {"__typename": "Droid", "name": "R2-D2", "primaryFunction": "Astromech"}
		}`)
		assertRoundTrip(t, op, `{
			"hero": {"__typename": "Human", "name": "Han Solo", "height": 1.8}
		}`)
	})

	t.Run("aliased fields", func(t *testing.T) {
		op := compileOperation(t, `query Q { r2: droid(id: "2001") { label: name } }`, nil)
		assertRoundTrip(t, op, `{"droid": {"name": "R2-D2"}}`)
	})

	t.Run("union list with per-element dispatch", func(t *testing.T) {
		op := compileOperation(t, `
			query Q {
			  search(text: "o") {
			    __typename
			    ... on Human { name height }
			    ... on Droid { name primaryFunction }
			  }
			}
		`, nil)
		assertRoundTrip(t, op, `{
			"search": [
				{"__typename": "Human", "name": "Han Solo", "height": 1.8},
				{"__typename": "Droid", "name": "C-3PO", "primaryFunction": "Protocol"}
			]
		}`)
	})
}

// mustViolation runs fn and requires it to panic with *InvariantViolation.
func mustViolation(t *testing.T, fn func()) *codec.InvariantViolation {
	t.Helper()
	var violation *codec.InvariantViolation
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a panic")
			v, ok := r.(*codec.InvariantViolation)
			require.True(t, ok, "panic value must be *InvariantViolation, got %T", r)
			violation = v
		}()
		fn()
	}()
	return violation
}

func TestEncodeNullInvariant(t *testing.T) {
	name := stringField("name", false)

	v := mustViolation(t, func() {
		codec.EncodeField(name, &codec.Value{Kind: codec.ValueNull})
	})
	require.Equal(t, "name", v.Path.String())
	require.Contains(t, v.Message, "non-nullable")
}

func TestEncodeShapeInvariants(t *testing.T) {
	t.Run("scalar where object expected", func(t *testing.T) {
		obj := &descriptor.Field{
			WireName:     "hero",
			ResponseName: "hero",
			Kind:         descriptor.KindObject,
			Children:     []*descriptor.Field{stringField("name", false)},
		}
		mustViolation(t, func() {
			codec.EncodeField(obj, &codec.Value{Kind: codec.ValueScalar, Scalar: "nope"})
		})
	})

	t.Run("field order must match the descriptor", func(t *testing.T) {
		obj := &descriptor.Field{
			WireName:     "hero",
			ResponseName: "hero",
			Kind:         descriptor.KindObject,
			Children:     []*descriptor.Field{stringField("id", false), stringField("name", false)},
		}
		value := &codec.Value{
			Kind: codec.ValueObject,
			Fields: []codec.ObjectField{
				{Name: "name", Value: &codec.Value{Kind: codec.ValueScalar, Scalar: "R2-D2"}},
				{Name: "id", Value: &codec.Value{Kind: codec.ValueScalar, Scalar: "2001"}},
			},
		}
		mustViolation(t, func() {
			codec.EncodeField(obj, value)
		})
	})

	t.Run("adapter rejection is a defect", func(t *testing.T) {
		date := &descriptor.Field{
			WireName:     "reportDate",
			ResponseName: "reportDate",
			Kind:         descriptor.KindScalar,
			Scalar:       scalar.Type{GraphQLName: "Date", HostType: "CustomDate"},
			Adapter:      poisonField("reportDate").Adapter,
		}
		v := mustViolation(t, func() {
			codec.EncodeField(date, &codec.Value{Kind: codec.ValueScalar, Scalar: "2024-01-01"})
		})
		require.Contains(t, v.Message, "Date")
	})
}

func TestEncodeEmitsOnlyPopulatedVariant(t *testing.T) {
	op := compileOperation(t, `
		query Q {
		  hero {
		    ... on Human { height }
		    ... on Droid { primaryFunction }
		  }
		}
	`, nil)

	v, err := codec.Decode(op, map[string]any{
		"hero": map[string]any{"__typename": "Droid", "primaryFunction": "Astromech"},
	})
	require.NoError(t, err)

	encoded := codec.Encode(op, v)
	hero, ok := encoded["hero"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, map[string]any{
		"__typename":      "Droid",
		"primaryFunction": "Astromech",
	}, hero)
}
