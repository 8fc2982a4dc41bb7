package scalar_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	scalar "github.com/hanpama/wiregraph/internal/scalar"
)

func TestRegistryResolve(t *testing.T) {
	custom := scalar.AdapterFuncs(
		func(raw any) (any, error) { return fmt.Sprintf("decoded:%v", raw), nil },
		func(v any) (any, error) { return v, nil },
	)
	reg := scalar.NewRegistry(map[string]scalar.Registration{
		"Date":   {HostType: "CustomDate", Adapter: custom},
		"Locale": {HostType: scalar.HostString},
	})

	t.Run("exact name match wins over host type", func(t *testing.T) {
		a, err := reg.Resolve(scalar.Type{GraphQLName: "Date", HostType: "CustomDate"})
		require.NoError(t, err)
		got, err := a.Decode("2024-01-01")
		require.NoError(t, err)
		require.Equal(t, "decoded:2024-01-01", got)
	})

	t.Run("registration without adapter falls back to host type", func(t *testing.T) {
		a, err := reg.Resolve(scalar.Type{GraphQLName: "Locale", HostType: scalar.HostString})
		require.NoError(t, err)
		got, err := a.Decode("ko-KR")
		require.NoError(t, err)
		require.Equal(t, "ko-KR", got)
	})

	t.Run("built-in host types resolve without registration", func(t *testing.T) {
		for _, host := range []string{
			scalar.HostString, scalar.HostBool, scalar.HostInt32, scalar.HostInt64,
			scalar.HostFloat32, scalar.HostFloat64, scalar.HostMap, scalar.HostList,
			scalar.HostUpload, scalar.HostAny,
		} {
			_, err := reg.Resolve(scalar.Type{GraphQLName: "X", HostType: host})
			require.NoError(t, err, "host type %s", host)
		}
	})

	t.Run("unknown scalar fails with typed error", func(t *testing.T) {
		_, err := reg.Resolve(scalar.Type{GraphQLName: "Duration", HostType: ""})
		var unresolved *scalar.UnresolvedScalarError
		require.ErrorAs(t, err, &unresolved)
		require.Equal(t, "Duration", unresolved.GraphQLName)
		require.Equal(t, "", unresolved.HostType)
	})
}

func TestRegistryHostTypeFor(t *testing.T) {
	reg := scalar.NewRegistry(map[string]scalar.Registration{
		"Date": {HostType: "CustomDate"},
	})

	require.Equal(t, "CustomDate", reg.HostTypeFor("Date"))
	require.Equal(t, scalar.HostString, reg.HostTypeFor("String"))
	require.Equal(t, scalar.HostString, reg.HostTypeFor("ID"))
	require.Equal(t, scalar.HostInt32, reg.HostTypeFor("Int"))
	require.Equal(t, scalar.HostFloat64, reg.HostTypeFor("Float"))
	require.Equal(t, scalar.HostBool, reg.HostTypeFor("Boolean"))
	require.Equal(t, "", reg.HostTypeFor("Duration"))
}

func TestBuiltinCoercion(t *testing.T) {
	reg := scalar.NewRegistry(nil)
	resolve := func(host string) scalar.Adapter {
		a, err := reg.Resolve(scalar.Type{GraphQLName: "X", HostType: host})
		require.NoError(t, err)
		return a
	}

	t.Run("int32 accepts integral float64", func(t *testing.T) {
		got, err := resolve(scalar.HostInt32).Decode(float64(42))
		require.NoError(t, err)
		require.Equal(t, int32(42), got)
	})

	t.Run("int32 rejects fractional values", func(t *testing.T) {
		_, err := resolve(scalar.HostInt32).Decode(1.5)
		require.Error(t, err)
	})

	t.Run("int32 rejects overflow", func(t *testing.T) {
		_, err := resolve(scalar.HostInt32).Decode(float64(1) + float64(1<<31))
		require.Error(t, err)
	})

	t.Run("int64 keeps width", func(t *testing.T) {
		got, err := resolve(scalar.HostInt64).Decode(int64(1) << 40)
		require.NoError(t, err)
		require.Equal(t, int64(1)<<40, got)
	})

	t.Run("string rejects numbers", func(t *testing.T) {
		_, err := resolve(scalar.HostString).Decode(float64(1))
		require.Error(t, err)
	})

	t.Run("float32 narrows", func(t *testing.T) {
		got, err := resolve(scalar.HostFloat32).Decode(1.5)
		require.NoError(t, err)
		require.Equal(t, float32(1.5), got)
	})

	t.Run("map and list pass through", func(t *testing.T) {
		m, err := resolve(scalar.HostMap).Decode(map[string]any{"a": 1})
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": 1}, m)

		l, err := resolve(scalar.HostList).Decode([]any{"a"})
		require.NoError(t, err)
		require.Equal(t, []any{"a"}, l)

		_, err = resolve(scalar.HostMap).Decode([]any{"a"})
		require.Error(t, err)
	})
}

func TestUUIDAdapter(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	decoded, err := scalar.UUID.Decode(id.String())
	require.NoError(t, err)
	require.Equal(t, id, decoded)

	encoded, err := scalar.UUID.Encode(decoded)
	require.NoError(t, err)
	require.Equal(t, id.String(), encoded)

	_, err = scalar.UUID.Decode("not-a-uuid")
	require.Error(t, err)
}

func TestTimeAdapter(t *testing.T) {
	decoded, err := scalar.Time.Decode("2024-01-01T09:30:00Z")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), decoded)

	encoded, err := scalar.Time.Encode(decoded)
	require.NoError(t, err)
	require.Equal(t, "2024-01-01T09:30:00Z", encoded)

	_, err = scalar.Time.Decode(20240101)
	require.Error(t, err)
}

func TestUnresolvedScalarErrorMessage(t *testing.T) {
	err := error(&scalar.UnresolvedScalarError{GraphQLName: "Date", HostType: "CustomDate"})
	require.Equal(t, `no adapter for scalar Date (host type "CustomDate")`, err.Error())
	require.True(t, errors.As(err, new(*scalar.UnresolvedScalarError)))
}
