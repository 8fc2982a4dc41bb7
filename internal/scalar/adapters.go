package scalar

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UUID adapts scalars carried as RFC 4122 strings on the wire to
// uuid.UUID host values.
var UUID Adapter = funcs{decode: decodeUUID, encode: encodeUUID}

func decodeUUID(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected UUID string, got %T", raw)
	}
	return uuid.Parse(s)
}

func encodeUUID(v any) (any, error) {
	switch u := v.(type) {
	case uuid.UUID:
		return u.String(), nil
	case string:
		parsed, err := uuid.Parse(u)
		if err != nil {
			return nil, err
		}
		return parsed.String(), nil
	default:
		return nil, fmt.Errorf("expected uuid.UUID, got %T", v)
	}
}

// Time adapts scalars carried as RFC 3339 strings on the wire to
// time.Time host values.
var Time Adapter = funcs{decode: decodeTime, encode: encodeTime}

func decodeTime(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected RFC 3339 string, got %T", raw)
	}
	return time.Parse(time.RFC3339, s)
}

func encodeTime(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("expected time.Time, got %T", v)
	}
	return t.Format(time.RFC3339), nil
}
