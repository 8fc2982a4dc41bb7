package compiler

import (
	"errors"

	"github.com/hanpama/wiregraph/internal/descriptor"
	language "github.com/hanpama/wiregraph/internal/language"
)

// violationsFrom converts parser and validator errors into violations
// carrying the file they came from.
func violationsFrom(err error, filePath string) []*descriptor.Violation {
	var list language.ErrorList
	if errors.As(err, &list) {
		out := make([]*descriptor.Violation, 0, len(list))
		for _, lerr := range list {
			out = append(out, violationFrom(lerr, filePath))
		}
		return out
	}
	var single *language.Error
	if errors.As(err, &single) {
		return []*descriptor.Violation{violationFrom(single, filePath)}
	}
	return []*descriptor.Violation{{Message: err.Error(), File: filePath}}
}

func violationFrom(lerr *language.Error, filePath string) *descriptor.Violation {
	v := &descriptor.Violation{Message: lerr.Message, File: filePath}
	if len(lerr.Locations) > 0 {
		v.Line = lerr.Locations[0].Line
		v.Column = lerr.Locations[0].Column
	}
	return v
}
