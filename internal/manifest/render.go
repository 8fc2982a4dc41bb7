package manifest

import (
	"encoding/json"
	"strings"
)

// Render serializes the manifest for its effective format. None renders to
// nil: no artifact leaves the build. Records and map keys are written in
// entry order so the output bytes are reproducible across runs.
func (m *Manifest) Render() []byte {
	switch m.Format {
	case OperationList:
		return m.renderOperationList()
	case PersistedQueryMap:
		return m.renderPersistedQueryMap()
	default:
		return nil
	}
}

func (m *Manifest) renderOperationList() []byte {
	if len(m.Entries) == 0 {
		return []byte("[]\n")
	}
	var b strings.Builder
	b.WriteString("[\n")
	for i, entry := range m.Entries {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		writeRecord(&b, entry, "  ")
	}
	b.WriteString("\n]\n")
	return []byte(b.String())
}

func (m *Manifest) renderPersistedQueryMap() []byte {
	if len(m.Entries) == 0 {
		return []byte("{}\n")
	}
	var b strings.Builder
	b.WriteString("{\n")
	for i, entry := range m.Entries {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(jsonString(entry.Identity.Digest))
		b.WriteString(": ")
		writeRecord(&b, entry, "  ")
	}
	b.WriteString("\n}\n")
	return []byte(b.String())
}

func writeRecord(b *strings.Builder, entry Entry, indent string) {
	b.WriteString("{\n")
	b.WriteString(indent)
	b.WriteString(`  "name": `)
	b.WriteString(jsonString(entry.Name))
	b.WriteString(",\n")
	b.WriteString(indent)
	b.WriteString(`  "type": `)
	b.WriteString(jsonString(string(entry.Type)))
	b.WriteString(",\n")
	b.WriteString(indent)
	b.WriteString(`  "document": `)
	b.WriteString(jsonString(entry.Document))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString("}")
}

func jsonString(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
