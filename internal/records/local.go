package records

import "strings"

// Local serves lookups from the in-memory snapshot.
type Local struct {
	rows []ProjectRecord
}

func NewLocal(rows []ProjectRecord) *Local {
	return &Local{rows: rows}
}

func (l *Local) Len() int { return len(l.rows) }

// Find matches by case-insensitive substring, tolerating partial ids typed
// by callers. Zero matches means not found, not an error.
func (l *Local) Find(identifier string) []ProjectRecord {
	needle := Normalize(identifier)
	if needle == "" {
		return nil
	}
	var out []ProjectRecord
	for _, r := range l.rows {
		if strings.Contains(r.Identifier, needle) {
			out = append(out, r)
		}
	}
	return out
}
