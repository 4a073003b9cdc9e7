// api/model/tribool.go
package model

import "bytes"

// TriBool is the answer state of a boolean wizard question. A question that
// was never answered is Unknown, which is distinct from an explicit "no":
// rules must never treat silence as compliance or as a violation.
type TriBool int

const (
	Unknown TriBool = iota
	False
	True
)

// FromBoolPtr maps a nullable boolean (wire shape) onto the tri-state.
func FromBoolPtr(b *bool) TriBool {
	if b == nil {
		return Unknown
	}
	if *b {
		return True
	}
	return False
}

// IsTrue reports an explicit yes.
func (t TriBool) IsTrue() bool { return t == True }

// IsFalse reports an explicit no.
func (t TriBool) IsFalse() bool { return t == False }

// Known reports whether the question was answered at all.
func (t TriBool) Known() bool { return t != Unknown }

func (t TriBool) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

var (
	jsonNull  = []byte("null")
	jsonTrue  = []byte("true")
	jsonFalse = []byte("false")
)

// MarshalJSON encodes Unknown as null so the wire format matches the
// nullable booleans the wizard sends.
func (t TriBool) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return jsonTrue, nil
	case False:
		return jsonFalse, nil
	default:
		return jsonNull, nil
	}
}

func (t *TriBool) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, jsonTrue):
		*t = True
	case bytes.Equal(data, jsonFalse):
		*t = False
	default:
		*t = Unknown
	}
	return nil
}
