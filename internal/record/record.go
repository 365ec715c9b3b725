// Package record defines the shape of one fetched list entry and how it is
// read off the wire.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Name is an optional display name. The zero value is absent.
type Name struct {
	value   string
	present bool
}

func Present(s string) Name { return Name{value: s, present: true} }
func Absent() Name          { return Name{} }

// Get returns the name and whether it is present.
func (n Name) Get() (string, bool) { return n.value, n.present }

func (n Name) IsPresent() bool { return n.present }

// Or returns the name, or def when absent.
func (n Name) Or(def string) string {
	if !n.present {
		return def
	}
	return n.value
}

func (n Name) String() string {
	if !n.present {
		return "<absent>"
	}
	return n.value
}

func (n Name) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

func (n *Name) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = Absent()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	*n = Present(s)
	return nil
}

// Record is one fetched entity. GroupID travels as "listId" on the wire.
type Record struct {
	ID      int  `json:"id"`
	GroupID int  `json:"listId"`
	Name    Name `json:"name"`
}

// Valid reports whether the record carries a present, non-empty name.
// Whitespace-only names count as valid.
func (r Record) Valid() bool {
	s, ok := r.Name.Get()
	return ok && s != ""
}

type wireRecord struct {
	ID     *int `json:"id"`
	ListID *int `json:"listId"`
	Name   Name `json:"name"`
}

var (
	ErrMissingID     = errors.New("record: missing id")
	ErrMissingListID = errors.New("record: missing listId")
)

func (r *Record) UnmarshalJSON(b []byte) error {
	var w wireRecord
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.ID == nil {
		return ErrMissingID
	}
	if w.ListID == nil {
		return ErrMissingListID
	}
	*r = Record{ID: *w.ID, GroupID: *w.ListID, Name: w.Name}
	return nil
}

// DecodeList decodes a JSON array of records. Any malformed element fails
// the whole payload.
func DecodeList(data []byte) ([]Record, error) {
	var out []Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		// a bare `null` payload is not a list
		if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			return nil, errors.New("record: expected array, got null")
		}
		out = []Record{}
	}
	return out, nil
}
