// Package models defines the game entities the client reads from and sends
// to the server.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a server-assigned identifier. The server sends numbers but the
// client treats ids as opaque; both JSON numbers and strings are accepted.
type ID string

// NoID is the sentinel the server uses for "no live reference".
const NoID ID = "0"

// IsZero reports whether id refers to nothing ("" or "0").
func (id ID) IsZero() bool { return id == "" || id == NoID }

// String returns the id as sent by the server.
func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid id %s", string(b))
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes canonical decimal ids as numbers and everything else,
// including "007" or "+7", as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("0"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}
