package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Room is the office a doctor receives patients in. Older clients send it as a
// number, newer ones as a string, so both are accepted and it is always encoded as a string.
type Room string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (r *Room) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Room(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("room must be a string or a number: %w", err)
	}
	*r = Room(n.String())
	return nil
}

// String returns the room as text.
func (r Room) String() string {
	return string(r)
}

// IsZero reports whether the room is empty.
func (r Room) IsZero() bool {
	return strings.TrimSpace(string(r)) == ""
}

// Number returns the room as an integer when it is numeric.
func (r Room) Number() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(r)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// RoomFromInt builds a Room from a room number.
func RoomFromInt(n int) Room {
	return Room(strconv.Itoa(n))
}
