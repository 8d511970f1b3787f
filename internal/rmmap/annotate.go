package rmmap

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrEventNotFound is returned when a map has no event with the requested id.
var ErrEventNotFound = errors.New("event not found")

// SetSlotNote rewrites the note of event eventID so that it designates slot.
// A negative slot clears the note. Everything else in the document is kept
// byte for byte.
func SetSlotNote(data []byte, eventID, slot int) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}

	index := -1
	gjson.GetBytes(data, "events").ForEach(func(k, v gjson.Result) bool {
		if v.IsObject() && v.Get("id").Int() == int64(eventID) {
			index = int(k.Int())
			return false
		}
		return true
	})
	if index < 0 {
		return nil, fmt.Errorf("event %d: %w", eventID, ErrEventNotFound)
	}

	note := ""
	if slot >= 0 {
		note = strconv.Itoa(slot)
	}
	out, err := sjson.SetBytes(data, fmt.Sprintf("events.%d.note", index), note)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", eventID, err)
	}
	return out, nil
}
