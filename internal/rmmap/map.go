// Package rmmap reads the parts of tile map data files that formations use:
// placed map events with their tile coordinates and note fields.
//
// A map file is a JSON document with an "events" array. Index 0 and deleted
// events are null:
//
//	{"width":17,"height":13,"events":[null,{"id":1,"name":"EV001","note":"0","x":4,"y":6}]}
package rmmap

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// TileWidth is the pixel width of one map tile.
	TileWidth = 48
	// TileHeight is the pixel height of one map tile.
	TileHeight = 48
)

// Event is one placed object on a map.
type Event struct {
	ID   int
	Name string
	Note string
	X    int
	Y    int
}

// WorldX returns the event's pixel X coordinate.
func (e Event) WorldX() float64 {
	return float64(e.X * TileWidth)
}

// WorldY returns the event's pixel Y coordinate.
func (e Event) WorldY() float64 {
	return float64(e.Y * TileHeight)
}

// Map is the decoded subset of a map data file.
type Map struct {
	ID     int
	Width  int
	Height int
	Events []Event
}

var slotNote = regexp.MustCompile(`^\d+$`)

// Parse decodes a map data file.
func Parse(mapID int, data []byte) (*Map, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("map %d: invalid JSON", mapID)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("map %d: document is not an object", mapID)
	}

	m := &Map{
		ID:     mapID,
		Width:  int(doc.Get("width").Int()),
		Height: int(doc.Get("height").Int()),
	}

	events := doc.Get("events")
	if events.Exists() && !events.IsArray() {
		return nil, fmt.Errorf("map %d: events is not an array", mapID)
	}
	for _, ev := range events.Array() {
		if ev.Type == gjson.Null || !ev.IsObject() {
			continue
		}
		m.Events = append(m.Events, Event{
			ID:   int(ev.Get("id").Int()),
			Name: ev.Get("name").String(),
			Note: ev.Get("note").String(),
			X:    int(ev.Get("x").Int()),
			Y:    int(ev.Get("y").Int()),
		})
	}
	return m, nil
}

// SlotIndex reports the slot number an event's note designates. Only a bare
// non-negative integer (surrounding whitespace allowed) counts.
func (e Event) SlotIndex() (int, bool) {
	note := strings.TrimSpace(e.Note)
	if !slotNote.MatchString(note) {
		return 0, false
	}
	k, err := strconv.Atoi(note)
	if err != nil {
		return 0, false
	}
	return k, true
}

// SlotEvents returns annotated events keyed by slot number. When two events
// claim the same slot the one with the lower event id wins.
func (m *Map) SlotEvents() map[int]Event {
	events := make([]Event, len(m.Events))
	copy(events, m.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].ID < events[j].ID })

	out := make(map[int]Event)
	for _, ev := range events {
		k, ok := ev.SlotIndex()
		if !ok {
			continue
		}
		if _, taken := out[k]; taken {
			continue
		}
		out[k] = ev
	}
	return out
}
