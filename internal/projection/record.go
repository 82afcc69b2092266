package projection

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry is one named value of a shaped record.
type Entry struct {
	Name  string
	Value any
}

// Record is a shaped representation: an ordered list of named values. It
// serializes to a JSON object whose keys keep that order.
type Record struct {
	entries []Entry
}

// NewRecord builds a record from entries, in order.
func NewRecord(entries ...Entry) Record {
	return Record{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries.
func (r Record) Len() int {
	return len(r.entries)
}

// Keys returns the entry names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.Name
	}
	return keys
}

// Entries returns a copy of the entries.
func (r Record) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Get returns the value stored under name.
func (r Record) Get(name string) (any, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// With returns a copy of the record with name set to value. An existing entry
// is replaced in place; a new one is appended at the end.
func (r Record) With(name string, value any) Record {
	entries := make([]Entry, len(r.entries), len(r.entries)+1)
	copy(entries, r.entries)
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Value = value
			return Record{entries: entries}
		}
	}
	return Record{entries: append(entries, Entry{Name: name, Value: value})}
}

// MarshalJSON writes the entries as a JSON object in record order.
func (r Record) MarshalJSON() ([]byte, error) {
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, e := range r.entries {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(e.Name)
		stream.WriteVal(e.Value)
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}
