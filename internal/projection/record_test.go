package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMarshalKeepsOrder(t *testing.T) {
	rec := NewRecord(
		Entry{Name: "name", Value: "Neil Gaiman"},
		Entry{Name: "id", Value: "a2"},
		Entry{Name: "age", Value: 57},
	)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Neil Gaiman","id":"a2","age":57}`, string(data))
}

func TestRecordMarshalEmpty(t *testing.T) {
	data, err := json.Marshal(NewRecord())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestRecordMarshalNested(t *testing.T) {
	born := time.Date(1960, 11, 10, 0, 0, 0, 0, time.UTC)
	rec := NewRecord(Entry{Name: "born", Value: born}, Entry{Name: "tags", Value: []string{"a"}})

	data, err := json.Marshal([]Record{rec})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"born":"1960-11-10T00:00:00Z","tags":["a"]}]`, string(data))
}

func TestRecordWith(t *testing.T) {
	base := NewRecord(Entry{Name: "id", Value: "a1"})

	added := base.With("links", []string{"self"})
	replaced := added.With("id", "a9")

	assert.Equal(t, []string{"id"}, base.Keys(), "With must not modify the receiver")
	assert.Equal(t, []string{"id", "links"}, added.Keys())
	assert.Equal(t, []string{"id", "links"}, replaced.Keys())

	id, _ := replaced.Get("id")
	assert.Equal(t, "a9", id)
	id, _ = added.Get("id")
	assert.Equal(t, "a1", id)
}

func TestRecordMarshalRecordValues(t *testing.T) {
	link := NewRecord(Entry{Name: "rel", Value: "self"}, Entry{Name: "href", Value: "/api/authors"})
	rec := NewRecord(Entry{Name: "id", Value: "a1"}, Entry{Name: "links", Value: []Record{link}})

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"a1","links":[{"rel":"self","href":"/api/authors"}]}`, string(data))
}

func TestRecordMarshalUnsupportedValue(t *testing.T) {
	rec := NewRecord(Entry{Name: "ch", Value: make(chan int)})

	_, err := json.Marshal(rec)
	assert.Error(t, err)
}
