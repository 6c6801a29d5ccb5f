package lesson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSelectSingleItem_KeepsOneOriginalItem(t *testing.T) {
	variation := json.RawMessage(`{"meta":{"level":"A1"},"data":{"items":[{"id":"a"},{"id":"b"},{"id":"c"},{"id":"d"}],"hint":"x"}}`)
	before := json.RawMessage(bytes.Clone(variation))
	seen := map[string]bool{}

	for seed := uint64(0); seed < 40; seed++ {
		out := SelectSingleItem(variation, NewSeededRand(seed))
		items := gjson.GetBytes(out, "data.items").Array()
		require.Len(t, items, 1)
		id := items[0].Get("id").String()
		assert.Contains(t, []string{"a", "b", "c", "d"}, id)
		seen[id] = true

		assert.Equal(t, "A1", gjson.GetBytes(out, "meta.level").String())
		assert.Equal(t, "x", gjson.GetBytes(out, "data.hint").String())
	}
	assert.Equal(t, before, variation, "input must not be mutated")
	assert.Greater(t, len(seen), 1, "selection should vary with the seed")
}

func TestSelectSingleItem_MalformedPassesThrough(t *testing.T) {
	tests := []struct {
		name      string
		variation json.RawMessage
	}{
		{name: "no data", variation: json.RawMessage(`{"other":1}`)},
		{name: "no items", variation: json.RawMessage(`{"data":{"turns":[]}}`)},
		{name: "empty items", variation: json.RawMessage(`{"data":{"items":[]}}`)},
		{name: "items not array", variation: json.RawMessage(`{"data":{"items":{"id":"a"}}}`)},
		{name: "not an object", variation: json.RawMessage(`"oops"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.variation, SelectSingleItem(tt.variation, NewSeededRand(1)))
		})
	}
}

func TestSelectTilePairs_Count(t *testing.T) {
	tests := []struct {
		name     string
		pairs    int
		maxTiles int
		want     int
	}{
		{name: "capped by max tiles", pairs: 9, maxTiles: 6, want: 6},
		{name: "fewer pairs than cap", pairs: 2, maxTiles: 6, want: 4},
		{name: "odd max tiles rounds down", pairs: 5, maxTiles: 7, want: 6},
		{name: "tiny cap keeps one pair", pairs: 3, maxTiles: 1, want: 2},
		{name: "zero cap keeps one pair", pairs: 3, maxTiles: 0, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(0); seed < 10; seed++ {
				out := SelectTilePairs(tileVariation(tt.pairs), tt.maxTiles, NewSeededRand(seed))
				tiles := gjson.GetBytes(out, "data.tiles").Array()
				require.Len(t, tiles, tt.want)
				assertWellFormedPairs(t, tiles)
			}
		})
	}
}

func TestSelectTilePairs_DropsMalformedGroups(t *testing.T) {
	variation := json.RawMessage(`{"data":{"tiles":[
		{"id":1,"type":"label"},{"id":1,"type":"answer"},{"id":1,"type":"answer"},
		{"id":2,"type":"label"},{"id":2,"type":"answer"},
		{"id":3,"type":"label"},
		{"id":4,"type":"label"},{"id":4,"type":"label"},
		{"type":"answer"}
	]}}`)

	out := SelectTilePairs(variation, 6, NewSeededRand(3))
	tiles := gjson.GetBytes(out, "data.tiles").Array()
	require.Len(t, tiles, 2)
	for _, tile := range tiles {
		assert.Equal(t, int64(2), tile.Get("id").Int())
	}
}

func TestSelectTilePairs_NoValidPairPassesThrough(t *testing.T) {
	tests := []json.RawMessage{
		json.RawMessage(`{"data":{"tiles":[{"id":1,"type":"label"}]}}`),
		json.RawMessage(`{"data":{"tiles":[]}}`),
		json.RawMessage(`{"data":{"items":[{"id":1}]}}`),
	}
	for _, variation := range tests {
		assert.Equal(t, variation, SelectTilePairs(variation, 6, NewSeededRand(1)))
	}
}

func assertWellFormedPairs(t *testing.T, tiles []gjson.Result) {
	t.Helper()
	types := map[int64][]string{}
	for _, tile := range tiles {
		id := tile.Get("id").Int()
		types[id] = append(types[id], tile.Get("type").String())
	}
	for id, ts := range types {
		require.Len(t, ts, 2, "id %d", id)
		assert.NotEqual(t, ts[0], ts[1], "id %d", id)
	}
}

func TestSelectTilePairs_NumericAndStringIDsPair(t *testing.T) {
	variation := json.RawMessage(`{"data":{"tiles":[{"id":1,"name":"Subax","type":"label"},{"id":"1","name":"Morning","type":"answer"}]}}`)

	valid, malformed := CountTilePairs(variation)
	assert.Equal(t, 1, valid)
	assert.Zero(t, malformed)

	out := SelectTilePairs(variation, 6, NewSeededRand(1))
	tiles := gjson.GetBytes(out, "data.tiles").Array()
	require.Len(t, tiles, 2)
	assert.Equal(t, "Subax", tiles[0].Get("name").String())
	assert.Equal(t, "Morning", tiles[1].Get("name").String())
}

func TestCountTilePairs(t *testing.T) {
	valid, malformed := CountTilePairs(tileVariation(4))
	assert.Equal(t, 4, valid)
	assert.Zero(t, malformed)

	valid, malformed = CountTilePairs(json.RawMessage(`{"data":{"tiles":[
		{"id":1,"type":"label"},{"id":1,"type":"answer"},
		{"id":2,"type":"label"},
		{"name":"no id"}
	]}}`))
	assert.Equal(t, 1, valid)
	assert.Equal(t, 2, malformed)

	valid, malformed = CountTilePairs(json.RawMessage(`{"data":{}}`))
	assert.Zero(t, valid)
	assert.Zero(t, malformed)
}
