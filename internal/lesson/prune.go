package lesson

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SelectSingleItem returns a copy of the variation whose data.items holds one
// randomly chosen entry. Variations without a non-empty items array are
// returned unchanged.
func SelectSingleItem(variation json.RawMessage, r Rand) json.RawMessage {
	items := gjson.GetBytes(variation, "data.items")
	if !items.IsArray() {
		return variation
	}
	all := items.Array()
	if len(all) == 0 {
		return variation
	}
	if r == nil {
		r = GlobalRand()
	}
	pick := all[r.IntN(len(all))]
	return setRaw(variation, "data.items", "["+pick.Raw+"]")
}

// SelectTilePairs returns a copy of the variation keeping a random subset of
// the well-formed tile pairs in data.tiles: max(1, min(maxTiles/2, pairs))
// pairs. A pair is exactly two tiles sharing an id with different types;
// other groups are dropped. With no valid pair the variation is unchanged.
func SelectTilePairs(variation json.RawMessage, maxTiles int, r Rand) json.RawMessage {
	pairs, _, ok := tilePairs(variation)
	if !ok || len(pairs) == 0 {
		return variation
	}

	take := max(1, min(maxTiles/2, len(pairs)))
	chosen := Shuffle(r, pairs)[:take]
	raw := lo.Map(lo.Flatten(chosen), func(t gjson.Result, _ int) string { return t.Raw })
	return setRaw(variation, "data.tiles", "["+strings.Join(raw, ",")+"]")
}

// CountTilePairs reports how many well-formed and malformed tile groups the
// variation's data.tiles holds. Tiles without an id count as malformed.
func CountTilePairs(variation json.RawMessage) (valid, malformed int) {
	pairs, dropped, _ := tilePairs(variation)
	return len(pairs), dropped
}

// tilePairs groups data.tiles by id in order of first appearance and returns
// the groups that form a pair, plus the number of groups dropped.
func tilePairs(variation json.RawMessage) ([][]gjson.Result, int, bool) {
	tiles := gjson.GetBytes(variation, "data.tiles")
	if !tiles.IsArray() {
		return nil, 0, false
	}
	raw := tiles.Array()
	all := lo.Filter(raw, func(t gjson.Result, _ int) bool {
		return t.IsObject() && t.Get("id").Exists()
	})
	orphans := len(raw) - len(all)
	groups := lo.GroupBy(all, tileID)
	ids := lo.Uniq(lo.Map(all, func(t gjson.Result, _ int) string { return tileID(t) }))
	pairs := lo.FilterMap(ids, func(id string, _ int) ([]gjson.Result, bool) {
		group := groups[id]
		return group, isTilePair(group)
	})
	return pairs, len(ids) - len(pairs) + orphans, true
}

// tileID is the tile's id as a string, so 1 and "1" name the same pair.
func tileID(t gjson.Result) string {
	return t.Get("id").String()
}

func isTilePair(group []gjson.Result) bool {
	if len(group) != 2 {
		return false
	}
	return group[0].Get("type").String() != group[1].Get("type").String()
}

func setRaw(variation json.RawMessage, path, value string) json.RawMessage {
	out, err := sjson.SetRawBytes(bytes.Clone(variation), path, []byte(value))
	if err != nil {
		return variation
	}
	return out
}
