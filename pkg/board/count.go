package board

// CountByKind counts the tiles of the given kind. Nil entries never match.
func CountByKind(tiles []Tile, kind Kind) int {
	count := 0
	for _, t := range tiles {
		if t != nil && t.Kind() == kind {
			count++
		}
	}
	return count
}

// FilterByKind returns the tiles of the given kind, keeping their order.
func FilterByKind(tiles []Tile, kind Kind) []Tile {
	var out []Tile
	for _, t := range tiles {
		if t != nil && t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}
