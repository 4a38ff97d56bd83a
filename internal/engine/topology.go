package engine

import "fmt"

// SeatIDFor formats the canonical seat identifier for 1-indexed grid
// coordinates, e.g. SeatIDFor(2, 3) == "R2C3".
func SeatIDFor(row, col int) string {
	return fmt.Sprintf("R%dC%d", row, col)
}

// ParseSeatID splits an "R{row}C{col}" identifier into its coordinates.
// ok is false for anything that does not match the format exactly or for
// non-positive coordinates; callers treat that as "no such seat" rather
// than an error.
func ParseSeatID(id string) (row, col int, ok bool) {
	if len(id) < 4 || id[0] != 'R' {
		return 0, 0, false
	}
	i := 1
	row, i, ok = parseDigits(id, i)
	if !ok || i >= len(id) || id[i] != 'C' {
		return 0, 0, false
	}
	col, i, ok = parseDigits(id, i+1)
	if !ok || i != len(id) {
		return 0, 0, false
	}
	if row < 1 || col < 1 {
		return 0, 0, false
	}
	return row, col, true
}

// parseDigits consumes a run of ASCII digits starting at i and returns the
// value and the index past the run.
func parseDigits(s string, i int) (int, int, bool) {
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, i, false
	}
	return n, i, true
}

// neighborOffsets are the four orthogonal directions.  No diagonal
// adjacency, no wraparound.
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// AdjacentSeats returns the identifiers of the orthogonal neighbors of
// seatID that exist in this snapshot's grid.  Usability does not matter
// for adjacency.  An unparseable seatID yields an empty set; the function
// never fails.
func (s *Snapshot) AdjacentSeats(seatID string) map[string]struct{} {
	out := make(map[string]struct{}, 4)
	row, col, ok := ParseSeatID(seatID)
	if !ok {
		return out
	}
	exists := make(map[string]struct{}, len(s.Seats))
	for i := range s.Seats {
		exists[s.Seats[i].ID] = struct{}{}
	}
	for _, d := range neighborOffsets {
		id := SeatIDFor(row+d[0], col+d[1])
		if id == seatID {
			continue
		}
		if _, found := exists[id]; found {
			out[id] = struct{}{}
		}
	}
	return out
}
