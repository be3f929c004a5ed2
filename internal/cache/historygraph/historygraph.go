// Package historygraph assigns lanes and colors to a page of commits for
// rendering as a DAG, the way a graphical client's commit graph column
// does. The algorithm is a straight port of the lane-assignment pass used
// by gitgpui's history view: each still-open lane tracks the commit id it
// is waiting to reach; a commit reuses the lane(s) already targeting it,
// follows its first parent on the node's own lane, and opens new lanes for
// any additional parents not already covered.
package historygraph

import (
	"math"

	"github.com/gitcore/gitcore/internal/domain"
)

// LaneID identifies one vertical graph column across rows. Ids are
// allocated monotonically and never reused within a single Compute call.
type LaneID uint64

// LanePaint is a lane's identity and render color at one row.
type LanePaint struct {
	ID    LaneID
	Color string // "#rrggbb"
}

// Edge is a single diagonal or vertical connector drawn between two lane
// columns on a row.
type Edge struct {
	FromCol int
	ToCol   int
	Color   string
}

// Row is one commit's lane-assignment: which column it sits in, which
// lanes pass through before and after it, and the edges joining/forking
// around it.
type Row struct {
	IncomingIDs []LaneID
	LanesNow    []LanePaint
	LanesNext   []LanePaint
	JoinsIn     []Edge
	EdgesOut    []Edge
	NodeID      LaneID
	NodeCol     int
	IsMerge     bool
}

type laneState struct {
	id     LaneID
	color  string
	target domain.CommitId
}

// paletteSize mirrors the 24-color hue wheel the graphical view cycles
// through; beyond 24 concurrent lanes colors repeat.
const paletteSize = 24

// Palette returns paletteSize hues, stepped by 0.13 around the hue wheel,
// as "#rrggbb" strings.
// dark selects the lightness gitgpui uses for its dark theme (0.62 vs
// 0.45 for light), matching history_graph.rs's two-theme palette.
func Palette(dark bool) []string {
	light := 0.45
	if dark {
		light = 0.62
	}
	colors := make([]string, paletteSize)
	for i := 0; i < paletteSize; i++ {
		hue := math.Mod(float64(i)*0.13, 1.0)
		colors[i] = hslToHex(hue, 0.75, light)
	}
	return colors
}

// Compute assigns lanes to commits, which must already be in the order
// they'll be rendered (typically newest-first, as LogPage returns them).
// palette should come from Palette; callers cache it per theme.
func Compute(commits []domain.Commit, palette []string) []Row {
	if len(palette) == 0 {
		palette = Palette(true)
	}

	known := make(map[domain.CommitId]bool, len(commits))
	byID := make(map[domain.CommitId]*domain.Commit, len(commits))
	for i := range commits {
		known[commits[i].ID] = true
		byID[commits[i].ID] = &commits[i]
	}

	// The head chain approximates the "main line": the first-parent chain
	// from the first commit in the page (typically the checked-out HEAD).
	headChain := make(map[domain.CommitId]bool)
	if len(commits) > 0 {
		cur := commits[0].ID
		for {
			if headChain[cur] {
				break
			}
			headChain[cur] = true
			c, ok := byID[cur]
			if !ok || len(c.Parents) == 0 {
				break
			}
			next := c.Parents[0]
			if !known[next] {
				break
			}
			cur = next
		}
	}

	var nextID uint64 = 1
	nextColor := 0
	var lanes []laneState
	rows := make([]Row, 0, len(commits))
	var mainLaneID *LaneID

	allocLane := func(target domain.CommitId) laneState {
		id := LaneID(nextID)
		nextID++
		color := palette[nextColor%len(palette)]
		nextColor++
		return laneState{id: id, color: color, target: target}
	}

	for ci := range commits {
		commit := &commits[ci]

		incomingIDs := make([]LaneID, len(lanes))
		for i, l := range lanes {
			incomingIDs[i] = l.id
		}

		var hits []int
		for i, l := range lanes {
			if l.target == commit.ID {
				hits = append(hits, i)
			}
		}
		if len(hits) == 0 {
			lanes = append(lanes, allocLane(commit.ID))
			hits = append(hits, len(lanes)-1)
		}

		isMerge := len(commit.Parents) > 1
		var parentIDs []domain.CommitId
		for _, p := range commit.Parents {
			if known[p] {
				parentIDs = append(parentIDs, p)
			}
		}

		lanesNow := make([]LanePaint, len(lanes))
		for i, l := range lanes {
			lanesNow[i] = LanePaint{ID: l.id, Color: l.color}
		}

		nodeCol := hits[0]
		if mainLaneID != nil && headChain[commit.ID] {
			for _, ix := range hits {
				if lanes[ix].id == *mainLaneID {
					nodeCol = ix
					break
				}
			}
		}
		nodeID := lanes[nodeCol].id
		if mainLaneID == nil {
			id := nodeID
			mainLaneID = &id
		}

		var joinsIn []Edge
		for _, col := range hits[1:] {
			joinsIn = append(joinsIn, Edge{FromCol: col, ToCol: nodeCol, Color: lanes[col].color})
		}

		if len(parentIDs) > 0 {
			lanes[nodeCol].target = parentIDs[0]
		} else {
			lanes[nodeCol].target = commit.ID
		}

		covered := 1
		rest := hits[1:]
		for i := 0; i < len(rest) && i+1 < len(parentIDs); i++ {
			lanes[rest[i]].target = parentIDs[i+1]
			covered++
		}
		for _, ix := range rest[min(covered-1, len(rest)):] {
			lanes[ix].target = commit.ID
		}

		if len(parentIDs) > covered {
			insertAt := nodeCol + 1
			for _, parent := range parentIDs[covered:] {
				reused := false
				for _, l := range lanes {
					if l.target == parent {
						reused = true
						break
					}
				}
				if reused {
					continue
				}
				newLane := allocLane(parent)
				lanes = append(lanes, laneState{})
				copy(lanes[insertAt+1:], lanes[insertAt:])
				lanes[insertAt] = newLane
				insertAt++
			}
		}

		lanesNowIDs := make(map[LaneID]bool, len(lanesNow))
		for _, l := range lanesNow {
			lanesNowIDs[l.id] = true
		}

		filtered := lanes[:0]
		for _, l := range lanes {
			if known[l.target] && l.target != commit.ID {
				filtered = append(filtered, l)
			}
		}
		lanes = filtered

		lanesNext := make([]LanePaint, len(lanes))
		nextIndexByLane := make(map[LaneID]int, len(lanes))
		for i, l := range lanes {
			lanesNext[i] = LanePaint{ID: l.id, Color: l.color}
			nextIndexByLane[l.id] = i
		}

		var edgesOut []Edge
		if len(parentIDs) > 1 {
			for _, parent := range parentIDs[1:] {
				for _, l := range lanes {
					if l.target == parent && lanesNowIDs[l.id] {
						if toCol, ok := nextIndexByLane[l.id]; ok {
							edgesOut = append(edgesOut, Edge{FromCol: nodeCol, ToCol: toCol, Color: lanesNext[toCol].Color})
						}
						break
					}
				}
			}
		}

		rows = append(rows, Row{
			IncomingIDs: incomingIDs,
			LanesNow:    lanesNow,
			LanesNext:   lanesNext,
			JoinsIn:     joinsIn,
			EdgesOut:    edgesOut,
			NodeID:      nodeID,
			NodeCol:     nodeCol,
			IsMerge:     isMerge,
		})
	}

	return rows
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// hslToHex converts an HSL triple (h,s,l in [0,1]) to a "#rrggbb" string,
// standing in for gpui::hsla since this package has no rendering library.
func hslToHex(h, s, l float64) string {
	r, g, b := hslToRGB(h, s, l)
	const hex = "0123456789abcdef"
	buf := make([]byte, 7)
	buf[0] = '#'
	put := func(i int, v uint8) {
		buf[i] = hex[v>>4]
		buf[i+1] = hex[v&0xf]
	}
	put(1, r)
	put(3, g)
	put(5, b)
	return string(buf)
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r := hueToRGB(p, q, h+1.0/3.0)
	g := hueToRGB(p, q, h)
	b := hueToRGB(p, q, h-1.0/3.0)
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
