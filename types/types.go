// Package types contains shared data structures for katasuji.
package types

import "sort"

// BoardPoint is an intersection on the board, zero-indexed.
// X is the column. Y is the engine row number minus one, so row "1" is Y=0;
// the UI draws Y=height-1 at the top.
type BoardPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Less orders points by (Y, X).
func (p BoardPoint) Less(o BoardPoint) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// SortPoints sorts points in place by (Y, X).
func SortPoints(points []BoardPoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Less(points[j]) })
}

// Color is a player color.
type Color int

const (
	Black Color = iota
	White
)

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == Black {
		return White
	}
	return Black
}

// GTP returns the short color token used in play/genmove commands.
func (c Color) GTP() string {
	if c == Black {
		return "b"
	}
	return "w"
}

func (c Color) String() string {
	if c == Black {
		return "Black"
	}
	return "White"
}

// Move is a played move. Point is meaningless when Pass is set.
type Move struct {
	Point BoardPoint
	Color Color
	Pass  bool
}

// BoardDimensions is the board size reported by the engine.
type BoardDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns Width*Height.
func (d BoardDimensions) Area() int {
	return d.Width * d.Height
}

// StoneSet is the stone layout of one board dump. It is always rebuilt
// from a full dump, never patched.
type StoneSet struct {
	Black     []BoardPoint
	White     []BoardPoint
	MoveOrder map[rune]BoardPoint
}

// NewStoneSet returns an empty set with a non-nil move-order map.
func NewStoneSet() StoneSet {
	return StoneSet{MoveOrder: map[rune]BoardPoint{}}
}

// Clone returns a deep copy.
func (s StoneSet) Clone() StoneSet {
	c := StoneSet{
		Black:     append([]BoardPoint(nil), s.Black...),
		White:     append([]BoardPoint(nil), s.White...),
		MoveOrder: make(map[rune]BoardPoint, len(s.MoveOrder)),
	}
	for k, v := range s.MoveOrder {
		c.MoveOrder[k] = v
	}
	return c
}

// At returns the stone color at p, if any.
func (s StoneSet) At(p BoardPoint) (Color, bool) {
	for _, b := range s.Black {
		if b == p {
			return Black, true
		}
	}
	for _, w := range s.White {
		if w == p {
			return White, true
		}
	}
	return Black, false
}

// AnalysisInfo is the engine's evaluation of one candidate move.
// Winrate is from the perspective of the player to move in the analysis.
type AnalysisInfo struct {
	Visits     int     `json:"visits"`
	Winrate    float64 `json:"winrate"`
	ScoreLead  float64 `json:"scoreLead"`
	UtilityLcb float64 `json:"utilityLcb"`
}

// Ownership is the expected final owner of one intersection.
// Mean is in [-1, 1]; Stdev is nil when the engine did not report it.
type Ownership struct {
	Mean  float64
	Stdev *float64
}

// OwnershipGrid maps intersections to ownership estimates.
type OwnershipGrid map[BoardPoint]Ownership

// AnalysisSnapshot is one complete analysis frame. Snapshots are published
// as values and never modified afterwards.
type AnalysisSnapshot struct {
	Info        map[BoardPoint]AnalysisInfo
	Ownership   OwnershipGrid
	Perspective Color
}

// EmptySnapshot returns a snapshot with no candidates and no ownership.
func EmptySnapshot(perspective Color) AnalysisSnapshot {
	return AnalysisSnapshot{
		Info:        map[BoardPoint]AnalysisInfo{},
		Ownership:   OwnershipGrid{},
		Perspective: perspective,
	}
}

// IsEmpty reports whether the snapshot holds no candidates and no ownership.
func (a AnalysisSnapshot) IsEmpty() bool {
	return len(a.Info) == 0 && len(a.Ownership) == 0
}

// WeightedWinrate returns the visit-weighted win rate seen from Black:
// sum(winrate*visits) / max(1, sum(visits)), flipped when the analysis was
// run for White. With no candidates this is 0 for Black and 1 for White.
func (a AnalysisSnapshot) WeightedWinrate() float64 {
	var sum float64
	visits := 0
	for _, p := range a.SortedPoints() {
		info := a.Info[p]
		sum += info.Winrate * float64(info.Visits)
		visits += info.Visits
	}
	if visits < 1 {
		visits = 1
	}
	weighted := sum / float64(visits)
	if a.Perspective != Black {
		return 1 - weighted
	}
	return weighted
}

// MaxVisits returns the highest visit count among candidates.
func (a AnalysisSnapshot) MaxVisits() int {
	best := 0
	for _, info := range a.Info {
		if info.Visits > best {
			best = info.Visits
		}
	}
	return best
}

// MaxUtilityLcb returns the best utility lower bound, or false when empty.
func (a AnalysisSnapshot) MaxUtilityLcb() (float64, bool) {
	found := false
	var best float64
	for _, info := range a.Info {
		if !found || info.UtilityLcb > best {
			best = info.UtilityLcb
			found = true
		}
	}
	return best, found
}

// IsHidden reports whether the candidate at p has too few visits to label,
// relative to the most visited candidate.
func (a AnalysisSnapshot) IsHidden(p BoardPoint, ratio float64) bool {
	info, ok := a.Info[p]
	if !ok {
		return true
	}
	return float64(info.Visits) < ratio*float64(a.MaxVisits())
}

// SortedPoints returns the candidate points ordered by (Y, X).
func (a AnalysisSnapshot) SortedPoints() []BoardPoint {
	points := make([]BoardPoint, 0, len(a.Info))
	for p := range a.Info {
		points = append(points, p)
	}
	SortPoints(points)
	return points
}

// AnalysisState governs whether analysis commands are issued.
type AnalysisState int

const (
	Clear AnalysisState = iota
	Paused
	Running
)

func (s AnalysisState) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	default:
		return "clear"
	}
}
