package gtp

import (
	"strings"

	"katasuji/types"
)

// Aggregate folds one analysis line into a snapshot.
//
// The line is split on "info" and each piece is extracted on its own. When a
// point is reported more than once, the first report is kept. Ownership is
// read from the last piece only, and only when both the mean and stdev arrays
// match the board area; otherwise the snapshot has an empty grid.
func Aggregate(line string, dims types.BoardDimensions, perspective types.Color) types.AnalysisSnapshot {
	snap := types.EmptySnapshot(perspective)

	pieces := strings.Split(line, analysisToken)
	for _, piece := range pieces {
		p, info, ok := ExtractInfo(piece)
		if !ok {
			continue
		}
		if _, seen := snap.Info[p]; seen {
			continue
		}
		snap.Info[p] = info
	}

	snap.Ownership = ownershipGrid(pieces[len(pieces)-1], dims)
	return snap
}

// ownershipGrid maps the engine's ownership arrays onto board points. The
// arrays run row by row from the top of the board.
func ownershipGrid(record string, dims types.BoardDimensions) types.OwnershipGrid {
	grid := types.OwnershipGrid{}

	mean, meanOK, stdev, stdevOK := ExtractOwnership(record, dims)
	if !meanOK || !stdevOK {
		return grid
	}

	i := 0
	for y := dims.Height - 1; y >= 0; y-- {
		for x := 0; x < dims.Width; x++ {
			sd := stdev[i]
			grid[types.BoardPoint{X: x, Y: y}] = types.Ownership{Mean: mean[i], Stdev: &sd}
			i++
		}
	}
	return grid
}
