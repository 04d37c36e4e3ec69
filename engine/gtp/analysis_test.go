package gtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katasuji/types"
)

var twoByTwo = types.BoardDimensions{Width: 2, Height: 2}

func TestAggregateBatch(t *testing.T) {
	line := "info move C1 visits 100 winrate 0.6 scoreLead 1.0 utilityLcb -0.1 " +
		"info move D1 visits 50 winrate 0.4 scoreLead -0.5 utilityLcb -0.2 " +
		"ownership 0.1 0.2 0.3 0.4 ownershipStdev 0.5 0.5 0.5 0.5"

	snap := Aggregate(line, twoByTwo, types.Black)

	require.Len(t, snap.Info, 2)
	assert.Equal(t, 100, snap.Info[types.BoardPoint{X: 2, Y: 0}].Visits)
	assert.Equal(t, 50, snap.Info[types.BoardPoint{X: 3, Y: 0}].Visits)

	require.Len(t, snap.Ownership, 4)
	// arrays run row by row from the top
	assert.Equal(t, 0.1, snap.Ownership[types.BoardPoint{X: 0, Y: 1}].Mean)
	assert.Equal(t, 0.2, snap.Ownership[types.BoardPoint{X: 1, Y: 1}].Mean)
	assert.Equal(t, 0.3, snap.Ownership[types.BoardPoint{X: 0, Y: 0}].Mean)
	assert.Equal(t, 0.4, snap.Ownership[types.BoardPoint{X: 1, Y: 0}].Mean)
	require.NotNil(t, snap.Ownership[types.BoardPoint{X: 0, Y: 0}].Stdev)
	assert.Equal(t, 0.5, *snap.Ownership[types.BoardPoint{X: 0, Y: 0}].Stdev)
}

func TestAggregateWithSuccessMarker(t *testing.T) {
	snap := Aggregate("= info move A1 visits 1 winrate 0.5 scoreLead 0 utilityLcb 0", twoByTwo, types.White)
	assert.Len(t, snap.Info, 1)
	assert.Equal(t, types.White, snap.Perspective)
}

func TestAggregateOwnershipMismatch(t *testing.T) {
	line := "info move A1 visits 10 winrate 0.5 scoreLead 0 utilityLcb 0 " +
		"ownership 0.1 0.2 0.3 ownershipStdev 0.5 0.5 0.5"
	snap := Aggregate(line, twoByTwo, types.Black)
	assert.Len(t, snap.Info, 1)
	assert.Empty(t, snap.Ownership)
	assert.NotNil(t, snap.Ownership)
}

func TestAggregateOwnershipNeedsStdev(t *testing.T) {
	line := "info move A1 visits 10 winrate 0.5 scoreLead 0 utilityLcb 0 ownership 0.1 0.2 0.3 0.4"
	snap := Aggregate(line, twoByTwo, types.Black)
	assert.Empty(t, snap.Ownership)
}

func TestAggregateDuplicateKeepsFirst(t *testing.T) {
	line := "info move C1 visits 100 winrate 0.6 scoreLead 1.0 utilityLcb -0.1 " +
		"info move C1 visits 900 winrate 0.9 scoreLead 5.0 utilityLcb 0.3"
	snap := Aggregate(line, types.BoardDimensions{Width: 3, Height: 3}, types.Black)
	require.Len(t, snap.Info, 1)
	assert.Equal(t, types.AnalysisInfo{Visits: 100, Winrate: 0.6, ScoreLead: 1.0, UtilityLcb: -0.1},
		snap.Info[types.BoardPoint{X: 2, Y: 0}])
}

func TestAggregateDropsIncompleteAndPass(t *testing.T) {
	line := "info move pass visits 100 winrate 0.6 scoreLead 1.0 utilityLcb -0.1 " +
		"info move B2 visits 10 winrate 0.6 scoreLead 1.0 " +
		"info move A2 visits 5 winrate 0.5 scoreLead 0.1 utilityLcb -0.3"
	snap := Aggregate(line, twoByTwo, types.Black)
	require.Len(t, snap.Info, 1)
	_, ok := snap.Info[types.BoardPoint{X: 0, Y: 1}]
	assert.True(t, ok)
}

func TestAggregateIgnoresRootInfoAndPV(t *testing.T) {
	line := "info move B1 visits 30 edgeVisits 30 utility 0.1 winrate 0.55 scoreMean 1 scoreLead 1.5 utilityLcb 0.05 order 0 pv B1 A2 " +
		"rootInfo visits 31 utility 0.1 winrate 0.54 scoreLead 1.4 " +
		"ownership 0 0 0 0 ownershipStdev 0 0 0 0"
	snap := Aggregate(line, twoByTwo, types.Black)
	require.Len(t, snap.Info, 1)
	assert.Equal(t, types.AnalysisInfo{Visits: 30, Winrate: 0.55, ScoreLead: 1.5, UtilityLcb: 0.05},
		snap.Info[types.BoardPoint{X: 1, Y: 0}])
	assert.Len(t, snap.Ownership, 4)
}

func TestWeightedWinrate(t *testing.T) {
	line := "info move C1 visits 100 winrate 0.6 scoreLead 1.0 utilityLcb -0.1 " +
		"info move D1 visits 50 winrate 0.3 scoreLead -0.5 utilityLcb -0.2"
	dims := types.BoardDimensions{Width: 4, Height: 4}

	black := Aggregate(line, dims, types.Black)
	assert.InDelta(t, 0.5, black.WeightedWinrate(), 1e-9)

	white := Aggregate(line, dims, types.White)
	assert.InDelta(t, 0.5, white.WeightedWinrate(), 1e-9)

	skewed := Aggregate("info move C1 visits 30 winrate 0.8 scoreLead 1 utilityLcb 0", dims, types.White)
	assert.InDelta(t, 0.2, skewed.WeightedWinrate(), 1e-9)
}

func TestWeightedWinrateEmpty(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, types.EmptySnapshot(types.Black).WeightedWinrate())
		assert.Equal(t, 1.0, types.EmptySnapshot(types.White).WeightedWinrate())
		assert.Equal(t, 0.0, Aggregate("info", twoByTwo, types.Black).WeightedWinrate())
	}
}
