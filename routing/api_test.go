package routing

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRoutePartialResult(t *testing.T) {
	g := triangleGraph()

	res, err := ComputeRoute(g, []string{"A", "B", "C", "D"}, []bool{false, true, false}, IntensityHigh, 70)
	require.NoError(t, err)
	require.Len(t, res.Segments, 3)

	ab, bc, cd := res.Segments[0], res.Segments[1], res.Segments[2]
	assert.Equal(t, SegmentOK, ab.Status)
	assert.Equal(t, 10, ab.Steps)
	assert.InDelta(t, 0.7, ab.Calories, 1e-9)

	assert.Equal(t, SegmentOK, bc.Status)
	assert.Equal(t, 15, bc.Steps)
	assert.True(t, bc.Stairs)
	assert.InDelta(t, 1.57, bc.Calories, 1e-9) // 15*0.09*70/60, just under 1.575

	assert.True(t, cd.Failed())
	assert.Equal(t, SegmentNoPath, cd.Status)
	assert.Equal(t, 0, cd.Steps)
	assert.Equal(t, 0.0, cd.Calories)
	assert.Contains(t, cd.Error, "no path exists between C and D")

	assert.Equal(t, 25, res.TotalSteps)
	assert.InDelta(t, 2.27, res.TotalCalories, 1e-9)
	assert.Equal(t, 1, res.FailedSegments)
	assert.Equal(t, []string{"A", "B", "C", "D"}, res.Stops)
	assert.True(t, strings.HasPrefix(res.RequestID, "route_"))
}

func TestComputeRouteTotalsAreAdditive(t *testing.T) {
	g := buildingGraph()
	rooms := []string{"101", "104", "202", "102", "103"}
	stairs := []bool{false, true, true, false}

	res, err := ComputeRoute(g, rooms, stairs, IntensityModerate, 82.5)
	require.NoError(t, err)
	require.Zero(t, res.FailedSegments)

	steps, energy := 0, 0.0
	for _, seg := range res.Segments {
		steps += seg.Steps
		energy += seg.Energy()
		assert.InDelta(t, seg.Energy(), seg.Calories, 0.005)
	}
	assert.Equal(t, steps, res.TotalSteps)
	assert.InDelta(t, energy, res.TotalCalories, 0.005)
}

func TestComputeRouteSegmentsMatchEnergyModel(t *testing.T) {
	g := buildingGraph()
	res, err := ComputeRoute(g, []string{"101", "103"}, []bool{true}, IntensityLow, 60)
	require.NoError(t, err)

	seg := res.Segments[0]
	assert.Equal(t, 75, seg.Steps)
	assert.InDelta(t, SegmentEnergy(75, IntensityLow, true, 60), seg.Energy(), 1e-12)
	assert.Equal(t, 3.38, seg.Calories) // 75*0.045*60/60 = 3.375
}

func TestComputeRouteRepeatedRoom(t *testing.T) {
	res, err := ComputeRoute(triangleGraph(), []string{"A", "A", "B"}, []bool{false, false}, IntensityLow, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Segments[0].Steps)
	assert.Equal(t, SegmentOK, res.Segments[0].Status)
	assert.Equal(t, 10, res.TotalSteps)
}

func TestComputeRouteRejectsBadRequests(t *testing.T) {
	g := triangleGraph()
	tests := []struct {
		name      string
		graph     *Graph
		rooms     []string
		stairs    []bool
		intensity Intensity
		weight    float64
		reason    string
	}{
		{"nil graph", nil, []string{"A", "B"}, []bool{false}, IntensityLow, 70, "graph not loaded"},
		{"single room", g, []string{"A"}, nil, IntensityLow, 70, "at least 2 rooms"},
		{"single room with empty stairs", g, []string{"A"}, []bool{}, IntensityLow, 70, "at least 2 rooms"},
		{"no rooms", g, nil, nil, IntensityLow, 70, "at least 2 rooms"},
		{"too few stairs flags", g, []string{"A", "B", "C"}, []bool{false}, IntensityLow, 70, "need 2 stairs flags"},
		{"too many stairs flags", g, []string{"A", "B"}, []bool{false, true}, IntensityLow, 70, "need 1 stairs flags"},
		{"unknown intensity", g, []string{"A", "B"}, []bool{false}, "sprint", 70, "unknown intensity"},
		{"zero weight", g, []string{"A", "B"}, []bool{false}, IntensityLow, 0, "body weight"},
		{"negative weight", g, []string{"A", "B"}, []bool{false}, IntensityLow, -5, "body weight"},
		{"unknown room", g, []string{"A", "Z"}, []bool{false}, IntensityLow, 70, `unknown room "Z"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ComputeRoute(tt.graph, tt.rooms, tt.stairs, tt.intensity, tt.weight)
			assert.Nil(t, res)

			var invalid *InvalidRouteError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Contains(t, invalid.Reason, tt.reason)
		})
	}
}

func TestPlanRouteParsesIntensity(t *testing.T) {
	g := triangleGraph()
	res, err := PlanRoute(g, RouteRequest{
		Rooms:     []string{"A", "C"},
		Stairs:    []bool{false},
		Intensity: "HIGH",
		WeightKg:  70,
	})
	require.NoError(t, err)
	assert.Equal(t, IntensityHigh, res.Intensity)
	assert.Equal(t, 25, res.TotalSteps)
	assert.InDelta(t, 1.75, res.TotalCalories, 1e-9)

	_, err = PlanRoute(g, RouteRequest{Rooms: []string{"A", "C"}, Stairs: []bool{false}, Intensity: "jog", WeightKg: 70})
	var invalid *InvalidRouteError
	assert.ErrorAs(t, err, &invalid)
}
