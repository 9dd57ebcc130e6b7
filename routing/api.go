package routing

import (
	"math"

	"campus-steps-server/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SegmentStatus string

const (
	SegmentOK     SegmentStatus = "ok"
	SegmentNoPath SegmentStatus = "no_path"
)

type RouteRequest struct {
	Rooms     []string `json:"rooms"`
	Stairs    []bool   `json:"stairs"`
	Intensity string   `json:"intensity"`
	WeightKg  float64  `json:"weightKg"`
}

// RouteSegment is one leg of a route between consecutive rooms.
type RouteSegment struct {
	From     string        `json:"from"`
	To       string        `json:"to"`
	Steps    int           `json:"steps"`
	Stairs   bool          `json:"stairs"`
	Calories float64       `json:"calories"` // rounded to 2 places for display
	Status   SegmentStatus `json:"status"`
	Error    string        `json:"error,omitempty"`

	energy float64
}

func (s RouteSegment) Failed() bool { return s.Status != SegmentOK }

// Energy returns the unrounded calorie estimate for the segment.
func (s RouteSegment) Energy() float64 { return s.energy }

// Response used by the HTTP API and the CLI renderer
type RouteResult struct {
	RequestID      string         `json:"requestId"`
	Stops          []string       `json:"stops"`
	Segments       []RouteSegment `json:"segments"`
	TotalSteps     int            `json:"totalSteps"`
	TotalCalories  float64        `json:"totalCalories"`
	FailedSegments int            `json:"failedSegments"`
	Intensity      Intensity      `json:"intensity"`
	WeightKg       float64        `json:"weightKg"`
}

// PlanRoute validates a raw request and runs ComputeRoute on it.
func PlanRoute(graph *Graph, req RouteRequest) (*RouteResult, error) {
	intensity, err := ParseIntensity(req.Intensity)
	if err != nil {
		return nil, &InvalidRouteError{Reason: err.Error()}
	}
	return ComputeRoute(graph, req.Rooms, req.Stairs, intensity, req.WeightKg)
}

// ComputeRoute walks the rooms in order and sums steps and calories.
// Contract violations are rejected before any search runs. A pair of rooms
// with no connecting path becomes a failed segment and the rest of the
// route is still computed.
func ComputeRoute(graph *Graph, rooms []string, stairs []bool, intensity Intensity, weightKg float64) (*RouteResult, error) {
	if err := validateRoute(graph, rooms, stairs, intensity, weightKg); err != nil {
		return nil, err
	}

	logger := observability.GetLogger()
	resp := &RouteResult{
		RequestID: "route_" + uuid.NewString(),
		Stops:     append([]string(nil), rooms...),
		Segments:  make([]RouteSegment, 0, len(rooms)-1),
		Intensity: intensity,
		WeightKg:  weightKg,
	}

	totalCalories := 0.0
	for i := 0; i < len(rooms)-1; i++ {
		segment := RouteSegment{From: rooms[i], To: rooms[i+1], Stairs: stairs[i]}

		steps, err := ShortestDistance(graph, segment.From, segment.To)
		if err != nil {
			logger.Warn("No path between rooms",
				zap.String("from", segment.From),
				zap.String("to", segment.To),
				zap.Int("segment", i))
			segment.Status = SegmentNoPath
			segment.Error = err.Error()
			resp.FailedSegments++
			resp.Segments = append(resp.Segments, segment)
			continue
		}

		segment.Status = SegmentOK
		segment.Steps = steps
		segment.energy = SegmentEnergy(steps, intensity, segment.Stairs, weightKg)
		segment.Calories = roundTo(segment.energy, 2)

		resp.TotalSteps += steps
		totalCalories += segment.energy
		resp.Segments = append(resp.Segments, segment)
	}
	resp.TotalCalories = roundTo(totalCalories, 2)

	logger.Debug("Route computed",
		zap.String("request_id", resp.RequestID),
		zap.Int("segments", len(resp.Segments)),
		zap.Int("failed", resp.FailedSegments),
		zap.Int("total_steps", resp.TotalSteps),
		zap.Float64("total_calories", resp.TotalCalories))

	return resp, nil
}

func validateRoute(graph *Graph, rooms []string, stairs []bool, intensity Intensity, weightKg float64) error {
	if graph == nil {
		return invalidRoute("graph not loaded")
	}
	// A route needs at least one leg; a lone room with no stairs flags is
	// rejected even though the flag count matches.
	if len(rooms) < 2 {
		return invalidRoute("need at least 2 rooms, got %d", len(rooms))
	}
	if len(stairs) != len(rooms)-1 {
		return invalidRoute("need %d stairs flags for %d rooms, got %d", len(rooms)-1, len(rooms), len(stairs))
	}
	if !intensity.Valid() {
		return invalidRoute("unknown intensity %q", intensity)
	}
	if !(weightKg > 0) || math.IsInf(weightKg, 0) {
		return invalidRoute("body weight must be positive, got %g", weightKg)
	}
	for _, room := range rooms {
		if !graph.HasNode(room) {
			return invalidRoute("unknown room %q", room)
		}
	}
	return nil
}
