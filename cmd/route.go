package cmd

import (
	"fmt"
	"io"
	"strings"

	"campus-steps-server/config"
	"campus-steps-server/preprocessing"
	"campus-steps-server/routing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type routeOptions struct {
	rooms     []string
	stairs    []bool
	intensity string
	weightKg  float64
	verbose   bool
}

func newRouteCmd() *cobra.Command {
	opts := &routeOptions{}
	cmd := &cobra.Command{
		Use:     "route",
		Short:   "Calculate steps and calories for a list of classrooms",
		Example: "  campus-steps route --rooms 101,102,205,101 --stairs false,true,true --intensity high --weight 70",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Unticked stairs boxes are the form default.
			if !cmd.Flags().Changed("stairs") && len(opts.rooms) > 1 {
				opts.stairs = make([]bool, len(opts.rooms)-1)
			}
			graph, err := preprocessing.Load(config.Get().Dataset.Path)
			if err != nil {
				return err
			}
			return runRoute(cmd.OutOrStdout(), graph, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.rooms, "rooms", "r", nil, "classrooms to visit, in order")
	cmd.Flags().BoolSliceVarP(&opts.stairs, "stairs", "s", nil, "stairs flag for each leg (one fewer than rooms)")
	cmd.Flags().StringVarP(&opts.intensity, "intensity", "i", string(routing.IntensityModerate), "movement intensity: low, moderate or high")
	cmd.Flags().Float64VarP(&opts.weightKg, "weight", "w", 70.0, "body weight in kilograms")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print the rooms passed on each leg")
	_ = cmd.MarkFlagRequired("rooms")
	return cmd
}

func runRoute(w io.Writer, graph *routing.Graph, opts *routeOptions) error {
	res, err := routing.PlanRoute(graph, routing.RouteRequest{
		Rooms:     opts.rooms,
		Stairs:    opts.stairs,
		Intensity: opts.intensity,
		WeightKg:  opts.weightKg,
	})
	if err != nil {
		return err
	}

	var paths map[int][]string
	if opts.verbose {
		paths = make(map[int][]string)
		for i, seg := range res.Segments {
			if seg.Failed() {
				continue
			}
			if path, _, err := routing.ShortestPath(graph, seg.From, seg.To); err == nil {
				paths[i] = path
			}
		}
	}

	renderRoute(w, res, paths)
	return nil
}

func renderRoute(w io.Writer, res *routing.RouteResult, paths map[int][]string) {
	header := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)
	good := color.New(color.FgGreen, color.Bold)

	header.Fprintf(w, "Route: %s\n", strings.Join(res.Stops, " -> "))
	fmt.Fprintf(w, "Intensity: %s, weight: %.1f kg\n\n", res.Intensity, res.WeightKg)

	fmt.Fprintf(w, "%-10s %-10s %8s %10s %7s\n", "From", "To", "Steps", "Calories", "Stairs")
	for i, seg := range res.Segments {
		if seg.Failed() {
			warn.Fprintf(w, "%-10s %-10s %s\n", seg.From, seg.To, seg.Error)
			continue
		}
		stairs := "No"
		if seg.Stairs {
			stairs = "Yes"
		}
		fmt.Fprintf(w, "%-10s %-10s %8d %10.2f %7s\n", seg.From, seg.To, seg.Steps, seg.Calories, stairs)
		if path, ok := paths[i]; ok {
			fmt.Fprintf(w, "  via %s\n", strings.Join(path, " -> "))
		}
	}

	fmt.Fprintln(w)
	good.Fprintf(w, "Total steps: %s\n", groupThousands(res.TotalSteps))
	good.Fprintf(w, "Total calories burned: %.2f\n", res.TotalCalories)
	if res.FailedSegments > 0 {
		warn.Fprintf(w, "%d leg(s) had no path and are not counted\n", res.FailedSegments)
	}
}

// groupThousands formats 12345 as "12,345".
func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
