package main

import (
	"github.com/spf13/cobra"

	"github.com/carnetphoto/carnet/pkg/gpsmap"
)

func newMapCmd() *cobra.Command {
	var date string
	var from string
	var to string
	var cities []string
	var refImage string
	var margin float64
	var title string
	var target string

	cmd := &cobra.Command{
		Use:   "map <gpx> <output>",
		Short: "Render a GPX trace as a static map image",
		Long: `Render a GPX trace over OpenStreetMap tiles and write it as
<output>.jpg in the target folder.

The trace is drawn as cyan direction arrows with a green start flag and
a red end flag. City markers are geocoded through Nominatim; each
--city entry takes the form "query", "query:label" or
"query:label:position" where position is a compass point (N, S, E, O
or a combination such as NE). Cities that land outside the map are
skipped.

With --date the trace is cut to that day; --from and --to narrow the
window further. The output is stamped with a capture date taken from
the reference photo, or from the window start, so it sorts next to the
day's photos.`,
		Example: `  # Whole trace, automatic margin
  carnet-cli map ride.gpx day3

  # One day of a multi-day trace, with city markers
  carnet-cli map tour.gpx etape2 --date 2023-07-14 \
    --city Annecy --city "Talloires::SE" --title "Etape 2"

  # Morning only, date taken from a photo of the ride
  carnet-cli map tour.gpx matin --date 2023-07-14 \
    --from 8 --to 12:30 --ref-image IMG_2041.jpg`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, assets, err := newRunEnv(target)
			if err != nil {
				return err
			}
			req := gpsmap.Request{
				GPXPath:    args[0],
				Date:       date,
				StartClock: from,
				EndClock:   to,
				Cities:     cities,
				RefImage:   refImage,
				MarginM:    margin,
				Title:      title,
				OutputName: args[1],
			}
			_, err = gpsmap.Generate(cmd.Context(), env, assets, req)
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Keep only points of this day, YYYY-MM-DD")
	cmd.Flags().StringVar(&from, "from", "", "Start of the time window, HH, HH:MM or HH:MM:SS")
	cmd.Flags().StringVar(&to, "to", "", "End of the time window, HH, HH:MM or HH:MM:SS")
	cmd.Flags().StringArrayVar(&cities, "city", nil, "City marker, query[:label[:position]] (repeatable)")
	cmd.Flags().StringVar(&refImage, "ref-image", "", "Reference photo supplying the capture date")
	cmd.Flags().Float64Var(&margin, "margin", 0, "Margin around the trace in meters (0 picks one from the zoom)")
	cmd.Flags().StringVar(&title, "title", "", "Title drawn in the top left corner")
	cmd.Flags().StringVar(&target, "target", ".", "Folder the output and tile cache are written to")

	return cmd
}
