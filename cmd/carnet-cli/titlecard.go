package main

import (
	"github.com/spf13/cobra"

	"github.com/carnetphoto/carnet/pkg/collage"
)

func newTitleCardCmd() *cobra.Command {
	var date string
	var title string
	var name string
	var target string

	cmd := &cobra.Command{
		Use:   "titlecard <photo>...",
		Short: "Compose a title card that opens a day in the gallery",
		Long: `Compose a collage headed by the day's title and date.

The card takes the same 2 to 7 photos as a collage, but title and date
are mandatory and the capture date is stamped as the given day at
02:00, so the card sorts before every photo taken that day. The output
name defaults to the date.`,
		Example: `  # Card opening the third day of a trip
  carnet-cli titlecard --date 2023-07-14 --title "Jour 3 - Annecy" \
    IMG_2041.jpg IMG_2042.jpg IMG_2050.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, assets, err := newRunEnv(target)
			if err != nil {
				return err
			}
			opts := collage.TitleCardOptions{
				Date:       date,
				Title:      title,
				OutputName: name,
			}
			_, err = collage.GenerateTitleCard(cmd.Context(), env, assets, args, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day the card opens, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&title, "title", "", "Title drawn in the header (required)")
	cmd.Flags().StringVar(&name, "name", "", "Output name, .jpg is appended (default: the date)")
	cmd.Flags().StringVar(&target, "target", ".", "Folder the output is written to")

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
