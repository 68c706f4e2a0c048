package main

import (
	"github.com/spf13/cobra"

	"github.com/carnetphoto/carnet/pkg/collage"
)

func newCollageCmd() *cobra.Command {
	var title string
	var dateLabel string
	var name string
	var refImage string
	var target string

	cmd := &cobra.Command{
		Use:   "collage <photo>...",
		Short: "Compose 2 to 7 photos into a single collage",
		Long: `Compose the given photos into one 4K collage.

Photos are scattered over a black canvas as tilted, white-framed
prints, cropped around faces when the face model is available. A
title header is drawn when --title is set, with a date line derived
from the earliest capture date among the photos (or --date verbatim).
The output inherits that capture date minus a few seconds, so it
sorts just before the photos it is made of.`,
		Example: `  # Plain collage, no header
  carnet-cli collage IMG_2041.jpg IMG_2042.jpg IMG_2050.jpg

  # Titled collage written next to the day's photos
  carnet-cli collage --title "Col de la Forclaz" --name forclaz \
    --target ./2023-07-14 IMG_2041.jpg IMG_2042.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, assets, err := newRunEnv(target)
			if err != nil {
				return err
			}
			opts := collage.Options{
				Title:      title,
				DateLabel:  dateLabel,
				RefImage:   refImage,
				OutputName: name,
			}
			_, err = collage.Generate(cmd.Context(), env, assets, args, opts)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title drawn in the header strip")
	cmd.Flags().StringVar(&dateLabel, "date", "", "Date line under the title (default derives it from the photos)")
	cmd.Flags().StringVar(&name, "name", "", "Output name, .jpg is appended (default: the title, else collage_<date>)")
	cmd.Flags().StringVar(&refImage, "ref-image", "", "Reference photo supplying the capture date")
	cmd.Flags().StringVar(&target, "target", ".", "Folder the output is written to")

	return cmd
}
