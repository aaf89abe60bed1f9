package main

import (
	"os"

	colorable "github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dtsgen-go/errcode"
	"dtsgen-go/services/convert"
)

func main() {
	log.SetOutput(colorable.NewColorableStderr())
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	opts := convert.Options{
		PNPAllow:   convert.DefaultPNPAllow(),
		ConsoleUID: 3,
	}

	root := &cobra.Command{
		Use:   "dtsgen <extraction-dir> [output.dts]",
		Short: "Convert extracted Sky1 ACPI tables into a device-tree source file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ExtractDir = args[0]
			if len(args) > 1 {
				opts.OutPath = args[1]
			}
			cmd.SilenceUsage = true
			return convert.Run(opts)
		},
	}
	root.Flags().StringSliceVar(&opts.PNPAllow, "pnp-allow", opts.PNPAllow,
		"plug-and-play hardware-IDs let through the PNP* drop-filter")
	root.Flags().IntVar(&opts.ConsoleUID, "console-uid", opts.ConsoleUID,
		"unique-ID of the console UART (kept enabled)")
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		log.WithField("code", string(errcode.Of(err))).Error(err)
		os.Exit(1)
	}
}
