package main

import (
	"fmt"
	"os"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/AndyA/Lintilla/cmd"
	"github.com/AndyA/Lintilla/internal/config"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:  "lintilla",
		Long: `Lintilla batch image watermarking`,
	}

	watermarkCmd := &cobra.Command{
		Use:          "watermark -w <image> [flags] <dir|file>...",
		Short:        "Watermark every JPEG and PNG below the given directories",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			v, err := config.NewViper(c.Flags())
			if err != nil {
				return err
			}
			return cmd.Watermark(afero.NewOsFs(), os.Stderr, v, args)
		},
	}

	config.RegisterFlags(watermarkCmd.Flags())
	watermarkCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	watermarkCmd.Flags().Bool("debug", false, "Log version, user and environment details at start")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versioninfo.Short())
		},
	}

	rootCmd.AddCommand(watermarkCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
