package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	assetsDir  string
	logLevel   string
	logFile    string
	segments   int

	fps       int
	theme     string
	watch     bool
	winWidth  int
	winHeight int

	frames     int
	outFile    string
	braille    bool
	traceBody  string
	traceField string
	csvFile    string
	jsonFile   string
	plotWidth  int
	plotHeight int
	format     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "orrery",
		Short:        "animated orbital system in the terminal or a window",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml or toml)")
	rootCmd.PersistentFlags().StringVarP(&preset, "preset", "p", "solar", "built-in system when no config file is given")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets", "", "directory texture paths are resolved against")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().IntVar(&segments, "segments", 0, "orbit path segments (default from config)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE:  runTUI,
	}
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().IntVar(&fps, "fps", 0, "frame rate (default from config)")
		c.Flags().StringVar(&theme, "theme", "deepspace", "hud theme")
		c.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when the config file changes")
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a native window",
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&fps, "fps", 0, "frame rate (default from config)")
	guiCmd.Flags().IntVar(&winWidth, "width", 1280, "window width")
	guiCmd.Flags().IntVar(&winHeight, "height", 720, "window height")
	guiCmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when the config file changes")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the scene after a number of frames",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVarP(&frames, "frames", "n", 0, "frames to advance before capturing")
	snapshotCmd.Flags().IntVar(&winWidth, "width", 1280, "image width (dots with --braille)")
	snapshotCmd.Flags().IntVar(&winHeight, "height", 720, "image height (dots with --braille)")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the svg here instead of stdout")
	snapshotCmd.Flags().BoolVar(&braille, "braille", false, "print a braille rendering instead of svg")

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "record body angles and positions over a number of frames",
		RunE:  runTrace,
	}
	traceCmd.Flags().IntVarP(&frames, "frames", "n", 600, "frames to record")
	traceCmd.Flags().StringVarP(&traceBody, "body", "b", "", "plot only this body (name or index)")
	traceCmd.Flags().StringVarP(&traceField, "field", "f", "revolution", "revolution, spin, x or z")
	traceCmd.Flags().StringVar(&csvFile, "csv", "", "also write every sample to this csv file")
	traceCmd.Flags().StringVar(&jsonFile, "json", "", "also write the recording to this json file")
	traceCmd.Flags().IntVar(&plotWidth, "plot-width", 80, "plot width")
	traceCmd.Flags().IntVar(&plotHeight, "plot-height", 12, "plot height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in systems",
		RunE:  listPresets,
	}

	validateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "check a config file and its textures",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateConfig,
	}

	exportCmd := &cobra.Command{
		Use:   "export-config",
		Short: "write the selected system as a config file",
		RunE:  exportConfig,
	}
	exportCmd.Flags().StringVar(&format, "format", "yaml", "yaml or toml (ignored with --out)")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file, format from its extension")

	rootCmd.AddCommand(tuiCmd, guiCmd, snapshotCmd, traceCmd, presetsCmd, validateCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
