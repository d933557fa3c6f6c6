package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/anim"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/engine"
	"github.com/san-kum/orrery/internal/render"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/telemetry"
)

const headlessTimeout = time.Minute

// advance mounts the config on host, runs n frames as fast as possible and
// returns the engine still mounted.
func advance(ctx context.Context, cfg *config.Config, host render.Host, n int, opts ...engine.Option) (*engine.Engine, error) {
	log, closeLog, err := logger(false)
	if err != nil {
		return nil, err
	}
	defer closeLog()

	opts = append(opts, engine.WithFrameSource(func() anim.FrameSource { return anim.NewBurst(n) }))
	eng := newEngine(cfg, log, opts...)
	if err := mount(eng, host, cfg); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, headlessTimeout)
	defer cancel()
	if err := eng.Scheduler().WaitFrames(ctx, uint64(n)); err != nil {
		if uerr := eng.Unmount(); uerr != nil {
			log.Error("unmount", "err", uerr)
		}
		return nil, err
	}
	return eng, nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if frames < 0 {
		return fmt.Errorf("frames must not be negative")
	}

	host := render.NewMemoryHost(winWidth, winHeight)
	eng, err := advance(cmd.Context(), cfg, host, frames)
	if err != nil {
		return err
	}
	// A frame of zero animation still needs a picture.
	var f *render.Frame
	if frames == 0 {
		f = render.BuildFrame(eng.Scene(), eng.Camera(), winWidth, winHeight)
	} else {
		f = host.Last()
	}
	if err := eng.Unmount(); err != nil {
		return err
	}

	w, closeOut, err := openOutput(outFile)
	if err != nil {
		return err
	}
	defer closeOut()
	if braille {
		_, err = fmt.Fprint(w, render.Rasterize(f).String())
		return err
	}
	return render.WriteSVG(w, f)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if frames <= 0 {
		return fmt.Errorf("frames must be positive")
	}
	field, err := telemetry.ParseField(traceField)
	if err != nil {
		return err
	}

	rec := telemetry.NewRecorder(0)
	eng, err := advance(cmd.Context(), cfg, render.NewMemoryHost(1, 1), frames, engine.WithObserver(rec))
	if err != nil {
		return err
	}
	if err := eng.Unmount(); err != nil {
		return err
	}

	var plot string
	if traceBody == "" {
		plot, err = rec.PlotAll(field, plotWidth, plotHeight)
	} else {
		idx, ierr := bodyIndex(rec.Names(), traceBody)
		if ierr != nil {
			return ierr
		}
		plot, err = rec.Plot(idx, field, plotWidth, plotHeight)
	}
	if err != nil {
		return err
	}
	fmt.Println(plot)

	if csvFile != "" {
		f, err := os.Create(csvFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := rec.WriteCSV(f); err != nil {
			return err
		}
		fmt.Printf("wrote %d samples to %s\n", rec.Len(), csvFile)
	}
	if jsonFile != "" {
		f, err := os.Create(jsonFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := rec.WriteJSON(f); err != nil {
			return err
		}
	}
	return nil
}

func bodyIndex(names []string, s string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 && i < len(names) {
		return i, nil
	}
	return 0, fmt.Errorf("unknown body %q (have %v)", s, names)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tRINGED\tOUTERMOST")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		ringed, outer := 0, 0.0
		for _, b := range cfg.Bodies {
			if b.Ring != nil {
				ringed++
			}
			outer = max(outer, b.Distance)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\n", name, len(cfg.Bodies), ringed, outer)
	}
	return w.Flush()
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		configFile = args[0]
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	bodies, env, err := cfg.ToScene()
	if err != nil {
		return err
	}
	sc, warnings, err := scene.Build(bodies, env, scene.BuildOptions{Resolver: resolver(cfg), Segments: cfg.Segments})
	if err != nil {
		return err
	}
	defer sc.Dispose()

	for _, w := range warnings {
		fmt.Println("warning:", w)
	}
	fmt.Printf("ok: %d bodies, %d nodes, %d texture warnings\n", len(bodies), sc.Len(), len(warnings))
	return nil
}

func exportConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outFile != "" {
		return config.Save(outFile, cfg)
	}
	return config.Encode(os.Stdout, cfg, config.Format(format))
}
