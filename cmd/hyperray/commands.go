package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Carmen-Shannon/hyperray/engine"
	"github.com/Carmen-Shannon/hyperray/engine/camera"
	"github.com/Carmen-Shannon/hyperray/engine/config"
	"github.com/Carmen-Shannon/hyperray/engine/profiler"
	"github.com/Carmen-Shannon/hyperray/engine/renderer"
	"github.com/Carmen-Shannon/hyperray/engine/scene"
	"github.com/Carmen-Shannon/hyperray/engine/window"
	"github.com/spf13/cobra"
)

// errWatchWithoutConfig is returned when --watch is given without a file to watch.
var errWatchWithoutConfig = errors.New("--watch needs --config")

type viewerFlags struct {
	configPath string
	watch      bool
	profile    bool
	vsync      bool
	software   bool
	frameLimit float64
}

func newRootCommand() *cobra.Command {
	var flags viewerFlags

	root := &cobra.Command{
		Use:          "hyperray",
		Short:        "Interactive ray traced view into a four dimensional scene",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViewer(cmd, flags)
		},
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "TOML scene file (defaults to the built-in scene)")
	root.Flags().BoolVarP(&flags.watch, "watch", "w", false, "reload the scene whenever the config file changes")
	root.Flags().BoolVar(&flags.profile, "profile", false, "log frame rate, memory and buffer growth once per second")
	root.Flags().BoolVar(&flags.vsync, "vsync", true, "wait for vertical blank when presenting")
	root.Flags().BoolVar(&flags.software, "software", false, "force the software fallback adapter")
	root.Flags().Float64Var(&flags.frameLimit, "frame-limit", 0, "cap frames per second (0 = uncapped)")

	root.AddCommand(newConfigCommand(), newLayoutCommand(&flags))
	return root
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the built-in scene as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.Default().Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newLayoutCommand(flags *viewerFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the kernel record layouts and the buffer sizes of the configured scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			return printLayout(cmd.OutOrStdout(), cfg)
		},
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// printLayout writes one row per mirrored buffer: the reflected kernel layout next to the bytes
// the scene uploads for cfg.
func printLayout(out io.Writer, cfg config.Config) error {
	kernel := scene.KernelShader()
	counts := map[string]int{
		"Camera":       1,
		"HyperSpheres": len(cfg.Spheres),
		"HyperPlanes":  len(cfg.Planes),
		"Materials":    len(cfg.Materials),
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRUCT\tARG\tHEADER\tSTRIDE\tKERNEL\tRECORDS\tPAYLOAD")
	for _, rl := range scene.RecordLayouts {
		reflected := "missing"
		if got, ok := kernel.StructLayout(rl.Struct); ok {
			if rl.HeaderSize == 0 {
				reflected = fmt.Sprintf("size %d", got.Size)
			} else {
				reflected = fmt.Sprintf("array @%d stride %d", got.ArrayOffset, got.ArrayStride)
			}
		}
		n := counts[rl.Struct]
		payload := rl.Stride
		if rl.HeaderSize > 0 {
			payload = rl.HeaderSize + uint64(max(n, 1))*rl.Stride
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\t%d\n", rl.Struct, rl.Arg, rl.HeaderSize, rl.Stride, reflected, n, payload)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := scene.CheckLayouts(kernel); err != nil {
		return err
	}
	wg := kernel.WorkgroupSize()
	_, err := fmt.Fprintf(out, "layouts match, workgroup %dx%dx%d\n", wg[0], wg[1], wg[2])
	return err
}

// runViewer opens the window and blocks until it closes. The window must be created on the
// calling goroutine, which GLFW locks to the main thread.
func runViewer(cmd *cobra.Command, flags viewerFlags) error {
	if flags.watch && flags.configPath == "" {
		return errWatchWithoutConfig
	}
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("vsync") {
		cfg.Renderer.VSync = flags.vsync
	}
	if cmd.Flags().Changed("software") {
		cfg.Renderer.Software = flags.software
	}

	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	presentMode := renderer.PresentModeUncapped
	if cfg.Renderer.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	p := profiler.NewProfiler()
	sc := scene.NewScene(
		scene.WithCamera(camera.NewCamera(cfg.CameraOptions()...)),
		scene.WithController(camera.NewCameraController(cfg.ControllerOptions()...)),
		scene.WithSnapshot(cfg.Snapshot()),
		scene.WithGrowHook(p.RecordGrow),
	)
	if err := sc.Attach(r); err != nil {
		return err
	}
	defer sc.Release()

	opts := []engine.EngineBuilderOption{
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithProfiler(p),
		engine.WithProfiling(flags.profile),
		engine.WithRenderFrameLimit(flags.frameLimit),
	}
	if flags.watch {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		reloads, err := config.Watch(ctx, flags.configPath)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithReloads(reloads))
	}

	engine.NewEngine(opts...).Run()
	return nil
}
