package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/olablt/gio-geomap/config"
	"github.com/olablt/gio-geomap/logging"
	"github.com/olablt/gio-geomap/mapconfig"
)

var (
	configFile string
	verbose    bool
)

func main() {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   "salzburg-map",
		Short: "Interactive map of the federal state of Salzburg",
		Long: `salzburg-map opens a window with a tiled base map of Salzburg,
its national parks, a city walk, summits and a few markers.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			if verbose {
				cfg.Log.Level = "debug"
			}
			logging.Setup(cfg.Log.Level, cfg.Log.Format)
			return run(cfg)
		},
	}

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Config file (default ./geomap.yaml if present)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().Bool("offline", false, "Use placeholder tiles instead of fetching from the network")
	rootCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (disabled when empty)")
	_ = v.BindPFlag("tiles.offline", rootCmd.Flags().Lookup("offline"))
	_ = v.BindPFlag("metrics.addr", rootCmd.Flags().Lookup("metrics-addr"))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	refresh := make(chan struct{}, 1)
	mc, err := mapconfig.New(mapconfig.Options{
		Tiles: mapconfig.TileOptions{
			UserAgent:          cfg.Tiles.UserAgent,
			Timeout:            cfg.Tiles.Timeout,
			Workers:            cfg.Tiles.Workers,
			CacheSize:          cfg.Tiles.CacheSize,
			Offline:            cfg.Tiles.Offline,
			PlaceholderOnError: cfg.Tiles.PlaceholderOnError,
		},
		Refresh: refresh,
	})
	if err != nil {
		return fmt.Errorf("configure map: %w", err)
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			slog.Info("metrics listening", "addr", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, promhttp.Handler()); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	go func() {
		w := new(app.Window)
		w.Option(
			app.Title("Salzburg"),
			app.Size(unit.Dp(cfg.Window.Width), unit.Dp(cfg.Window.Height)),
		)

		var ops op.Ops
		go func() {
			for range refresh {
				w.Invalidate()
			}
		}()
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				mc.Close()
				if e.Err != nil {
					slog.Error("window closed", "error", e.Err)
					os.Exit(1)
				}
				os.Exit(0)
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				mc.Map.Layout(gtx)
				e.Frame(gtx.Ops)
			}
		}
	}()
	app.Main()
	return nil
}
