package main

import (
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"

	"movingmap/config"
	"movingmap/log"
	"movingmap/mapview"
	"movingmap/session"
	"movingmap/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	lg := log.New(cfg.LogLevel, cfg.LogDir)

	go func() {
		w := new(app.Window)
		w.Option(
			app.Title("Moving Map"),
			app.Size(unit.Dp(cfg.WindowWidth), unit.Dp(cfg.WindowHeight)),
		)
		if err := run(w, cfg, lg); err != nil {
			lg.Error("fatal", "err", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

func run(w *app.Window, cfg *config.Config, lg *log.Logger) error {
	sources := make([]mapview.TileSource, 0, len(cfg.TileSources))
	for _, s := range cfg.TileSources {
		sources = append(sources, mapview.TileSource{Path: s.Path, Format: s.Format})
	}

	mv, err := mapview.New(cfg.WindowWidth, cfg.WindowHeight, sources, lg)
	if err != nil {
		return err
	}
	defer mv.Close()

	restoreView(mv, cfg, lg)

	var recv *telemetry.Receiver
	if cfg.TelemetryPort > 0 {
		recv, err = telemetry.Listen(cfg.TelemetryPort, lg)
		if err != nil {
			lg.Warn("telemetry disabled", "err", err)
		} else {
			go recv.Run(w.Invalidate)
			defer recv.Close()
		}
	}

	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			saveView(mv, lg)
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			if recv != nil {
				if snap, ok := recv.Latest(); ok {
					mv.SetMarkerPosition(snap.Position.Latitude, snap.Position.Longitude)
					mv.SetMarkerHeading(snap.Attitude.Heading)
				}
			}
			mv.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// restoreView puts the map back where the last run left it, falling back
// to the configured start position on a first run.
func restoreView(mv *mapview.MapView, cfg *config.Config, lg *log.Logger) {
	if st, saved, err := session.Load(); err == nil {
		mv.SetLevel(st.Level)
		mv.SetMarkerPosition(st.MarkerLat, st.MarkerLng)
		mv.SetMarkerHeading(st.Heading)
		mv.SetViewport(st.WorldX, st.WorldY, false)
		lg.Info("session restored", "saved", saved, "level", st.Level)
		return
	}
	mv.SetLevel(cfg.StartLevel)
	mv.SetMarkerPosition(cfg.StartLat, cfg.StartLng)
	mv.CenterOnMarker(false)
}

func saveView(mv *mapview.MapView, lg *log.Logger) {
	geo := mv.MarkerGeo()
	vp := mv.Viewport()
	st := &session.State{
		Level:     mv.Level(),
		WorldX:    vp.Min.X,
		WorldY:    vp.Min.Y,
		MarkerLat: geo.Lat,
		MarkerLng: geo.Lng,
		Heading:   mv.MarkerHeading(),
	}
	if err := session.Save(st); err != nil {
		lg.Warn("session save failed", "err", err)
	}
}
