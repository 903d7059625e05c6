package main

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-ecg/dsp/core"
	"github.com/cwbudde/algo-ecg/ecg/liveview"
	"github.com/cwbudde/algo-ecg/ecg/playback"
	"github.com/cwbudde/algo-ecg/ecg/recording"
	"github.com/cwbudde/algo-ecg/ecg/session"
	"github.com/cwbudde/algo-ecg/internal/logging"
)

func runPlay(ctx context.Context, args []string, _, stderr io.Writer) error {
	fs, lf := newFlagSet("play", "-in FILE [flags]", stderr)
	in := fs.String("in", "", "input recording (.txt, .dat, .csv, .edf, .parquet)")
	addr := fs.String("addr", ":8080", "HTTP listen address")
	rate := fs.Float64("rate", core.DefaultSampleRate, "sample rate in Hz for formats that do not store one")
	sig := fs.String("signal", "", "EDF signal label to load (default: first signal)")
	line := fs.Int("powerline", 50, "mains frequency to notch: 50 or 60")
	speed := fs.Float64("speed", 1, "playback speed multiplier")
	width := fs.Float64("width", 10, "visible window in seconds")
	maxPoints := fs.Int("max-points", 2000, "samples per trace sent to the browser, 0 for all")
	autoplay := fs.Bool("autoplay", false, "start playback immediately")
	origin := fs.String("origin", "", "comma-separated browser origins allowed besides the server's own, * for any")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *in == "" {
		return usageError{"play: -in is required"}
	}
	opts, err := powerlineOptions(*line)
	if err != nil {
		return err
	}

	logger := lf.logger(stderr)
	defer func() { _ = logging.Sync(logger) }()

	rec, err := recording.Load(*in, recording.WithRate(*rate), recording.WithSignalLabel(*sig))
	if err != nil {
		return err
	}

	hub := liveview.NewHub(*maxPoints, logger.Named("liveview"))
	sess, err := session.New(
		session.WithLogger(logger.Named("session")),
		session.WithCascadeOptions(opts...),
		session.WithPlaybackOptions(playback.WithSpeed(*speed), playback.WithDisplayWidth(*width)),
		session.WithFrameHandler(hub.PublishFrame),
	)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Load(rec.Samples, rec.Rate); err != nil {
		return err
	}
	logger.Info("recording ready", logging.Path(*in), zap.String("label", rec.Label), zap.Float64("seconds", rec.Duration()))

	if *autoplay {
		if err := sess.Start(ctx); err != nil {
			return err
		}
	}

	srvOpts := []liveview.Option{liveview.WithLogger(logger.Named("liveview"))}
	if check := originChecker(*origin); check != nil {
		srvOpts = append(srvOpts, liveview.WithAllowedOrigin(check))
	}
	srv := liveview.NewServer(sess, hub, srvOpts...)
	return srv.Run(ctx, *addr)
}

// originChecker accepts requests from the listed origins and from the
// server's own host. An empty list returns nil.
func originChecker(list string) func(*http.Request) bool {
	allowed := map[string]bool{}
	for _, o := range strings.Split(list, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[strings.ToLower(o)] = true
		}
	}
	if len(allowed) == 0 {
		return nil
	}
	if allowed["*"] {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		o := strings.ToLower(r.Header.Get("Origin"))
		if o == "" || allowed[o] {
			return true
		}
		u, err := url.Parse(o)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
