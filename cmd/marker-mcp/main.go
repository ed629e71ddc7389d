package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/marker-overlay-mcp/internal/capture"
	"github.com/ironsheep/marker-overlay-mcp/internal/config"
	"github.com/ironsheep/marker-overlay-mcp/internal/detection"
	"github.com/ironsheep/marker-overlay-mcp/internal/imaging"
	"github.com/ironsheep/marker-overlay-mcp/internal/session"
	"github.com/ironsheep/marker-overlay-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "marker-mcp - MCP server for marker detection and AR overlays")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  marker-mcp [--config file]                                 Serve MCP over stdio")
	fmt.Fprintln(w, "  marker-mcp [--config file] detect <image> [annotated.png]  Detect markers once")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --config, -c     YAML configuration file")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Override log_level\n", config.LogLevelEnv)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(w, "Configure it in your MCP client (e.g., Claude Desktop).")
}

// cliArgs is the parsed command line.
type cliArgs struct {
	configPath string
	command    string
	rest       []string
}

func parseArgs(args []string) (cliArgs, error) {
	var a cliArgs
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 >= len(args) {
				return a, fmt.Errorf("%s needs a file argument", arg)
			}
			i++
			a.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			a.configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-") && len(positional) == 0:
			return a, fmt.Errorf("unknown option: %s", arg)
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) > 0 {
		a.command, a.rest = positional[0], positional[1:]
	}
	return a, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.Load(path)
}

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("marker-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage(os.Stdout)
			return
		}
	}

	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := loadConfig(args.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	logger := cfg.NewLogger()
	log := logrus.NewEntry(logger)

	switch args.command {
	case "":
		if err := serve(cfg, log); err != nil {
			log.WithError(err).Fatal("server error")
		}
	case "detect":
		if err := runDetect(cfg, args.rest, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", args.command)
		usage(os.Stderr)
		os.Exit(2)
	}
}

// serve runs the tick loop and the MCP server until stdin closes or the
// process is signalled.
func serve(cfg *config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Info("marker-mcp starting")

	pre := imaging.NewPreprocessor(cfg.Preprocess)
	sess, err := session.New(session.Options{
		Detection: cfg.Detection,
		Overlay:   cfg.Overlay,
		Animation: cfg.Animation,
		Seed:      cfg.Seed,
		Sink:      session.NewLogSink(log.WithField("component", "status")),
		Log:       log.WithField("component", "session"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.WithError(err).Warn("failed to close session")
		}
	}()

	switch {
	case cfg.Source.Camera:
		cam, err := capture.OpenCamera(ctx, cfg.Capture, pre, log.WithField("component", "capture"))
		if err != nil {
			// the server still answers one-shot tools without a camera
			log.WithError(err).Warn("camera not started")
		} else {
			sess.SetSource(cam, "Camera")
		}
	case cfg.Source.Path != "":
		src, err := session.OpenSource(imaging.NewImageCache(), cfg.Source.Path, pre)
		if err != nil {
			return err
		}
		sess.SetSource(src, "")
	}

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- sess.Run(ctx, cfg.Loop)
	}()

	srv := server.New(server.Options{
		Detection:  cfg.Detection,
		Overlay:    cfg.Overlay,
		Preprocess: cfg.Preprocess,
		Capture:    cfg.Capture,
		Seed:       cfg.Seed,
		Session:    sess,
		Log:        log.WithField("component", "server"),
	})
	srvDone := make(chan error, 1)
	go func() {
		srvDone <- srv.Run(ctx)
	}()

	var srvErr error
	select {
	case <-ctx.Done():
		log.Info("signal received, shutting down")
	case srvErr = <-srvDone:
		log.Info("stdin closed, shutting down")
	}
	stop()

	if err := <-loopDone; err != nil {
		return err
	}
	return srvErr
}

// detectOutput is what the detect command prints.
type detectOutput struct {
	Image     string `json:"image"`
	Seed      int64  `json:"seed"`
	Annotated string `json:"annotated,omitempty"`
	*detection.Result
}

// runDetect runs one detection cycle on args[0] and prints the result as
// JSON. With a second argument the frame is also saved with the markers
// outlined.
func runDetect(cfg *config.Config, args []string, w io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: detect <image> [annotated.png]")
	}

	frame, err := imaging.LoadFrame(imaging.NewImageCache(), args[0], imaging.NewPreprocessor(cfg.Preprocess), 1)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	det, err := detection.NewDetector(cfg.Detection, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	res, err := det.Detect(frame)
	if err != nil {
		return err
	}

	out := detectOutput{Image: args[0], Seed: seed, Result: res}
	if len(args) == 2 {
		boxes := make([]image.Rectangle, len(res.Markers))
		for i, m := range res.Markers {
			b := m.Bounds
			boxes[i] = image.Rect(b.X1, b.Y1, b.X2+1, b.Y2+1)
		}
		if err := imaging.SavePNG(args[1], imaging.Annotate(frame.Image(), boxes, "#00FF00")); err != nil {
			return err
		}
		out.Annotated = args[1]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
