package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yuanying/docx-rebrand/internal/config"
	"github.com/yuanying/docx-rebrand/internal/rebrand"
	"github.com/yuanying/docx-rebrand/internal/server"
)

type rebrandOptions struct {
	Inputs    []string
	OutputDir string
	Jobs      int

	Brand        string
	Original     string
	LogoPath     string
	HeaderText   string
	FooterCenter string
	FooterRight  string

	Config *config.Config
	Logger *slog.Logger
}

type serveOptions struct {
	Listen string
	Config *config.Config
	Logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docx-rebrand",
		Short: "Rebrand .docx policy templates for a client",
		Long: `docx-rebrand rewrites Word (.docx) policy templates for a client company:
it replaces the template's brand name, installs a header with the client
logo and name, installs a footer with page numbers, and swaps embedded
images for the client logo.

Documents can be processed from the command line or through an HTTP API.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file")
	pf.String("log-level", "", "Log level: debug, info, warn, error (default from config: info)")
	pf.String("log-format", "", "Log format: text, json (default from config: text)")
	pf.BoolP("verbose", "v", false, "Shorthand for --log-level debug")

	root.AddCommand(newRebrandCmd(), newServeCmd())
	return root
}

func newRebrandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebrand <input.docx>...",
		Short: "Rebrand one or more documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readRebrandOptions(cmd, args)
			if err != nil {
				return err
			}
			return runRebrand(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringP("brand", "b", "", "Client company name (required)")
	f.String("original", "", "Brand name to replace (default from config: Aistra)")
	f.StringP("logo", "l", "", "Client logo image file")
	f.String("header-text", "", "Header text (default: the client company name)")
	f.String("footer-center", "", "Footer center text")
	f.String("footer-right", "", "Footer right text")
	f.StringP("output-dir", "o", "", "Output directory (default: next to each input)")
	f.IntP("jobs", "j", 0, "Documents processed concurrently (default from config)")
	f.Int("logo-max-width", 0, "Downscale wider logos to this width in pixels (0 keeps the logo as supplied)")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rebranding HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readServeOptions(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().String("listen", "", "Listen address (default from config: :8080)")
	return cmd
}

// readCommonOptions loads the config file and applies the logging flags over it.
func readCommonOptions(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		if _, err := config.ParseLevel(level); err != nil {
			return nil, nil, fmt.Errorf("invalid --log-level %q: must be debug, info, warn, or error", level)
		}
		cfg.Log.Level = level
	}
	if flags.Changed("log-format") {
		format, _ := flags.GetString("log-format")
		switch strings.ToLower(format) {
		case "text", "json":
		default:
			return nil, nil, fmt.Errorf("invalid --log-format %q: must be text or json", format)
		}
		cfg.Log.Format = format
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}

	return cfg, buildLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format), nil
}

func readRebrandOptions(cmd *cobra.Command, args []string) (*rebrandOptions, error) {
	cfg, logger, err := readCommonOptions(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	opts := &rebrandOptions{
		Inputs: args,
		Jobs:   cfg.Jobs,
		Config: cfg,
		Logger: logger,
	}
	opts.Brand, _ = flags.GetString("brand")
	opts.Original, _ = flags.GetString("original")
	opts.LogoPath, _ = flags.GetString("logo")
	opts.HeaderText, _ = flags.GetString("header-text")
	opts.FooterCenter, _ = flags.GetString("footer-center")
	opts.FooterRight, _ = flags.GetString("footer-right")
	opts.OutputDir, _ = flags.GetString("output-dir")

	if strings.TrimSpace(opts.Brand) == "" {
		return nil, fmt.Errorf("--brand is required")
	}
	if flags.Changed("jobs") {
		opts.Jobs, _ = flags.GetInt("jobs")
		if opts.Jobs < 1 {
			return nil, fmt.Errorf("invalid --jobs %d: must be at least 1", opts.Jobs)
		}
	}
	if flags.Changed("logo-max-width") {
		width, _ := flags.GetInt("logo-max-width")
		if width < 0 {
			return nil, fmt.Errorf("invalid --logo-max-width %d: must be >= 0", width)
		}
		cfg.Logo.MaxWidth = width
	}
	for _, in := range args {
		if !strings.EqualFold(filepath.Ext(in), ".docx") {
			return nil, fmt.Errorf("input %s: expected a .docx file", in)
		}
	}

	return opts, nil
}

func readServeOptions(cmd *cobra.Command) (*serveOptions, error) {
	cfg, logger, err := readCommonOptions(cmd)
	if err != nil {
		return nil, err
	}
	opts := &serveOptions{Listen: cfg.Listen, Config: cfg, Logger: logger}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		opts.Listen = listen
	}
	return opts, nil
}

func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(format) == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// outputPath places a rebranded document in outputDir, or next to its input.
func outputPath(input, outputDir, fileName string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(input)
	}
	return filepath.Join(outputDir, fileName)
}

func runRebrand(ctx context.Context, opts *rebrandOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := rebrand.New(opts.Config.RebrandOptions(opts.Logger))

	var logo []byte
	if opts.LogoPath != "" {
		var err error
		if logo, err = os.ReadFile(opts.LogoPath); err != nil {
			return fmt.Errorf("read logo: %w", err)
		}
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for _, input := range opts.Inputs {
		input := input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read %s: %w", input, err)
			}

			res, err := r.Rebrand(rebrand.Request{
				Document:         data,
				FileName:         filepath.Base(input),
				TargetBrand:      opts.Brand,
				OriginalBrand:    opts.Original,
				Logo:             logo,
				HeaderText:       opts.HeaderText,
				FooterCenterText: opts.FooterCenter,
				FooterRightText:  opts.FooterRight,
			})
			if err != nil {
				return fmt.Errorf("rebrand %s: %w", input, err)
			}

			out := outputPath(input, opts.OutputDir, res.FileName)
			if err := os.WriteFile(out, res.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			opts.Logger.Info("written", "input", input, "output", out, "warnings", len(res.Warnings))
			return nil
		})
	}
	return g.Wait()
}

func runServe(ctx context.Context, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := server.New(rebrand.New(opts.Config.RebrandOptions(opts.Logger)), opts.Config.MaxUploadBytes(), opts.Logger)
	srv := &http.Server{
		Addr:              opts.Listen,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts.Logger.Info("listening", "addr", opts.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		opts.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
