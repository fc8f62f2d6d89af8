package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/DanielEbert/lineCompletion/pkg/config"
	"github.com/DanielEbert/lineCompletion/pkg/finder"
	"github.com/DanielEbert/lineCompletion/pkg/mcpserver"
	"github.com/DanielEbert/lineCompletion/pkg/server"
	"github.com/DanielEbert/lineCompletion/pkg/suggest"
	"github.com/DanielEbert/lineCompletion/pkg/treecache"
	"github.com/DanielEbert/lineCompletion/pkg/watch"
	"github.com/DanielEbert/lineCompletion/pkg/webpage"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:           "linecompletion",
	Short:         "Source-aware line completion backend",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Missing .env is fine; environment variables still apply.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP completion and symbol query server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := newCache()
		if err != nil {
			return err
		}
		defer cache.Close()

		var suggestSvc *suggest.Service
		if cfg.Gemini.APIKey != "" || os.Getenv("GEMINI_API_KEY") != "" {
			opts := []suggest.Option{}
			if cfg.Server.ProjectRoot != "" {
				f := finder.New(cache, &finder.RipgrepSearcher{})
				opts = append(opts, suggest.WithContextBuilder(
					suggest.NewContextBuilder(f, cfg.Server.ProjectRoot)))
			}
			suggestSvc, err = suggest.NewService(cmd.Context(), cfg.Gemini.APIKey, opts...)
			if err != nil {
				return err
			}
			defer suggestSvc.Close()
		} else {
			slog.Warn("GEMINI_API_KEY not set, /suggest disabled")
		}

		if cfg.Watch.Enabled && cfg.Server.ProjectRoot != "" {
			w, err := watch.New(cache, cfg.Server.ProjectRoot, cfg.Watch.Debounce())
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			go func() {
				if err := w.Watch(ctx); err != nil {
					slog.Error("watcher stopped", "error", err)
				}
			}()
		}

		return server.New(cache, suggestSvc).Run(cfg.Addr())
	},
}

var findCmd = &cobra.Command{
	Use:   "find <function-name> <root-dir>",
	Short: "Find every definition of a function under a directory tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, rootDir := args[0], args[1]

		cache, err := newCache()
		if err != nil {
			return err
		}
		defer cache.Close()

		f := finder.New(cache, &finder.RipgrepSearcher{}, finder.WithDedup(dedup))
		refs, err := f.Find(name, rootDir)
		if err != nil {
			return err
		}
		slog.Info("search complete", "name", name, "definitions", len(refs))

		out, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("create %s: %w", outFile, err)
		}
		defer out.Close()
		return finder.WriteJSON(out, refs)
	},
}

var (
	outFile string
	dedup   bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Fetch a documentation page and chunk it for prompt context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pageURL := args[0]
		root, err := webpage.Fetch(pageURL)
		if err != nil {
			return err
		}

		docs := webpage.NewChunker().Process(root, pageURL)
		if chunkSize > 0 {
			docs = webpage.Split(docs, chunkSize, chunkOverlap)
		}
		slog.Info("scrape complete", "url", pageURL, "chunks", len(docs))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	},
}

var (
	chunkSize    int
	chunkOverlap int
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := newCache()
		if err != nil {
			return err
		}
		defer cache.Close()

		f := finder.New(cache, &finder.RipgrepSearcher{})
		return mcpserver.Run(context.Background(), cache, f, cfg.Server.ProjectRoot)
	},
}

func newCache() (*treecache.Cache, error) {
	var opts []treecache.Option
	if cfg.Cache.MaxEntries > 0 {
		opts = append(opts, treecache.WithMaxEntries(cfg.Cache.MaxEntries))
	}
	return treecache.New(opts...)
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	findCmd.Flags().StringVarP(&outFile, "out", "o", "funcs.json", "output file for found definitions")
	findCmd.Flags().BoolVar(&dedup, "dedup", false, "drop repeated hits resolving to the same definition")
	scrapeCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "split chunks to at most this many characters (0 keeps logical blocks)")
	scrapeCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 100, "overlap between split chunks")
	rootCmd.AddCommand(serveCmd, findCmd, mcpCmd, scrapeCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
