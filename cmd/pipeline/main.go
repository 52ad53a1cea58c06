// Command pipeline runs a one-shot course build: import converted material,
// work out the structure, produce chapter files and render the docsify site.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/dwesley/courseforge/internal/config"
	"github.com/dwesley/courseforge/internal/generate"
	"github.com/dwesley/courseforge/internal/importer"
	"github.com/dwesley/courseforge/internal/pipeline"
	"github.com/dwesley/courseforge/internal/site"
	"github.com/dwesley/courseforge/internal/store"
)

type buildFlags struct {
	configPath string
	source     string
	out        string
	rawDir     string
	course     string
	noLLM      bool
	verbose    bool
}

func parseFlags(args []string) (*buildFlags, error) {
	fs := flag.NewFlagSet("pipeline", flag.ContinueOnError)
	f := &buildFlags{}

	fs.StringVarP(&f.configPath, "config", "c", "", "course.yaml path (defaults to <source>/course.yaml)")
	fs.StringVarP(&f.source, "source", "s", "data/mineru_output", "converted course material directory")
	fs.StringVarP(&f.out, "out", "o", "data/output", "site output directory")
	fs.StringVar(&f.rawDir, "raw-dir", "data/raw_md", "imported markdown staging directory")
	fs.StringVar(&f.course, "course", "", "course name (overrides course.yaml)")
	fs.BoolVar(&f.noLLM, "no-llm", false, "skip the generation service, build chapters from raw sources")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(flags, log); err != nil {
		log.Error("build failed", "error", err)
		os.Exit(1)
	}
}

func run(flags *buildFlags, log *slog.Logger) error {
	cfg := config.Load()

	configPath := flags.configPath
	if configPath == "" {
		configPath = filepath.Join(flags.source, "course.yaml")
	}

	courseName := flags.course
	useLLM := !flags.noLLM && cfg.UseLLM
	var navbar []site.NavItem
	if course, err := config.LoadCourse(configPath); err == nil {
		if courseName == "" {
			courseName = course.Course.Name
		}
		if !course.Processing.UseLLM {
			useLLM = false
		}
		for _, item := range course.Navbar {
			navbar = append(navbar, site.NavItem{Name: item.Name, Link: item.Link})
		}
	} else {
		log.Warn("no course config, using defaults", "path", configPath, "error", err)
	}
	if courseName == "" {
		courseName = "Unknown Course"
	}

	var gen generate.Generator
	if useLLM {
		if cfg.LLMAPIKey == "" {
			return fmt.Errorf("LLM_API_KEY is required unless --no-llm is set")
		}
		client := generate.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
		defer client.Close()
		gen = client
	}

	st := store.NewSiteStore(flags.out, cfg.BackupKeep, log)
	imp := importer.New(flags.rawDir, st.AssetsDir(), log)
	imp.FallbackPdftotext = cfg.PDFFallbackPdftotext
	runner := pipeline.NewRunner(imp, site.NewScaffolder(st, log), gen, navbar, log)

	job := pipeline.NewJob(courseName, flags.source)
	runner.Run(context.Background(), job)

	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
		log.Info("site built", "output", flags.out, "chapters", snap.Progress.TotalChapters)
		return nil
	case pipeline.StatusPartial:
		log.Warn("site built with errors", "output", flags.out, "errors", snap.Progress.Errors)
		return nil
	default:
		return fmt.Errorf("build ended in state %s: %v", snap.Status, snap.Progress.Errors)
	}
}
