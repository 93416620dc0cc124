package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/chordforge/chordforge/internal/cache"
	"github.com/chordforge/chordforge/internal/document"
	"github.com/chordforge/chordforge/internal/dump"
	"github.com/chordforge/chordforge/internal/transform"
	"github.com/chordforge/chordforge/pkg/cli"
	"github.com/chordforge/chordforge/pkg/fileutil"
	"github.com/chordforge/chordforge/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "chordforge:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		cli.PrintHelp()
		return err
	}
	if config.ShowHelp {
		cli.PrintHelp()
		return nil
	}
	if err := logger.InitLogger(config.LogLevel); err != nil {
		return err
	}
	log := logger.GetLogger()

	data, err := fileutil.ReadAll(config.InputPath)
	if err != nil {
		return err
	}

	doc := document.New(cache.New())
	doc.SetTimeTolerance(uint32(config.TickTolerance))
	if err := doc.Load(data); err != nil {
		return fmt.Errorf("load %s: %w", config.InputPath, err)
	}
	log.Info("loaded document", "path", config.InputPath, "chords", len(doc.Chords()))

	if config.DetectKey {
		key, err := doc.DetectKey()
		if err != nil {
			fmt.Println("key: no confident key detected")
		} else {
			mode := "major"
			if !key.Major {
				mode = "minor"
			}
			fmt.Printf("key: %s %s\n", key.Root, mode)
		}
	}

	if config.Progression {
		matches := doc.AnalyzeProgression()
		if len(matches) == 0 {
			fmt.Println("progression: no matches")
		}
		for _, m := range matches {
			fmt.Printf("progression: %s in %s (confidence %.2f, starting at chord %d)\n",
				m.Pattern, m.RootName, m.Confidence, m.StartIndex+1)
		}
	}

	if len(config.Transforms) > 0 {
		indices := make([]int, len(config.Transforms))
		targets := make([]string, len(config.Transforms))
		for i, spec := range config.Transforms {
			indices[i] = spec.Index
			targets[i] = spec.Target
		}
		results, err := doc.Transform(indices, targets, transform.Options{Mode: transform.ModeStandard, UseVoiceLeading: true})
		if err != nil {
			return fmt.Errorf("transform: %w", err)
		}
		for _, r := range results {
			if r.Err != nil {
				log.Warn("transform skipped", "index", r.Index, "error", r.Err)
			}
		}
	}

	if config.DumpPath != "" {
		if err := writeDump(config.InputPath, config.DumpPath, doc); err != nil {
			return err
		}
		log.Info("wrote analysis dump", "path", config.DumpPath)
	}

	if config.OutputPath != "" {
		out, err := doc.Save()
		if err != nil {
			return fmt.Errorf("save: %w", err)
		}
		if err := fileutil.WriteAtomic(config.OutputPath, out); err != nil {
			return err
		}
		log.Info("wrote output file", "path", config.OutputPath)
	}

	return nil
}

func writeDump(sourcePath, dumpPath string, doc *document.Document) error {
	var buf bytes.Buffer
	if err := dump.Write(&buf, sourcePath, doc.Chords()); err != nil {
		return fmt.Errorf("render dump: %w", err)
	}
	return fileutil.WriteAtomic(dumpPath, buf.Bytes())
}
