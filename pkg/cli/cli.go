// Package cli parses command-line configuration for the chordforge batch
// runner: input/output SMF paths, the segmenter's tick tolerance, log
// level, which read-only analyses to run, and a repeatable --transform
// index=target flag for headless batch rewriting, with environment-variable
// fallback for flags left unset.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TransformSpec is one "index=target" pair from a repeated --transform flag:
// rewrite the chord at Index to the named target chord.
type TransformSpec struct {
	Index  int
	Target string
}

// Config holds the parsed command-line configuration.
type Config struct {
	InputPath     string // required: path to the source SMF file
	OutputPath    string // path to write the re-encoded source SMF (chord transforms are not written into it); "" skips writing
	DumpPath      string // path to write a chord analysis dump; "" skips it
	TickTolerance uint   // segmenter tick tolerance τ, default 120
	LogLevel      string // debug, info, warn, error
	DetectKey     bool   // run the key detector and print its result
	Progression   bool   // run the progression detector and print matches
	Transforms    []TransformSpec
	ShowHelp      bool
}

// transformFlag collects repeated --transform occurrences into Config's
// Transforms slice, parsing each as "index=target".
type transformFlag struct {
	specs *[]TransformSpec
}

func (f transformFlag) String() string {
	return ""
}

func (f transformFlag) Set(value string) error {
	idxStr, target, found := strings.Cut(value, "=")
	if !found || idxStr == "" || target == "" {
		return fmt.Errorf("--transform expects index=target, got %q", value)
	}
	index, err := strconv.Atoi(idxStr)
	if err != nil {
		return fmt.Errorf("--transform index %q is not an integer: %w", idxStr, err)
	}
	*f.specs = append(*f.specs, TransformSpec{Index: index, Target: target})
	return nil
}

// ParseArgs parses args (excluding the program name) into a Config.
// Command-line flags take priority over the CHORDFORGE_LOG_LEVEL and
// CHORDFORGE_TICK_TOLERANCE environment variables.
func ParseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("chordforge", flag.ContinueOnError)

	config := &Config{}
	var tolerance int

	fs.StringVar(&config.InputPath, "in", "", "path to the source Standard MIDI File")
	fs.StringVar(&config.OutputPath, "out", "", "path to write the re-encoded source Standard MIDI File (chord transforms are not written into it)")
	fs.StringVar(&config.DumpPath, "dump", "", "path to write a chord analysis dump")
	fs.IntVar(&tolerance, "tolerance", 0, "segmenter tick tolerance (default 120)")
	fs.StringVar(&config.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.BoolVar(&config.DetectKey, "detect-key", false, "run the key detector and print its result")
	fs.BoolVar(&config.Progression, "progression", false, "run the progression detector and print matches")
	fs.Var(transformFlag{specs: &config.Transforms}, "transform", "rewrite a chord: index=target (repeatable)")
	fs.BoolVar(&config.ShowHelp, "help", false, "show this help")
	fs.BoolVar(&config.ShowHelp, "h", false, "show this help (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if config.InputPath == "" && fs.NArg() > 0 {
		config.InputPath = fs.Arg(0)
	}

	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	if !setFlags["tolerance"] {
		if toleranceEnv := os.Getenv("CHORDFORGE_TICK_TOLERANCE"); toleranceEnv != "" {
			if v, err := strconv.Atoi(toleranceEnv); err == nil && v > 0 {
				tolerance = v
			}
		}
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("tolerance must be non-negative, got %d", tolerance)
	}
	if tolerance == 0 {
		tolerance = 120
	}
	config.TickTolerance = uint(tolerance)

	if !setFlags["log-level"] {
		if levelEnv := os.Getenv("CHORDFORGE_LOG_LEVEL"); levelEnv != "" {
			config.LogLevel = strings.ToLower(levelEnv)
		}
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if !config.ShowHelp && config.InputPath == "" {
		return nil, fmt.Errorf("an input Standard MIDI File path is required")
	}

	return config, nil
}

// PrintHelp prints usage information to stdout.
func PrintHelp() {
	fmt.Fprint(os.Stdout, `chordforge - MIDI chord transformation engine

Usage:
  chordforge [options] <input.mid>

Options:
  --in <path>             path to the source Standard MIDI File
  --out <path>            path to write the re-encoded source Standard MIDI File
                          (chord transforms are not written into it)
  --dump <path>           path to write a chord analysis dump
  --tolerance <ticks>     segmenter tick tolerance (default 120)
  --log-level <level>     debug, info, warn, error (default info)
  --detect-key            run the key detector and print its result
  --progression           run the progression detector and print matches
  --transform <i>=<name>  rewrite chord i to the named target chord (repeatable)
  -h, --help              show this help

Environment Variables:
  CHORDFORGE_LOG_LEVEL        log level fallback
  CHORDFORGE_TICK_TOLERANCE   tick tolerance fallback

Examples:
  chordforge --dump chords.txt song.mid
  chordforge --detect-key --progression song.mid
  chordforge --out transposed.mid --tolerance 60 song.mid
  chordforge --transform 0=Am --transform 2=G7 --out out.mid song.mid
`)
}
