// Command mjs is the thin CLI collaborator SPEC_FULL.md §7 names: it
// wires the core evaluator and the builtins package together and does
// nothing the core itself couldn't already do, matching spec.md §1's
// line between the evaluator and CLI packaging.
package main

import (
	"fmt"
	"os"

	"github.com/dnephin/pflag"
	"github.com/lmorg/readline"
	"github.com/robertkrimen/otto/parser"
	"github.com/rs/zerolog"
	yaml "gopkg.in/yaml.v3"

	"github.com/ezhangle/mjs"
	"github.com/ezhangle/mjs/builtins"
)

// config is the optional run configuration SPEC_FULL.md §3.3 names,
// mirroring the shape the teacher's cmd/run262 already decodes out of
// testConfig.json/test-case front-matter with the same YAML library.
type config struct {
	MaxCallDepth int      `yaml:"maxCallDepth"`
	Disable      []string `yaml:"disableBuiltins"`
}

func main() {
	verbose := pflag.BoolP("verbose", "v", false, "log interpreter trace events to stderr")
	configPath := pflag.StringP("config", "c", "", "path to a YAML run configuration file")
	pflag.Parse()

	var cfg config
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			fmt.Fprintln(os.Stderr, "mjs:", err)
			os.Exit(1)
		}
	}

	var logger zerolog.Logger
	if *verbose {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		logger = zerolog.Nop()
	}

	args := pflag.Args()
	if len(args) == 0 {
		runRepl(logger, cfg)
		return
	}

	switch args[0] {
	case "repl":
		runRepl(logger, cfg)
	case "run":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: mjs run <file.js>")
			os.Exit(2)
		}
		runFile(args[1], logger, cfg)
	default:
		runFile(args[0], logger, cfg)
	}
}

func loadConfig(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func newInterpreter(logger zerolog.Logger, cfg config) *mjs.Interpreter {
	interp := mjs.NewInterpreter()
	interp.SetLogger(logger)
	if cfg.MaxCallDepth > 0 {
		interp.SetMaxCallDepth(cfg.MaxCallDepth)
	}
	builtins.Install(interp, builtins.Options{Alert: os.Stdout, Logger: &logger, Disable: cfg.Disable})
	return interp
}

// runFile implements "mjs run <file.js>": evaluate the script and print
// the completion value of its last top-level statement, the observable
// result spec.md §2 describes.
func runFile(path string, logger zerolog.Logger, cfg config) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mjs:", err)
		os.Exit(1)
	}

	program, err := parser.ParseFile(nil, path, string(source), 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mjs: parse error:", err)
		os.Exit(1)
	}

	interp := newInterpreter(logger, cfg)
	completion, err := interp.Run(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mjs:", err)
		os.Exit(1)
	}
	fmt.Println(completion.Value.String())
}

// runRepl implements "mjs repl": an interactive loop over
// github.com/lmorg/readline that echoes each statement's completion
// value, the teacher's habit (modeledjs.go's printer and cmd/run262)
// of treating top-level evaluation as observable, carried into a real
// interactive surface.
func runRepl(logger zerolog.Logger, cfg config) {
	interp := newInterpreter(logger, cfg)
	interp.OnStatementExecuted(func(c mjs.Completion) {
		fmt.Println(c.Value.String())
	})

	rline := readline.NewInstance()
	rline.SetPrompt("mjs> ")
	for {
		line, err := rline.Readline()
		if err != nil {
			return
		}
		if line == "" {
			continue
		}

		program, err := parser.ParseFile(nil, "<repl>", line, 0)
		if err != nil {
			fmt.Fprintln(os.Stderr, "parse error:", err)
			continue
		}
		if _, err := interp.Run(program); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
