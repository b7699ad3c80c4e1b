// Command mjs-conformance is the teacher's cmd/run262 retargeted from
// "does this testcase match test262's pass/fail metadata" to "does this
// scenario's last completion value match its declared expectation" —
// the spec.md §8 worked-scenario contract rather than test262 conformance.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robertkrimen/otto/parser"
	yaml "gopkg.in/yaml.v3"

	"github.com/ezhangle/mjs"
	"github.com/ezhangle/mjs/builtins"
)

var scenarioDir = flag.String("scenarios", "testdata/scenarios", "directory of *.js scenario files")

func main() {
	flag.Parse()

	entries, err := os.ReadDir(*scenarioDir)
	if err != nil {
		log.Fatalf("reading scenario directory %s: %s", *scenarioDir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".js") {
			paths = append(paths, filepath.Join(*scenarioDir, e.Name()))
		}
	}
	sort.Strings(paths)

	result := runMany(paths)

	var successes, failures []CaseOutcome
	for _, co := range result.Cases {
		if co.Success {
			successes = append(successes, co)
		} else {
			failures = append(failures, co)
		}
	}

	fmt.Printf("group SUCCESSES %d\n", len(successes))
	for _, co := range successes {
		fmt.Printf("case\t%s\n", co.Path)
	}

	fmt.Printf("group FAILURES %d\n", len(failures))
	for _, co := range failures {
		fmt.Printf("case\t%s\n", co.Path)
		if co.Error != nil {
			for _, line := range strings.Split(co.Error.Error(), "\n") {
				fmt.Printf("error\t\t%s\n", line)
			}
		} else {
			fmt.Printf("error\t\tgot %q, want %q\n", co.Got, co.Want)
		}
	}

	fmt.Printf("summary\ttotal: %d; %d successes; %d failures\n", len(result.Cases), len(successes), len(failures))

	if len(failures) > 0 {
		os.Exit(1)
	}
}

// CaseOutcome mirrors the teacher's CaseOutcome shape, with StrictMode
// dropped (this dialect has no strict mode, per spec.md's Non-goals)
// and Got/Want added so a mismatch is reported without needing an error.
type CaseOutcome struct {
	Path    string
	Success bool
	Got     string
	Want    string
	Error   error
}

type RunManyResult struct {
	Cases []CaseOutcome
}

// runMany keeps the teacher's goroutine-per-case fan-out with a
// collector channel; each scenario is independent so there is nothing
// to synchronize beyond gathering the results.
func runMany(paths []string) (result RunManyResult) {
	sink := make(chan CaseOutcome)
	for _, p := range paths {
		go func(p string) {
			sink <- runScenario(p)
		}(p)
	}
	result.Cases = make([]CaseOutcome, 0, len(paths))
	for range paths {
		result.Cases = append(result.Cases, <-sink)
	}
	sort.Slice(result.Cases, func(i, j int) bool { return result.Cases[i].Path < result.Cases[j].Path })
	return
}

// scenarioMetadata is the "/*--- expect: ... ---*/" front-matter
// SPEC_FULL.md §8 names, parsed the same way the teacher's parseMetadata
// pulls YAML out of a leading block comment.
type scenarioMetadata struct {
	Expect string `yaml:"expect"`
}

func runScenario(p string) CaseOutcome {
	text, err := os.ReadFile(p)
	if err != nil {
		return CaseOutcome{Path: p, Error: fmt.Errorf("reading scenario: %w", err)}
	}

	meta, err := parseMetadata(text)
	if err != nil {
		return CaseOutcome{Path: p, Error: fmt.Errorf("parsing metadata: %w", err)}
	}

	program, err := parser.ParseFile(nil, p, string(text), 0)
	if err != nil {
		return CaseOutcome{Path: p, Error: fmt.Errorf("parse error: %w", err)}
	}

	interp := mjs.NewInterpreter()
	builtins.Install(interp, builtins.Options{})

	completion, err := interp.Run(program)
	if err != nil {
		return CaseOutcome{Path: p, Error: fmt.Errorf("eval error: %w", err)}
	}

	got := completion.Value.String()
	return CaseOutcome{
		Path:    p,
		Success: got == meta.Expect,
		Got:     got,
		Want:    meta.Expect,
	}
}

// parseMetadata is the teacher's block-comment-then-YAML approach,
// narrowed from test262's Flags/Includes/Negative shape to this
// dialect's single "expect" field.
func parseMetadata(text []byte) (meta scenarioMetadata, err error) {
	startNdx := bytes.Index(text, []byte("/*---"))
	if startNdx == -1 {
		err = fmt.Errorf("missing /*--- expect: ... ---*/ metadata comment")
		return
	}
	relEnd := bytes.Index(text[startNdx:], []byte("---*/"))
	if relEnd == -1 {
		err = fmt.Errorf("unterminated metadata comment starting at offset %d", startNdx)
		return
	}
	endNdx := startNdx + relEnd

	err = yaml.Unmarshal(text[startNdx+5:endNdx], &meta)
	return
}
