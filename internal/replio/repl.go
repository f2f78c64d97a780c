// Package replio implements the interactive read/eval/print loop for
// ember: readline-backed input with history, buffering unterminated
// input across lines, and "don't report this yet" error handling.
// Grounded on original_source/src/repl.rs's Runner (rustyline-driven
// read_line/eval, the continuation loop on an unterminated string, the
// `.exit`/`.halt`/`.quit` sentinel commands, and the default-history-path
// convention) and on _examples/rmay-nuxvm/cmd/luxrepl/main.go for the
// Go-side loop/banner shape, swapping its bufio.Scanner for
// github.com/chzyer/readline (the pack's own readline library) since
// ember's REPL needs real line editing and persistent history, not a
// bare Forth-word prompt.
package replio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"

	"ember/internal/driver"
	"ember/pkg/vm"
)

const banner = `ember REPL
Type a line of code, then hit Enter to evaluate it.
Type .exit or .quit to exit.
`

// Runner drives one REPL session: a readline instance for input and a
// Driver that owns the VM/RuntimeContext across every line evaluated, so
// declarations made on one line are visible on the next (spec.md §5).
type Runner struct {
	rl     *readline.Instance
	drv    *driver.Driver
	log    *logrus.Entry
	prompt string
}

// New builds a Runner with history saved to the default path
// (~/.ember_history, falling back to ./.ember_history if the home
// directory can't be located).
func New(mode driver.Mode, logger *logrus.Logger) (*Runner, error) {
	if logger == nil {
		logger = logrus.New()
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ember> ",
		HistoryFile:     defaultHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "^D",
	})
	if err != nil {
		return nil, fmt.Errorf("could not start readline: %w", err)
	}
	mode.Incremental = true
	return &Runner{
		rl:     rl,
		drv:    driver.New(mode, logger),
		log:    logger.WithField("component", "repl"),
		prompt: "ember> ",
	}, nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".ember_history"
	}
	return filepath.Join(home, ".ember_history")
}

// Run reads and evaluates lines until the user exits, Ctrl-D/Ctrl-C is
// pressed, or a halting instruction runs. Returns the exit code the
// halting instruction produced, 0 on a clean interactive exit, or 1 when
// reading a line fails.
func (r *Runner) Run() int {
	fmt.Print(banner)
	defer r.rl.Close()

	for {
		line, err := r.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return 0
			}
			continue
		case errors.Is(err, io.EOF):
			return 0
		case err != nil:
			fmt.Fprintf(os.Stderr, "could not read line: %v\n", err)
			return 1
		}

		switch line {
		case "", " ":
			continue
		case ".exit", ".halt", ".quit":
			return 0
		}

		code, halted := r.eval(line)
		if halted {
			return code
		}
	}
}

// eval runs one line (buffering continuation lines for an unterminated
// string or an indented-block header, per driver.IsContinuable) and
// reports whether the VM halted — in which case the REPL itself exits.
func (r *Runner) eval(line string) (code int, halted bool) {
	source := line
	for {
		result, err := r.drv.ExecuteText(source, "<repl>")
		if err == nil {
			if result.State == vm.StateHalted {
				return result.Code, true
			}
			return 0, false
		}
		if !driver.IsContinuable(err) {
			return 0, false
		}
		r.rl.SetPrompt("... ")
		more, rerr := r.rl.Readline()
		r.rl.SetPrompt(r.prompt)
		if rerr != nil {
			return 0, false
		}
		source += "\n" + more
	}
}
