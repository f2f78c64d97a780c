// Package driver is the front end that turns source text into a running
// VM: scan/parse/compile/execute, with caret-underlined error reporting
// for whichever stage fails. Grounded on original_source/src/exe.rs's
// Executor (execute_file/execute_stdin/execute_text/execute_source, the
// print_err_line/print_err_message excerpt renderer, and the incremental
// "ignore this class of error" policy used by the REPL) and on
// _examples/rmay-nuxvm/cmd/luxc/main.go for the Go-side file-driven CLI
// shape.
package driver

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"ember/pkg/bytecode"
	"ember/pkg/compiler"
	"ember/pkg/parser"
	"ember/pkg/runtime"
	"ember/pkg/token"
	"ember/pkg/vm"
)

// Mode carries the CLI flags that change how a Driver reports and
// executes (SPEC_FULL.md §5).
type Mode struct {
	Debug       bool // log the VM's final state after a successful run
	Trace       bool // VM instruction-level trace logging
	Dis         bool // print disassembly before executing
	Incremental bool // REPL mode: some scan/parse/compile errors just mean "keep reading"
}

// Driver owns one VM and RuntimeContext across any number of
// ExecuteFile/ExecuteStdin/ExecuteText calls, so a REPL session's
// variables and constants persist between lines (spec.md §5).
type Driver struct {
	pool *runtime.ConstPool
	ctx  *runtime.RuntimeContext
	vm   *vm.VM

	mode     Mode
	log      *logrus.Entry
	logger   *logrus.Logger
	fileName string
}

func New(mode Mode, logger *logrus.Logger) *Driver {
	if logger == nil {
		logger = logrus.New()
	}
	pool := runtime.NewConstPool()
	ctx := runtime.NewRuntimeContext(pool)
	return &Driver{
		pool:     pool,
		ctx:      ctx,
		vm:       vm.New(ctx, logger, mode.Trace),
		mode:     mode,
		log:      logger.WithField("component", "driver"),
		logger:   logger,
		fileName: "<none>",
	}
}

// ExecuteFile reads and runs a file's contents.
func (d *Driver) ExecuteFile(path string) (vm.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return vm.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	d.fileName = path
	return d.executeSource(string(data))
}

// ExecuteStdin reads all of stdin and runs it as one module.
func (d *Driver) ExecuteStdin() (vm.Result, error) {
	d.fileName = "<stdin>"
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return vm.Result{}, err
	}
	return d.executeSource(string(data))
}

// ExecuteText runs text directly, as the REPL does for each line/buffer
// it reads. fileName is cosmetic, used only in error messages; an empty
// string becomes "<text>".
func (d *Driver) ExecuteText(text string, fileName string) (vm.Result, error) {
	if fileName == "" {
		fileName = "<text>"
	}
	d.fileName = fileName
	return d.executeSource(text)
}

// CompileFile reads path, compiles it, and prints its disassembly
// without executing it (the `ember compile` subcommand).
func (d *Driver) CompileFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	d.fileName = path
	chunk, compErr := d.compileSource(string(data))
	if compErr != nil {
		return compErr
	}
	d.disassemble(chunk)
	return nil
}

func (d *Driver) disassemble(chunk bytecode.Chunk) {
	fmt.Fprintf(os.Stderr, "%s\n", strings.Repeat("=", 20)+" INSTRUCTIONS "+strings.Repeat("=", 20))
	for i, inst := range chunk {
		fmt.Fprintf(os.Stderr, "%04d  %s\n", i, inst)
	}
}

func (d *Driver) compileSource(text string) (bytecode.Chunk, error) {
	p, err := parser.New(text)
	if err != nil {
		_, rerr := d.reportStageErr(text, err)
		return nil, rerr
	}

	program, err := p.ParseProgram()
	if err != nil {
		_, rerr := d.reportStageErr(text, err)
		return nil, rerr
	}

	chunk, err := compiler.CompileModule(program, d.pool, d.logger)
	if err != nil {
		_, rerr := d.reportStageErr(text, err)
		return nil, rerr
	}
	return chunk, nil
}

func (d *Driver) executeSource(text string) (vm.Result, error) {
	chunk, err := d.compileSource(text)
	if err != nil {
		return vm.Result{}, err
	}

	if d.mode.Dis {
		d.disassemble(chunk)
	}

	result, err := d.vm.Execute(chunk)
	if err != nil {
		d.printErrLine(text, token.Unknown)
		d.handleRuntimeErr(err)
		return result, err
	}

	if d.mode.Debug {
		d.log.Debugf("VM state: %+v", result)
	}
	return result, nil
}

// IsContinuable reports whether err belongs to the REPL's "keep reading,
// don't report yet" subset (spec.md §4.1/§7): an unterminated string, an
// unclosed bracket, or a statement that expects an indented block are all
// signs the user isn't done typing, not a real syntax error.
func IsContinuable(err error) bool {
	type continuabler interface{ Continuable() bool }
	if c, ok := err.(continuabler); ok {
		return c.Continuable()
	}
	return false
}

func (d *Driver) reportStageErr(text string, err error) (vm.Result, error) {
	if d.mode.Incremental && IsContinuable(err) {
		return vm.Result{}, err
	}
	loc := locationOf(err)
	d.printErrLine(text, loc)
	d.printErrMessage(err, loc)
	return vm.Result{}, err
}

// locationOf extracts a token.Location from whichever pipeline stage
// raised err. A parser.Err's Loc already reflects the underlying scan
// error's location (parser.New wraps it via wrapScanErr), so this needs
// no separate scanner.Err case.
func locationOf(err error) token.Location {
	switch e := err.(type) {
	case *parser.Err:
		return e.Loc
	case *compiler.Err:
		return e.Loc
	default:
		return token.Unknown
	}
}

func (d *Driver) printErrLine(text string, loc token.Location) {
	line := ""
	if loc.Line >= 1 {
		lines := strings.Split(text, "\n")
		if loc.Line <= len(lines) {
			line = strings.TrimRight(lines[loc.Line-1], "\r")
		}
	}
	fmt.Fprintf(os.Stderr, "\n  Error in %s on line %d:\n\n    |\n    |%s\n", d.fileName, loc.Line, line)
}

func (d *Driver) printErrMessage(err error, loc token.Location) {
	col := loc.Col
	if col > 0 {
		col--
	}
	fmt.Fprintf(os.Stderr, "    |%s^\n\n  %s\n", strings.Repeat(" ", col), err.Error())
}

func (d *Driver) handleRuntimeErr(err error) {
	fmt.Fprintf(os.Stderr, "    |\n\n  %s\n", err.Error())
}
