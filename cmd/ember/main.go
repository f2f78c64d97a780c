// Command ember is the CLI front end for the language: run a file, read
// a script from stdin, evaluate a one-off expression, or start the REPL.
// Replaces the teacher's three separate flag-based mains (cmd/luxc,
// cmd/luxrepl, cmd/nux) with one spf13/cobra root command carrying
// subcommands and persistent debug/trace/disassembly flags, the way a
// single-binary CLI in this corpus is structured.
package main

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ember/internal/driver"
	"ember/internal/replio"
	"ember/pkg/vm"
)

var (
	debugFlag bool
	traceFlag bool
	disFlag   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ember",
		Short: "ember is a small dynamically-typed, expression-oriented scripting language",
		Long: heredoc.Doc(`
			ember compiles and runs programs written in the ember language:
			run a file, pipe a script over stdin, evaluate an expression
			inline, or start an interactive REPL.
		`),
	}

	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging, including the VM's final state after a run")
	root.PersistentFlags().BoolVar(&traceFlag, "trace", false, "log every VM instruction as it executes")
	root.PersistentFlags().BoolVar(&disFlag, "dis", false, "print chunk disassembly before executing")

	root.AddCommand(newRunCmd(), newReplCmd(), newEvalCmd(), newCompileCmd())
	return root
}

func mode() driver.Mode {
	return driver.Mode{Debug: debugFlag, Trace: traceFlag, Dis: disFlag}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	if debugFlag || traceFlag {
		log.SetLevel(logrus.TraceLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// newRunCmd handles both the common single-file/stdin case and a batch
// of files (`ember run a.em b.em c.em`): each file gets its own Driver
// (and so its own fresh RuntimeContext) and every failure is attempted
// and collected rather than stopping at the first one, via
// hashicorp/go-multierror (SPEC_FULL.md §1's error-aggregation concern).
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file...]",
		Short: "Run one or more program files, or stdin if none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			if len(args) == 0 {
				d := driver.New(mode(), logger)
				result, err := d.ExecuteStdin()
				if err != nil {
					return err
				}
				exitIfHalted(result)
				return nil
			}

			var errs *multierror.Error
			lastResult := vm.Result{}
			for _, file := range args {
				d := driver.New(mode(), logger)
				result, err := d.ExecuteFile(file)
				if err != nil {
					errs = multierror.Append(errs, fmt.Errorf("%s: %w", file, err))
					continue
				}
				lastResult = result
			}
			if errs != nil {
				return errs.ErrorOrNil()
			}
			exitIfHalted(lastResult)
			return nil
		},
	}
}

func exitIfHalted(result vm.Result) {
	if result.State == vm.StateHalted && result.Code != 0 {
		os.Exit(result.Code)
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive read/eval/print loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := replio.New(mode(), newLogger())
			if err != nil {
				return err
			}
			os.Exit(r.Run())
			return nil
		},
	}
}

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <text>",
		Short: "Compile and execute a single line of source text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := driver.New(mode(), newLogger())
			_, err := d.ExecuteText(args[0], "<eval>")
			return err
		},
	}
}

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a file and print its disassembly without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := driver.New(mode(), newLogger())
			return d.CompileFile(args[0])
		},
	}
}
