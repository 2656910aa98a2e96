// Package cmd provides the bibtidy command line.
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/drgo/bibtidy"
	"github.com/drgo/bibtidy/internal/config"
	"github.com/drgo/bibtidy/internal/inplace"
	"github.com/drgo/bibtidy/internal/input"
	"github.com/drgo/bibtidy/internal/logger"
)

// Version is set at build time with -ldflags.
var Version = "devel"

// app carries what the commands share. Flags, BIBTIDY_* environment
// variables and the config file are merged by v, in that order of
// precedence.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
}

// Execute runs the bibtidy command.
func Execute() error {
	return NewRootCmd(os.Stdin, os.Stdout).Execute()
}

// NewRootCmd builds the command tree reading from stdin and writing
// formatted output to stdout.
func NewRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdin: stdin, stdout: stdout}

	root := &cobra.Command{
		Use:   "bibtidy [files...]",
		Short: "Format BibTeX files",
		Long: `bibtidy parses BibTeX files and rewrites them in a canonical form: entries
sorted newest first, fields in a fixed order, values consistently delimited.

Files are rewritten in place; the original is kept with a backup suffix.
Unchanged files are not touched. With no arguments, or "-", bibtidy reads
standard input and writes to standard output. Arguments may be globs,
including **.`,
		Args:              cobra.ArbitraryArgs,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runFormat,
	}
	root.SetOut(stdout)

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default: ./"+config.FileName+" or the user config)")
	pf.BoolP("quiet", "q", false, "Only report errors")
	pf.Bool("no-color", false, "Disable coloured output")
	pf.Bool("warn-macros", false, "Warn about undefined macros")
	pf.IntP("jobs", "j", 0, "Number of files processed at once (default from config)")

	f := root.Flags()
	f.BoolP("stdout", "c", false, "Write formatted output to stdout instead of rewriting files")
	f.Bool("check", false, "Report files that are not formatted and fail; change nothing")
	f.StringP("sort", "s", "", "Entry order: date, type or none (default from config)")
	f.String("backup-suffix", "", "Suffix of the backup kept for rewritten files (default from config)")
	f.StringP("output", "o", "", "Write the formatted single input to this file")

	root.AddCommand(a.dupsCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix("BIBTIDY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cfg, err := config.LoadOrDefault(a.v.GetString("config"), ".")
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.v.SetDefault("sort", cfg.Sort)
	a.v.SetDefault("backup-suffix", cfg.BackupSuffix)
	a.v.SetDefault("warn-macros", cfg.WarnMacros)
	a.v.SetDefault("jobs", cfg.Jobs)

	logger.SetQuiet(a.v.GetBool("quiet"))
	if a.v.GetBool("no-color") {
		logger.SetColor(false)
	}
	return nil
}

// parseOptions are the library options for every input of this run.
func (a *app) parseOptions() bibtidy.Options {
	macros := maps.Clone(bibtidy.DefaultMacros)
	maps.Copy(macros, a.cfg.Macros)
	return bibtidy.Options{
		Macros:     macros,
		WarnMacros: a.v.GetBool("warn-macros"),
		Warn: func(w bibtidy.Warning) {
			logger.Warn("%s", w)
		},
	}
}

func (a *app) jobs() int {
	if n := a.v.GetInt("jobs"); n > 0 {
		return n
	}
	return 1
}

// result is the outcome for one input.
type result struct {
	src  input.Source
	orig []byte
	doc  *bibtidy.Document
	out  []byte // formatted text still to be written to stdout
	err  error
}

// forEach runs fn on every source, a bounded number at a time. A failing
// source does not stop the others.
func (a *app) forEach(srcs []input.Source, fn func(*result)) []result {
	results := make([]result, len(srcs))
	var g errgroup.Group
	g.SetLimit(a.jobs())
	for i, src := range srcs {
		g.Go(func() error {
			results[i].src = src
			fn(&results[i])
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// load reads and parses r.src. Line endings are normalized; r.orig keeps
// the bytes as read.
func (a *app) load(r *result, opts bibtidy.Options) {
	if r.src.Err != nil {
		r.err = r.src.Err
		return
	}
	data, err := r.src.Read(a.stdin)
	if err != nil {
		r.err = fmt.Errorf("unable to read %s: %w", r.src.Name, err)
		return
	}
	r.orig = data
	name := r.src.Name
	if r.src.IsStdin() {
		name = "<stdin>"
	}
	r.doc, r.err = bibtidy.ParseString(string(bibtidy.NormalizeNewlines(data)), name, opts)
}

// report logs the failed results and returns an error counting them.
func report(results []result) error {
	failed := 0
	for _, r := range results {
		if r.err != nil {
			logger.Error("%v", r.err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

func (a *app) runFormat(cmd *cobra.Command, args []string) error {
	order, err := bibtidy.ParseSortOrder(a.v.GetString("sort"))
	if err != nil {
		return err
	}
	srcs := input.Sources(args)
	toStdout := a.v.GetBool("stdout")
	check := a.v.GetBool("check")
	output := a.v.GetString("output")
	if output != "" && len(srcs) != 1 {
		return fmt.Errorf("--output needs exactly one input, got %d", len(srcs))
	}
	suffix := a.v.GetString("backup-suffix")
	opts := a.parseOptions()

	var untidy []string
	results := a.forEach(srcs, func(r *result) {
		a.load(r, opts)
		if r.err != nil {
			return
		}
		sorted, err := bibtidy.Sort(r.doc, order)
		if err != nil {
			r.err = err
			return
		}
		var buf bytes.Buffer
		if err := bibtidy.Format(&buf, sorted); err != nil {
			r.err = err
			return
		}
		out := buf.Bytes()

		switch {
		case check:
			if !bytes.Equal(out, r.orig) {
				r.out = out
			}
		case output != "":
			r.err = bibtidy.SaveWith(output, func(w io.Writer) error {
				_, err := w.Write(out)
				return err
			})
		case toStdout || r.src.IsStdin():
			r.out = out
		default:
			changed, err := inplace.Replace(r.src.Name, out, r.src.Perm, suffix)
			if err != nil {
				r.err = fmt.Errorf("unable to rewrite %s: %w", r.src.Name, err)
				return
			}
			if changed {
				logger.Info("reformatted %s", r.src.Name)
			}
		}
	})

	// stdout output is written in argument order once everything is done
	for _, r := range results {
		if r.err != nil || r.out == nil {
			continue
		}
		if check {
			untidy = append(untidy, r.src.Name)
			logger.Info("%s is not formatted", r.src.Name)
			continue
		}
		if _, err := a.stdout.Write(r.out); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
	}
	if err := report(results); err != nil {
		return err
	}
	if len(untidy) > 0 {
		return fmt.Errorf("%d of %d inputs are not formatted", len(untidy), len(results))
	}
	return nil
}
