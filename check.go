package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"codestop/stopper"
)

// errRejected makes `codestop check` exit 1 without printing an error.
var errRejected = errors.New("lines rejected")

// Finding is one rejected line.
type Finding struct {
	Path    string
	Line    int
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.Path, f.Line, f.Message)
}

// fileReport is the outcome of checking one file.
type fileReport struct {
	Path     string
	Language stopper.Language
	Findings []Finding
	Skipped  bool
}

// checkReader validates every line from r as lang.
func checkReader(path string, r io.Reader, lang stopper.Language) ([]Finding, error) {
	var findings []Finding
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		if v := stopper.Validate(sc.Text(), lang); !v.Valid {
			findings = append(findings, Finding{Path: path, Line: n, Message: v.Message})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return findings, nil
}

// checkFiles checks paths concurrently and returns reports in input order.
// lang overrides extension detection unless it is LangUnknown.
func checkFiles(ctx context.Context, paths []string, lang stopper.Language, logger *slog.Logger) ([]fileReport, error) {
	reports := make([]fileReport, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l := lang
			if l == stopper.LangUnknown {
				l = detectStopperLanguage(path)
			}
			report := fileReport{Path: path, Language: l}
			if _, ok := stopper.RuleSetFor(l); !ok {
				logger.Debug("no rule set, skipping", "path", path)
				report.Skipped = true
				reports[i] = report
				return nil
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			findings, err := checkReader(path, f, l)
			if err != nil {
				return err
			}
			report.Findings = findings
			reports[i] = report
			logger.Debug("file checked", "path", path, "language", l.String(), "rejected", len(findings))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	var langFlag string
	cmd := &cobra.Command{
		Use:   "check [--lang LANG] FILE...",
		Short: "Validate every line of the given files like the editor's Enter key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := stopper.LangUnknown
			if langFlag != "" {
				l, ok := stopper.ParseLanguage(langFlag)
				if !ok {
					return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, langFlag)
				}
				lang = l
			}
			logger := newLogger(cmd.ErrOrStderr(), opts.logLevel)

			reports, err := checkFiles(cmd.Context(), args, lang, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rejected := 0
			for _, r := range reports {
				if r.Skipped {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: skipped, unknown language\n", r.Path)
					continue
				}
				for _, f := range r.Findings {
					fmt.Fprintln(out, f.String())
					rejected++
				}
			}
			if rejected > 0 {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&langFlag, "lang", "", "language for all files (python, javascript, typescript, java, cpp, c, go, rust)")
	return cmd
}
