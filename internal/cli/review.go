package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aezell/crev/internal/analysis"
	"github.com/aezell/crev/internal/output"
	"github.com/aezell/crev/internal/session"
	"github.com/aezell/crev/internal/source"
)

type reviewOptions struct {
	name        string
	preview     bool
	noColor     bool
	printPrompt bool
	failUnder   int
}

func newReviewCmd() *cobra.Command {
	var opts reviewOptions
	cmd := &cobra.Command{
		Use:   "review <file|->",
		Short: "Review a source file and print a report",
		Long: `Analyze a single source file and print its scores and suggestions.
Pass "-" to read from stdin (use --name to set the filename, which picks the
language). A .diff or .patch describing exactly one file is reviewed as that
file's post-image.

Exit codes:
  0 - review completed
  1 - error
  2 - overall score below --fail-under`,
		Example: `  crev review main.go
  crev review --format markdown src/app.tsx
  git diff HEAD~1 -- util.py > change.patch && crev review change.patch
  cat script.sh | crev review - --name script.sh --fail-under 70`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringP("format", "f", "", "output format: text, json, markdown, html")
	cmd.Flags().String("delay", "", "analysis delay, e.g. 0 or 2s")
	cmd.Flags().StringVar(&opts.name, "name", "stdin.txt", "filename to use when reading from stdin")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "include the first lines of the file in the report")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable coloured output")
	cmd.Flags().BoolVar(&opts.printPrompt, "print-prompt", false, "print the review prompt for the file and exit")
	cmd.Flags().IntVar(&opts.failUnder, "fail-under", 0, "exit with code 2 when the overall score is below this value")
	return cmd
}

func runReview(cmd *cobra.Command, arg string, opts reviewOptions) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"format": changed(cmd, "format"),
		"delay":  changed(cmd, "delay"),
	})
	if err != nil {
		return err
	}
	delay, err := cfg.DelayDuration()
	if err != nil {
		return err
	}

	f, err := readSource(arg, opts.name, cmd.InOrStdin())
	if err != nil {
		return err
	}

	sess := session.New(analysis.NewHeuristic(delay))
	req := sess.Load(f)

	out := cmd.OutOrStdout()
	if opts.printPrompt {
		_, err := io.WriteString(out, analysis.BuildPrompt(req))
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt)
	defer stop()

	stopSpinner := startSpinner(fmt.Sprintf(" Analyzing %s", req.Filename), delay)
	rev, err := sess.Start(ctx)
	stopSpinner()
	if err != nil {
		return err
	}

	color := false
	if file, ok := out.(*os.File); ok {
		color = !opts.noColor && output.IsTerminal(file)
	}
	if err := output.Render(out, cfg.Output.Format, rev, output.Options{
		Color:   color,
		Preview: opts.preview,
	}); err != nil {
		return err
	}

	if cmd.Flags().Changed("fail-under") && rev.Report.Overall < opts.failUnder {
		return &exitError{
			code: ExitBelowScore,
			msg:  fmt.Sprintf("overall score %d is below %d", rev.Report.Overall, opts.failUnder),
		}
	}
	return nil
}

// readSource loads arg from disk, or stdin when arg is "-". Patches are reduced
// to the file they describe.
func readSource(arg, stdinName string, stdin io.Reader) (source.File, error) {
	var (
		f   source.File
		err error
	)
	if arg == "-" {
		f, err = source.FromReader(stdinName, stdin)
	} else {
		f, err = source.Read(arg)
	}
	if err != nil {
		return source.File{}, err
	}
	if source.IsPatch(f.Name) {
		return source.FromPatch(f.Content)
	}
	return f, nil
}

// startSpinner shows progress on stderr while an analysis runs. It is a no-op
// when stderr is not a terminal or there is no delay to wait out.
func startSpinner(suffix string, delay time.Duration) func() {
	if delay <= 0 || !isatty.IsTerminal(os.Stderr.Fd()) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Suffix = suffix
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}

// contextOrBackground guards against commands executed without a context.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
