// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/pdiddy/resconv/internal/convert"
	"github.com/pdiddy/resconv/internal/history"
	"github.com/pdiddy/resconv/internal/route"
	"github.com/pdiddy/resconv/internal/source"
	"github.com/pdiddy/resconv/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [input]",
	Short: "Convert a resume between DOCX and PDF",
	Long: `Convert a single resume file. A .docx input becomes a PDF and a .pdf input
becomes a DOCX. The output lands at --output (its extension is corrected to the
target format) or at the configured default name in the current directory.

Without an input argument, --prompt asks for the file path interactively.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	Annotations:  map[string]string{annotationNeedsOffice: "true"},
	RunE:         runConvert,
}

// droppedFlags holds unknown flags removed from the convert command line
// before cobra parses it.
var droppedFlags []string

func init() {
	defineConvertFlags(convertCmd.Flags())
	rootCmd.AddCommand(convertCmd)
}

func defineConvertFlags(fs *pflag.FlagSet) {
	fs.StringP("output", "o", "", "output file path")
	fs.String("to", "", "target format (pdf or docx); must be the opposite of the input")
	fs.Bool("prompt", false, "ask for the input file interactively")
}

// convertArgs removes unknown flags from argv when it invokes the convert
// command. Other commands keep strict flag parsing.
func convertArgs(root *cobra.Command, argv []string) (kept, dropped []string) {
	cmd, _, err := root.Find(argv)
	if err != nil || cmd != convertCmd {
		return argv, nil
	}
	cmd.InitDefaultHelpFlag()
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.AddFlagSet(cmd.LocalFlags())
	fs.AddFlagSet(cmd.InheritedFlags())
	return splitUnknownFlags(fs, argv)
}

// splitUnknownFlags separates tokens naming flags absent from fs. An unknown
// flag is dropped on its own and never takes the next token as its value,
// so "--verbose resume.pdf" keeps resume.pdf as an argument. Everything
// after "--" is kept as is.
func splitUnknownFlags(fs *pflag.FlagSet, argv []string) (kept, dropped []string) {
	kept = make([]string, 0, len(argv))
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		switch {
		case tok == "--":
			return append(kept, argv[i:]...), dropped
		case tok == "-" || !strings.HasPrefix(tok, "-"):
			kept = append(kept, tok)
			continue
		}

		var f *pflag.Flag
		inline := false
		if strings.HasPrefix(tok, "--") {
			name, _, hasValue := strings.Cut(tok[2:], "=")
			f = fs.Lookup(name)
			inline = hasValue
		} else {
			f = fs.ShorthandLookup(tok[1:2])
			inline = len(tok) > 2
		}
		if f == nil {
			dropped = append(dropped, tok)
			continue
		}

		kept = append(kept, tok)
		if !inline && f.NoOptDefVal == "" && i+1 < len(argv) {
			i++
			kept = append(kept, argv[i])
		}
	}
	return kept, dropped
}

// conversionRunner is the part of the orchestrator the convert command uses.
type conversionRunner interface {
	Convert(ctx context.Context, req types.ConversionRequest) (convert.Outcome, error)
}

// historyRecorder receives one entry per attempted conversion.
type historyRecorder interface {
	Record(ctx context.Context, e history.Entry) (int64, error)
}

// convertJob is one CLI conversion with its collaborators resolved.
type convertJob struct {
	source source.Source
	route  route.Options
	conv   conversionRunner
	hist   historyRecorder
	out    io.Writer
	log    *zap.Logger
}

func runConvert(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	to, _ := cmd.Flags().GetString("to")
	prompt, _ := cmd.Flags().GetBool("prompt")

	ignored := append([]string(nil), droppedFlags...)
	if len(args) > 1 {
		ignored = append(ignored, args[1:]...)
	}
	if len(ignored) > 0 {
		log.Warn("ignoring extra args", zap.Strings("args", ignored))
	}

	job := convertJob{
		source: pickSource(args, prompt),
		route: route.Options{
			To:          to,
			Output:      output,
			DefaultName: cfg.Convert.DefaultName,
		},
		conv: convert.New(convert.Options{Office: officeOptions(), Logger: log}),
		out:  cmd.OutOrStdout(),
		log:  log,
	}

	hist, err := openHistory()
	if err != nil {
		log.Warn("history disabled", zap.Error(err))
	}
	if hist != nil {
		defer hist.Close()
		job.hist = hist
	}

	return job.run(cmd.Context())
}

// pickSource selects where the input comes from. A positional path wins over
// --prompt; with neither, the empty CLI path reports NoUploadProvided.
func pickSource(args []string, prompt bool) source.Source {
	switch {
	case len(args) > 0:
		return source.CLIPath{Path: args[0]}
	case prompt:
		return source.InteractivePrompt{}
	default:
		return source.CLIPath{}
	}
}

func (j convertJob) run(ctx context.Context) error {
	path, err := j.source.Fetch(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(j.out, "Using source file: %s\n", path)

	req, err := route.Resolve(path, j.route)
	if err != nil {
		return err
	}

	outcome, err := j.conv.Convert(ctx, req)
	j.record(ctx, req, outcome, err)
	if err != nil {
		return err
	}

	if n := outcome.Fallbacks(); n > 0 {
		j.log.Info("conversion used fallback",
			zap.String("tier", outcome.Tier),
			zap.Int("failed_tiers", n))
	}
	fmt.Fprintf(j.out, "Saved to %s\n", req.DestinationPath)
	return nil
}

func (j convertJob) record(ctx context.Context, req types.ConversionRequest, outcome convert.Outcome, err error) {
	if j.hist == nil {
		return
	}
	if _, herr := j.hist.Record(ctx, history.NewEntry(req, outcome.Tier, outcome.Duration, err)); herr != nil {
		j.log.Warn("failed to record history", zap.Error(herr))
	}
}
