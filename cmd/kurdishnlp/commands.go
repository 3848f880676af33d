package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	kurdishnlp "github.com/baditaflorin/go_kurdish_nlp"
	"github.com/baditaflorin/go_kurdish_nlp/pkg/streaming"
	"github.com/baditaflorin/l"
	"github.com/spf13/cobra"
)

// cli holds the flags shared by every subcommand
type cli struct {
	file         string
	output       string
	latinStemmer string
	fast         bool
	stream       bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "kurdishnlp",
		Short: "Sorani Kurdish text processing",
		Long: "Normalizes, tokenizes, sentence-splits and stems Sorani Kurdish text.\n" +
			"Input is read from --file, from the arguments, or from stdin.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.output != "text" && c.output != "json" {
				return fmt.Errorf("unsupported output format %q: use 'text' or 'json'", c.output)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.file, "file", "f", "", "Path to the input text file")
	pf.StringVarP(&c.output, "output", "o", "text", "Output format: 'text' or 'json'")
	pf.BoolVar(&c.fast, "fast", false, "Use the allocation-efficient normalizer")
	pf.StringVar(&c.latinStemmer, "latin-stemmer", "", "Snowball language for Latin-script words, e.g. 'english'")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Log processing steps to stderr")

	tokenize := &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Print the words of the input, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.stream {
				return c.runStream(cmd, args, streaming.TokenByToken, "tokens")
			}
			return c.withText(cmd, args, func(p *kurdishnlp.Pipeline, text string) error {
				return c.writeItems(cmd, "tokens", p.Tokenize(text))
			})
		},
	}

	sentences := &cobra.Command{
		Use:   "sentences [text...]",
		Short: "Print the sentences of the input, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.stream {
				return c.runStream(cmd, args, streaming.SentenceBySentence, "sentences")
			}
			return c.withText(cmd, args, func(p *kurdishnlp.Pipeline, text string) error {
				return c.writeItems(cmd, "sentences", p.SentenceTokenize(text))
			})
		},
	}

	stem := &cobra.Command{
		Use:   "stem [text...]",
		Short: "Print the stem of every word of the input, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.stream {
				return c.runStream(cmd, args, streaming.StemByStem, "stems")
			}
			return c.withText(cmd, args, func(p *kurdishnlp.Pipeline, text string) error {
				return c.writeItems(cmd, "stems", p.StemAll(p.Tokenize(text)))
			})
		},
	}

	for _, cmd := range []*cobra.Command{tokenize, sentences, stem} {
		cmd.Flags().BoolVar(&c.stream, "stream", false, "Process the input line by line without loading it whole")
	}

	normalize := &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Print the input in canonical Sorani form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withText(cmd, args, func(p *kurdishnlp.Pipeline, text string) error {
				normalized := p.Normalize(text)
				if c.output == "json" {
					return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
						"normalized": normalized,
						"changed":    normalized != text,
					})
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), normalized)
				return err
			})
		},
	}

	analyze := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Run the whole pipeline and print the analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withText(cmd, args, func(p *kurdishnlp.Pipeline, text string) error {
				res, err := p.Analyze(cmd.Context(), text)
				if err != nil {
					return err
				}
				if c.output == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				return writeAnalysis(cmd.OutOrStdout(), res)
			})
		},
	}

	root.AddCommand(normalize, tokenize, sentences, stem, analyze)
	return root
}

func (c *cli) newLogger(cmd *cobra.Command) (l.Logger, error) {
	output := io.Discard
	if c.verbose {
		output = cmd.ErrOrStderr()
	}
	return l.NewStandardFactory().CreateLogger(l.Config{Output: output})
}

// withText reads the whole input and runs fn with a configured pipeline.
func (c *cli) withText(cmd *cobra.Command, args []string, fn func(*kurdishnlp.Pipeline, string) error) error {
	text, err := c.readInput(cmd, args)
	if err != nil {
		return err
	}

	lg, err := c.newLogger(cmd)
	if err != nil {
		return err
	}
	defer lg.Close()

	opts := []kurdishnlp.Option{kurdishnlp.WithLogger(lg)}
	if c.fast {
		opts = append(opts, kurdishnlp.WithFastNormalizer())
	}
	if c.latinStemmer != "" {
		opts = append(opts, kurdishnlp.WithLatinStemmer(c.latinStemmer))
	}
	p, err := kurdishnlp.New(opts...)
	if err != nil {
		return err
	}
	defer p.Close()

	return fn(p, text)
}

func (c *cli) runStream(cmd *cobra.Command, args []string, mode streaming.StreamingMode, key string) error {
	reader, closeInput, err := c.openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeInput()

	lg, err := c.newLogger(cmd)
	if err != nil {
		return err
	}
	defer lg.Close()

	opts := []streaming.StreamingOption{streaming.WithStreamingLogger(lg)}
	if c.fast {
		opts = append(opts, streaming.WithFastNormalizer())
	}
	if c.latinStemmer != "" {
		opts = append(opts, streaming.WithLatinStemmer(c.latinStemmer))
	}
	s, err := streaming.NewStreamer(opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	if c.output == "json" {
		items := []string{}
		if _, err := s.ProcessStream(cmd.Context(), reader, mode, func(item string) error {
			items = append(items, item)
			return nil
		}); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{key: items, "count": len(items)})
	}

	_, err = s.ProcessStreamWithWriter(cmd.Context(), reader, cmd.OutOrStdout(), mode)
	return err
}

func (c *cli) readInput(cmd *cobra.Command, args []string) (string, error) {
	reader, closeInput, err := c.openInput(cmd, args)
	if err != nil {
		return "", err
	}
	defer closeInput()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

func (c *cli) openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	switch {
	case c.file != "" && len(args) > 0:
		return nil, nil, errors.New("use either --file or text arguments, not both")
	case c.file != "":
		f, err := os.Open(c.file)
		if err != nil {
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		return f, func() { f.Close() }, nil
	case len(args) > 0:
		return strings.NewReader(strings.Join(args, " ")), func() {}, nil
	default:
		return cmd.InOrStdin(), func() {}, nil
	}
}

func (c *cli) writeItems(cmd *cobra.Command, key string, items []string) error {
	if c.output == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{key: items, "count": len(items)})
	}
	for _, item := range items {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), item); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeAnalysis(w io.Writer, res kurdishnlp.Analysis) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Normalized: %s\n", res.Normalized)
	fmt.Fprintf(&sb, "Tokens (%d):\n", res.TokenCount)
	for i, word := range res.Words {
		fmt.Fprintf(&sb, "  %d\t%s\t%s\n", i, word, res.Stems[i])
	}
	fmt.Fprintf(&sb, "Sentences (%d):\n", res.SentenceCount)
	for _, sentence := range res.Sentences {
		fmt.Fprintf(&sb, "  %s\n", sentence)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
