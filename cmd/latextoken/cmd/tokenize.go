package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/cwbudde/go-latexnodes/pkg/parsingstate"
	"github.com/cwbudde/go-latexnodes/pkg/tokenreader"
	"github.com/spf13/cobra"
)

var (
	evalExpr       string
	noComments     bool
	noEnvironments bool
	noParagraphs   bool
	showPos        bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Tokenize a LaTeX file or expression",
	Long: `Tokenize a LaTeX document and print the resulting token stream.

Examples:
  # Tokenize a file
  latextoken tokenize document.tex

  # Tokenize an inline expression
  latextoken tokenize -e '\textbf{Hello} world'

  # Disable environment and comment recognition
  latextoken tokenize --no-environments --no-comments document.tex`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)

	tokenizeCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline source instead of reading from file")
	tokenizeCmd.Flags().BoolVar(&noComments, "no-comments", false, "disable '%' comment recognition")
	tokenizeCmd.Flags().BoolVar(&noEnvironments, "no-environments", false, "disable \\begin/\\end environment recognition")
	tokenizeCmd.Flags().BoolVar(&noParagraphs, "no-paragraphs", false, "disable blank-line paragraph break splitting")
	tokenizeCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	var source string

	switch {
	case evalExpr != "":
		source = evalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		source = string(content)
	default:
		return errors.New("either provide a file path or use -e for inline source")
	}

	state := parsingstate.New(
		source,
		parsingstate.WithEnableComments(!noComments),
		parsingstate.WithEnableEnvironments(!noEnvironments),
		parsingstate.WithEnableDoubleNewlineParagraphs(!noParagraphs),
	)
	reader := tokenreader.New(source)

	count := 0
	for {
		tok, err := reader.NextToken(state)
		if errors.Is(err, tokenreader.ErrEndOfStream) {
			break
		}
		if err != nil {
			return err
		}
		count++
		printToken(tok.String(), tok.Pos, tok.PosEnd)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "---\ntotal tokens: %d\n", count)
	}

	return nil
}

func printToken(repr string, pos, posEnd int) {
	if showPos {
		fmt.Printf("%s @%d..%d\n", repr, pos, posEnd)
		return
	}
	fmt.Println(repr)
}
