// Command latextoken tokenizes LaTeX source and prints the resulting
// token stream. It exercises the tokenreader and parsingstate packages
// only: it does not expand macros, walk environments, or convert
// anything to text.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-latexnodes/cmd/latextoken/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
