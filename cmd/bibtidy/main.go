// Command bibtidy formats BibTeX files.
package main

import (
	"os"

	"github.com/drgo/bibtidy/internal/cmd"
	"github.com/drgo/bibtidy/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
