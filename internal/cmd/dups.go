package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drgo/bibtidy"
	"github.com/drgo/bibtidy/internal/input"
)

func (a *app) dupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dups [files...]",
		Short: "List citation keys defined in more than one file",
		Long: `Parse every input and list the citation keys that more than one of them
defines, with the competing entries. Fails when any key is duplicated.`,
		Args: cobra.ArbitraryArgs,
		RunE: a.runDups,
	}
}

func (a *app) runDups(cmd *cobra.Command, args []string) error {
	srcs := input.Sources(args)
	opts := a.parseOptions()
	results := a.forEach(srcs, func(r *result) {
		a.load(r, opts)
	})
	if err := report(results); err != nil {
		return err
	}

	docs := make([]*bibtidy.Document, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.doc)
	}
	dr, err := bibtidy.Duplicates(docs...)
	if err != nil {
		return err
	}
	if err := dr.Print(cmd.OutOrStdout()); err != nil {
		return err
	}
	if dr.DuplicateSetCount > 0 {
		return fmt.Errorf("%d duplicate keys", dr.DuplicateSetCount)
	}
	return nil
}
