package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newNotesCmd creates the notes command for reading or replacing the notes
// stored in a document's manifest.
func newNotesCmd() *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "notes [file]",
		Short: "Show or set a document's notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("set") {
				if notes := doc.Notes(); notes != "" {
					fmt.Println(notes)
				}
				return nil
			}

			doc.SetNotes(set)
			if err := doc.Save(""); err != nil {
				return err
			}
			printSuccess("Updated notes in %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "replace the notes with the given text")

	return cmd
}
