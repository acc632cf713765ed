package cli

import (
	"github.com/spf13/cobra"

	"github.com/arbordev/arbor/pkg/document"
)

// newNewCmd creates the new command for starting a fresh document.
func newNewCmd() *cobra.Command {
	var label string
	var notes string

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a new tree document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			doc := document.New(document.NewClipboard())
			if label != "" {
				if err := doc.Add(document.Child, label, ""); err != nil {
					return err
				}
			}
			if notes != "" {
				doc.SetNotes(notes)
			}

			if err := doc.Save(args[0]); err != nil {
				return err
			}
			logger.Debugf("Wrote %s", args[0])

			printSuccess("Created %s", args[0])
			if label != "" {
				printDetail("Root: %s", label)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "label for the root node")
	cmd.Flags().StringVar(&notes, "notes", "", "notes stored in the document")

	return cmd
}
