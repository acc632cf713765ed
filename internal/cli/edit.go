package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arbordev/arbor/pkg/document"
)

// newEditCmd creates the edit command for the interactive tree editor.
func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Open a document in the interactive tree editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var doc *document.Document
			if _, err := os.Stat(path); os.IsNotExist(err) {
				doc = document.New(document.NewClipboard())
			} else {
				doc, err = loadDocument(path)
				if err != nil {
					return err
				}
			}

			model := newEditorModel(doc, path)
			final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}

			if m, ok := final.(editorModel); ok && m.doc.Dirty() {
				printWarning("Closed with unsaved changes")
			}
			return nil
		},
	}
}
