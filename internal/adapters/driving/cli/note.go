package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

var (
	noteOwner string
	noteTitle string
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes",
	Long:  `Create, list, update and remove notes. Every change is indexed immediately.`,
}

var noteAddCmd = &cobra.Command{
	Use:   "add [body]",
	Short: "Add a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	RunE:  runNoteList,
}

var noteEditCmd = &cobra.Command{
	Use:   "edit [id] [body]",
	Short: "Rewrite a note",
	Args:  cobra.ExactArgs(2),
	RunE:  runNoteEdit,
}

var noteRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteRm,
}

func init() {
	noteCmd.PersistentFlags().StringVarP(&noteOwner, "owner", "o", "", "note owner (required)")
	_ = noteCmd.MarkPersistentFlagRequired("owner")
	noteAddCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "note title")
	noteEditCmd.Flags().StringVarP(&noteTitle, "title", "t", "", "note title")
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteEditCmd)
	noteCmd.AddCommand(noteRmCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.Create(cmdContext(cmd), noteTitle, args[0], noteOwner)
	if err != nil {
		return fmt.Errorf("add note: %w", err)
	}

	cmd.Printf("Added note %s\n", note.ID)
	return nil
}

func runNoteList(cmd *cobra.Command, _ []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	notes, err := noteService.ListByOwner(cmdContext(cmd), noteOwner)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	if len(notes) == 0 {
		cmd.Println("No notes.")
		return nil
	}

	for i := range notes {
		title := notes[i].Title
		if title == "" {
			title = firstLine(notes[i].Body)
		}
		cmd.Printf("  %s  %s  (%s)\n",
			notes[i].ID, title, notes[i].UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runNoteEdit(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	ctx := cmdContext(cmd)

	title := noteTitle
	if !cmd.Flags().Changed("title") {
		// Keep the stored title unless the caller asked to change it.
		existing, err := noteService.Get(ctx, args[0])
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("note %s not found", args[0])
			}
			return fmt.Errorf("edit note: %w", err)
		}
		title = existing.Title
	}

	note, err := noteService.Update(ctx, args[0], title, args[1])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("note %s not found", args[0])
		}
		return fmt.Errorf("edit note: %w", err)
	}

	cmd.Printf("Updated note %s\n", note.ID)
	return nil
}

func runNoteRm(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	if err := noteService.Delete(cmdContext(cmd), args[0]); err != nil {
		return fmt.Errorf("remove note: %w", err)
	}

	cmd.Printf("Removed note %s\n", args[0])
	return nil
}

// cmdContext returns the command's context, falling back to Background.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// firstLine truncates a note body to a one-line preview.
func firstLine(body string) string {
	line := body
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) > 60 {
		line = line[:60] + "..."
	}
	return line
}
