package commands

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/scriptbrowser/pkg/errors"
	"github.com/arthur-debert/scriptbrowser/pkg/fileops"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/confirmations"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/views"
)

func newMkfileCmd(g *globalFlags) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:     "mkfile <name>",
		Aliases: []string{"touch"},
		Short:   MsgMkfileShort,
		GroupID: "files",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, in, nil)
			if err != nil {
				return err
			}
			entry, err := s.ctrl.CreateFile(args[0])
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&views.EntryChange{Action: "created", Entry: entry})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", MsgFlagIn)
	return cmd
}

func newMkdirCmd(g *globalFlags) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:     "mkdir <name>",
		Short:   MsgMkdirShort,
		GroupID: "files",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, in, nil)
			if err != nil {
				return err
			}
			entry, err := s.ctrl.CreateFolder(args[0])
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&views.EntryChange{Action: "created", Entry: entry})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", MsgFlagIn)
	return cmd
}

func newRmCmd(g *globalFlags) *cobra.Command {
	var permanent bool

	cmd := &cobra.Command{
		Use:     "rm <path>...",
		Aliases: []string{"delete"},
		Short:   MsgRmShort,
		Long:    MsgRmLong,
		GroupID: "files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, "", nil)
			if err != nil {
				return err
			}
			deletion, err := deleteEntries(s, args, permanent)
			if err != nil {
				return err
			}
			if err := s.renderer.RenderResult(deletion); err != nil {
				return err
			}
			if failed := deletion.Failed(); failed > 0 {
				return errors.Newf(errors.ErrFileAccess, MsgErrDeleteFailed, failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&permanent, "permanent", "p", false, MsgFlagPermanent)
	return cmd
}

// deleteEntries deletes names and asks about guarded folders. Names that
// cannot be resolved are reported as failed items.
func deleteEntries(s *session, names []string, permanent bool) (*views.Deletion, error) {
	var (
		entries []types.Entry
		missing []fileops.DeleteResult
	)
	for _, name := range names {
		entry, err := s.ctrl.Lookup(name)
		if err != nil {
			missing = append(missing, fileops.DeleteResult{Entry: types.Entry{Name: name, Path: name}, Err: err})
			continue
		}
		entries = append(entries, entry)
	}

	var results []fileops.DeleteResult
	if len(entries) > 0 {
		var err error
		if results, err = s.ctrl.DeleteBatch(entries, permanent); err != nil {
			return nil, err
		}
	}

	refused := false
	if req, ok := s.ctrl.PendingConfirmation(); ok {
		responses, err := confirmations.PresentConfirmations(s.dialog, []types.ConfirmationRequest{req})
		if err != nil {
			return nil, err
		}
		approved := types.NewConfirmationContext(responses).IsApproved(req.ID)
		confirmed, err := s.ctrl.Confirm(req.ID, approved)
		if err != nil {
			return nil, err
		}
		refused = !approved
		results = mergeResults(results, confirmed)
	}

	// the rendered items already say what happened
	s.ctrl.DrainNotices()
	return views.NewDeletion(append(results, missing...), refused), nil
}

// mergeResults replaces pending results with the outcome of the confirmed
// delete of the same entries.
func mergeResults(results, confirmed []fileops.DeleteResult) []fileops.DeleteResult {
	byPath := make(map[string]fileops.DeleteResult, len(confirmed))
	for _, r := range confirmed {
		byPath[r.Entry.Path] = r
	}
	for i, r := range results {
		if c, ok := byPath[r.Entry.Path]; ok {
			results[i] = c
		}
	}
	return results
}

func newMvCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "mv <path> <dir>",
		Aliases: []string{"move"},
		Short:   MsgMvShort,
		GroupID: "files",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, "", nil)
			if err != nil {
				return err
			}
			entry, err := s.ctrl.Lookup(args[0])
			if err != nil {
				return err
			}
			moved, err := s.ctrl.Move(entry, args[1])
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&views.EntryChange{Action: "moved", From: entry.RelPath, Entry: moved})
		},
	}
}

func newRenameCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rename <path> <new-name>",
		Short:   MsgRenameShort,
		GroupID: "files",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, "", nil)
			if err != nil {
				return err
			}
			entry, err := s.ctrl.Lookup(args[0])
			if err != nil {
				return err
			}
			renamed, err := s.ctrl.Rename(entry, args[1])
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&views.EntryChange{Action: "renamed", From: entry.RelPath, Entry: renamed})
		},
	}
}

func newDupCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "dup <path>",
		Aliases: []string{"duplicate", "cp"},
		Short:   MsgDupShort,
		GroupID: "files",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, "", nil)
			if err != nil {
				return err
			}
			entry, err := s.ctrl.Lookup(args[0])
			if err != nil {
				return err
			}
			dup, err := s.ctrl.Duplicate(entry)
			if err != nil {
				return err
			}
			return s.renderer.RenderResult(&views.EntryChange{Action: "duplicated", From: entry.RelPath, Entry: dup})
		},
	}
}
