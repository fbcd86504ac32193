package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/scriptbrowser/pkg/browser"
	"github.com/arthur-debert/scriptbrowser/pkg/logging"
	"github.com/arthur-debert/scriptbrowser/pkg/types"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/confirmations"
	"github.com/arthur-debert/scriptbrowser/pkg/ui/views"
	"github.com/arthur-debert/scriptbrowser/pkg/watch"
)

func newBrowseCmd(g *globalFlags) *cobra.Command {
	var watchFlag bool

	cmd := &cobra.Command{
		Use:     "browse [dir]",
		Aliases: []string{"shell"},
		Short:   MsgBrowseShort,
		Long:    MsgBrowseLong,
		GroupID: "browse",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g, firstArg(args), nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r := newRepl(s, cmd.InOrStdin(), cmd.OutOrStdout())
			if watchFlag || s.cfg.Watch.Enabled {
				w, err := watch.New(s.cfg.Watch.Debounce.Std())
				if err != nil {
					return err
				}
				defer w.Close()
				r.watcher = w
			}
			return r.run(ctx)
		},
	}
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, MsgFlagWatch)
	return cmd
}

// refreshed carries an asynchronous listing back to the loop.
type refreshed struct {
	req     browser.RefreshRequest
	entries []types.Entry
	err     error
}

// repl reads commands line by line and applies them to one controller.
// Controller calls only happen on the loop goroutine.
type repl struct {
	s       *session
	out     io.Writer
	lines   chan string
	prompt  bool
	watcher *watch.Watcher
	results chan refreshed
	done    chan struct{}
}

func newRepl(s *session, in io.Reader, out io.Writer) *repl {
	r := &repl{
		s:       s,
		out:     out,
		lines:   make(chan string),
		results: make(chan refreshed, 1),
		done:    make(chan struct{}),
	}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		r.prompt = true
	}
	if _, static := s.dialog.(*confirmations.StaticDialog); !static {
		s.dialog = &lineDialog{out: out, lines: r.lines}
	}
	go r.read(in)
	return r
}

func (r *repl) read(in io.Reader) {
	defer close(r.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case r.lines <- scanner.Text():
		case <-r.done:
			return
		}
	}
}

func (r *repl) run(ctx context.Context) error {
	defer close(r.done)

	r.show()
	r.rewatch()

	var changes <-chan watch.Change
	if r.watcher != nil {
		changes = r.watcher.Events()
	}

	for {
		if r.prompt {
			fmt.Fprint(r.out, MsgBrowsePrompt)
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case line, ok := <-r.lines:
			if !ok {
				return nil
			}
			quit, err := r.exec(line)
			if err != nil {
				_ = r.s.renderer.RenderError(err)
			}
			if quit {
				fmt.Fprintln(r.out, MsgBrowseBye)
				return nil
			}
			r.rewatch()
		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if r.s.ctrl.HandleChange(change.Dir) {
				log.Debug().Str("dir", change.Dir).Msg("View refreshed after change")
				r.show()
			}
		case res := <-r.results:
			applied, err := r.s.ctrl.CompleteRefresh(res.req, res.entries, res.err)
			if err != nil {
				_ = r.s.renderer.RenderError(err)
			}
			if applied {
				r.show()
			}
		}
	}
}

// rewatch follows the folders the view currently shows.
func (r *repl) rewatch() {
	if r.watcher == nil {
		return
	}
	if err := r.watcher.Watch(r.s.ctrl.WatchedDirs()...); err != nil {
		log.Debug().Err(err).Msg("Failed to update watched folders")
	}
}

func (r *repl) show() {
	if r.s.ctrl.State() == browser.StateIdle {
		r.notices()
		return
	}
	_ = r.s.renderer.RenderResult(views.NewListing(r.s.ctrl))
}

func (r *repl) notices() {
	if notices := r.s.ctrl.DrainNotices(); len(notices) > 0 {
		_ = r.s.renderer.RenderResult(&views.Notices{Notices: notices})
	}
}

// refresh lists the folder on another goroutine. The result is applied by
// the loop unless the view moved on meanwhile.
func (r *repl) refresh() error {
	req, err := r.s.ctrl.BeginRefresh()
	if err != nil {
		return err
	}
	go func() {
		entries, err := r.s.ctrl.Fetch(req)
		select {
		case r.results <- refreshed{req: req, entries: entries, err: err}:
		case <-r.done:
		}
	}()
	return nil
}

func (r *repl) exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	name, args := fields[0], fields[1:]
	ctrl := r.s.ctrl
	defer logging.LogOperationStart(logging.WithFields(map[string]interface{}{
		"component": "browse",
		"dir":       ctrl.Navigation().Dir,
	}), name)()

	need := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf(MsgBrowseUsage, usage)
		}
		return nil
	}
	lookup := func(p string) (types.Entry, error) {
		return ctrl.Lookup(p)
	}

	switch name {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		fmt.Fprint(r.out, MsgBrowseHelp)
		return false, nil
	case "ls":
	case "cd":
		if err := need(1, "cd <dir>"); err != nil {
			return false, err
		}
		if err := ctrl.Enter(args[0]); err != nil {
			return false, err
		}
	case "up", "..":
		if err := ctrl.Up(); err != nil {
			return false, err
		}
	case "top":
		if err := ctrl.GoRoot(); err != nil {
			return false, err
		}
	case "open":
		if err := need(1, "open <file>"); err != nil {
			return false, err
		}
		entry, err := lookup(args[0])
		if err != nil {
			return false, err
		}
		if err := ctrl.Select(entry); err != nil {
			return false, err
		}
	case "focus":
		if err := need(1, "focus <file>"); err != nil {
			return false, err
		}
		entry, err := lookup(args[0])
		if err != nil {
			return false, err
		}
		if err := r.s.host.Focus(entry.Path); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, entry.Path)
		return false, nil
	case "find":
		if err := need(1, "find <query>"); err != nil {
			return false, err
		}
		if err := ctrl.SetQuery(strings.Join(args, " ")); err != nil {
			return false, err
		}
	case "clear":
		if err := ctrl.ClearQuery(); err != nil {
			return false, err
		}
	case "expand":
		if err := need(1, "expand <folder>"); err != nil {
			return false, err
		}
		entry, err := lookup(args[0])
		if err != nil {
			return false, err
		}
		if _, err := ctrl.ToggleExpand(entry); err != nil {
			return false, err
		}
	case "mkfile":
		if err := need(1, "mkfile <name>"); err != nil {
			return false, err
		}
		if _, err := ctrl.CreateFile(args[0]); err != nil {
			return false, err
		}
	case "mkdir":
		if err := need(1, "mkdir <name>"); err != nil {
			return false, err
		}
		if _, err := ctrl.CreateFolder(args[0]); err != nil {
			return false, err
		}
	case "new":
		if err := need(1, "new <template> [name]"); err != nil {
			return false, err
		}
		fileName := ""
		if len(args) > 1 {
			fileName = args[1]
		}
		if _, err := ctrl.CreateFromTemplate(args[0], fileName, nil); err != nil {
			return false, err
		}
	case "insert":
		if err := need(1, "insert <template>"); err != nil {
			return false, err
		}
		if _, err := ctrl.InsertTemplate(args[0], nil, false); err != nil {
			return false, err
		}
		r.notices()
		return false, nil
	case "save":
		if err := r.s.host.SaveAll(); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, MsgSaved+"\n", len(r.s.host.Paths()))
		return false, nil
	case "rm":
		permanent := false
		if len(args) > 0 && (args[0] == "-p" || args[0] == "--permanent") {
			permanent = true
			args = args[1:]
		}
		if err := need(1, "rm [-p] <name>..."); err != nil {
			return false, err
		}
		deletion, err := deleteEntries(r.s, args, permanent)
		if err != nil {
			return false, err
		}
		if err := r.s.renderer.RenderResult(deletion); err != nil {
			return false, err
		}
	case "mv":
		if err := need(2, "mv <name> <dir>"); err != nil {
			return false, err
		}
		entry, err := lookup(args[0])
		if err != nil {
			return false, err
		}
		if _, err := ctrl.Move(entry, args[1]); err != nil {
			return false, err
		}
	case "rename":
		if err := need(2, "rename <name> <new-name>"); err != nil {
			return false, err
		}
		entry, err := lookup(args[0])
		if err != nil {
			return false, err
		}
		if _, err := ctrl.Rename(entry, args[1]); err != nil {
			return false, err
		}
	case "dup":
		if err := need(1, "dup <name>"); err != nil {
			return false, err
		}
		entry, err := lookup(args[0])
		if err != nil {
			return false, err
		}
		if _, err := ctrl.Duplicate(entry); err != nil {
			return false, err
		}
	case "roots":
		return false, r.s.renderer.RenderResult(&views.Roots{Active: ctrl.Root(), Roots: ctrl.Roots()})
	case "switch":
		if err := need(1, "switch <root>"); err != nil {
			return false, err
		}
		if err := ctrl.SwitchRoot(args[0]); err != nil {
			return false, err
		}
	case "refresh":
		return false, r.refresh()
	default:
		return false, fmt.Errorf(MsgBrowseUnknown, name)
	}

	r.show()
	return false, nil
}

// lineDialog asks confirmations through the same line reader as the
// loop, so answers are not swallowed by a second reader of stdin.
type lineDialog struct {
	out   io.Writer
	lines <-chan string
}

func (d *lineDialog) Confirm(req types.ConfirmationRequest) (bool, error) {
	confirmations.Describe(d.out, req)
	marker := "[y/N]"
	if req.Default {
		marker = "[Y/n]"
	}
	fmt.Fprintf(d.out, "Continue? %s: ", marker)
	line, ok := <-d.lines
	if !ok {
		return req.Default, nil
	}
	return confirmations.ParseAnswer(line, req.Default), nil
}
