package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/wellnest/messaging/internal/client"
	"github.com/wellnest/messaging/internal/domain"
)

const helpText = `Commands:
  /peer <id>     open a conversation
  /list          list conversations
  /ai <prompt>   ask the wellness assistant
  /refresh       reload the open conversation
  /quit          exit
Any other line is sent to the open conversation.`

type repl struct {
	client   *client.Client
	selfID   string
	out      io.Writer
	timeline *client.Timeline

	own    *color.Color
	peer   *color.Color
	muted  *color.Color
	failed *color.Color
}

func newREPL(c *client.Client, selfID string, out io.Writer) *repl {
	return &repl{
		client: c,
		selfID: selfID,
		out:    out,
		own:    color.New(color.FgCyan),
		peer:   color.New(color.FgGreen),
		muted:  color.New(color.FgHiBlack),
		failed: color.New(color.FgRed),
	}
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(r.out, "Signed in as %s. Type /help for commands.\n", r.selfID)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if quit := r.handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// handle executes one input line and reports whether the session should end.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, helpText)
	case "/peer":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: /peer <id>")
			return false
		}
		r.timeline = client.NewTimeline(r.selfID, arg)
		r.refresh(ctx)
	case "/list":
		r.list(ctx)
	case "/ai":
		r.askAssistant(ctx, arg)
	case "/refresh":
		if r.timeline == nil {
			fmt.Fprintln(r.out, "no conversation open, use /peer <id>")
			return false
		}
		r.refresh(ctx)
	default:
		if strings.HasPrefix(cmd, "/") {
			fmt.Fprintf(r.out, "unknown command %s\n", cmd)
			return false
		}
		r.send(ctx, line)
	}
	return false
}

func (r *repl) send(ctx context.Context, text string) {
	if r.timeline == nil {
		fmt.Fprintln(r.out, "no conversation open, use /peer <id>")
		return
	}

	tempID := r.timeline.Echo(text)
	msg, err := r.client.SendMessage(ctx, r.timeline.PeerID(), text)
	if err != nil {
		r.timeline.Fail(tempID, failureReason(err))
		r.render()
		return
	}
	r.timeline.Confirm(tempID, *msg)
	r.refresh(ctx)
}

func (r *repl) refresh(ctx context.Context) {
	history, err := r.client.History(ctx, r.timeline.PeerID())
	if err != nil {
		r.failed.Fprintf(r.out, "could not load conversation: %v\n", err)
		return
	}
	r.timeline.Reconcile(history)
	r.render()
}

func (r *repl) render() {
	fmt.Fprintf(r.out, "--- %s ---\n", r.timeline.PeerID())
	for _, row := range r.timeline.Rows() {
		stamp := r.muted.Sprint(row.CreatedAt.Local().Format(time.Kitchen))
		switch {
		case row.State == client.EchoFailed:
			r.failed.Fprintf(r.out, "%s you: %s (not sent: %s)\n", stamp, row.Text, row.Reason)
		case row.State == client.EchoPending:
			fmt.Fprintf(r.out, "%s %s %s\n", stamp, r.own.Sprint("you:"), r.muted.Sprint(row.Text+" (sending)"))
		case row.Direction == client.DirectionOwn:
			fmt.Fprintf(r.out, "%s %s %s\n", stamp, r.own.Sprint("you:"), row.Text)
		default:
			fmt.Fprintf(r.out, "%s %s %s\n", stamp, r.peer.Sprint(r.timeline.PeerID()+":"), row.Text)
		}
	}
}

func (r *repl) list(ctx context.Context) {
	summaries, err := r.client.Conversations(ctx)
	if err != nil {
		r.failed.Fprintf(r.out, "could not list conversations: %v\n", err)
		return
	}
	if len(summaries) == 0 {
		fmt.Fprintln(r.out, "no conversations yet")
		return
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"Peer", "Name", "Role", "Last message", "At"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, s := range summaries {
		table.Append([]string{
			s.Peer.ID,
			s.Peer.Name,
			string(s.Peer.Role),
			preview(s.LastMessage, 40),
			s.LastMessageAt.Local().Format(time.DateTime),
		})
	}
	table.Render()
}

func (r *repl) askAssistant(ctx context.Context, prompt string) {
	if prompt == "" {
		fmt.Fprintln(r.out, "usage: /ai <prompt>")
		return
	}
	fmt.Fprintln(r.out, r.muted.Sprint("assistant is thinking..."))

	reply, err := r.client.AssistantChat(ctx, prompt, "")
	if err != nil {
		r.failed.Fprintf(r.out, "assistant unavailable: %s\n", failureReason(err))
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", r.peer.Sprint("assistant:"), reply)
	if r.timeline != nil && r.timeline.PeerID() == domain.AssistantID {
		r.refresh(ctx)
	}
}

// failureReason words err for the user, telling them whether resending the
// same input can succeed.
func failureReason(err error) string {
	if client.IsRetryable(err) {
		return err.Error() + ", try again"
	}
	return err.Error()
}

func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
