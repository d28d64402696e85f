// Package chat drives the two conversational protocols: operator-driven
// single-agent chat and autonomous dual-agent round robin. Each session is a
// single logical thread of control: render, call, record, repeat.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"parlor/internal/agent"
	"parlor/internal/conversation"
	"parlor/internal/core"
	"parlor/internal/memory"
	"parlor/internal/ollama"
	"parlor/internal/prompt"
)

const (
	exitToken  = "exit"
	quitToken  = "quit"
	focusToken = "!focus"
)

// Session is one interactive single-agent chat. The supervised server is
// owned by the caller, which must stop it on every exit path; the session
// only talks to its endpoint.
type Session struct {
	Agent       *agent.Agent
	Counterpart string

	Engine *prompt.Engine
	Client *ollama.Client
	Store  memory.Store
	Log    *conversation.Conversation

	In  io.Reader
	Out io.Writer

	lines chan string
	// closed once the input-feeding goroutine has returned
	readerDone chan struct{}
}

// Run loops reading operator input until an exit token, EOF, or context
// cancellation. A failed generation call records an empty response and the
// loop continues; retrying is the operator's call.
func (s *Session) Run(ctx context.Context) error {
	s.lines = make(chan string)
	s.readerDone = make(chan struct{})

	done := make(chan struct{})
	defer close(done)

	// Feed input through a channel so cancellation interrupts a blocked
	// read. The sender gives up as soon as Run returns.
	go func() {
		defer close(s.readerDone)

		scanner := bufio.NewScanner(s.In)
		for scanner.Scan() {
			select {
			case s.lines <- scanner.Text():
			case <-done:
				return
			}
		}
		close(s.lines)
	}()

	for {
		fmt.Fprintf(s.Out, "%s>> ", s.Counterpart)

		input, ok := s.readLine(ctx)
		if !ok {
			return nil
		}

		switch {
		case input == "":
			continue
		case input == exitToken || input == quitToken:
			fmt.Fprintln(s.Out, "Exiting chat...")
			return nil
		case input == focusToken:
			s.handleFocus(ctx)
			continue
		}

		request := core.NewMessage(core.RoleUser, s.Counterpart, input)

		rendered := s.Engine.Render(ctx, s.Agent, input, s.Counterpart, false)

		reply, err := s.Client.Generate(ctx, s.Agent.Profile.Model, rendered, s.Agent.Params.Options())
		if err != nil {
			slog.Warn("generation call failed", "agent", s.Agent.Profile.Name, "error", err)
			fmt.Fprintf(s.Out, "[generation failed: %v]\n", err)
			reply = ""
		}

		response := core.NewMessage(core.RoleAssistant, s.Agent.Profile.Name, reply)
		turn := core.NewTurn(request, response)

		record(ctx, s.Agent, s.Counterpart, turn, s.Log, s.Store)

		if reply != "" {
			fmt.Fprintf(s.Out, "%s>> %s\n", s.Agent.Profile.Name, reply)
		}
	}
}

// readLine blocks for one line of input or for cancellation.
func (s *Session) readLine(ctx context.Context) (string, bool) {
	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	}
}

// handleFocus shows the agent's focus directive and optionally replaces it
// for the rest of the session. No turn is produced and nothing is persisted.
func (s *Session) handleFocus(ctx context.Context) {
	fmt.Fprintf(s.Out, "Current focus: %s\nType a new focus or press enter to keep it: ", s.Agent.Profile.AssistantFocus)

	next, ok := s.readLine(ctx)
	if !ok || next == "" {
		return
	}

	s.Agent.Profile.AssistantFocus = next
}

// record appends the turn to the agent's cache and the durable log, and
// upserts its text into the agent's memory of this counterpart. Log and
// memory failures degrade with a warning; the turn stays in the cache.
func record(ctx context.Context, ag *agent.Agent, counterpart string, turn core.Turn, log *conversation.Conversation, store memory.Store) {
	ag.Cache.Add(turn)

	if log != nil {
		if err := log.Append(turn); err != nil {
			slog.Warn("conversation log append failed", "error", err)
		}
	}

	if store != nil {
		collection := ag.Collection(counterpart)
		if err := store.Upsert(ctx, collection, turn.ID, turn.Document(), nil); err != nil {
			slog.Warn("memory upsert failed", "collection", collection, "error", err)
		}
	}
}
