package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"parlor/internal/agent"
	"parlor/internal/conversation"
	"parlor/internal/core"
	"parlor/internal/memory"
	"parlor/internal/ollama"
	"parlor/internal/prompt"
)

// Duo is an autonomous dual-agent round robin. Host and guest alternately
// consume each other's latest utterance; there is no human in the loop and
// no retrieval mid-loop, but every turn still lands in both agents'
// long-term memory.
type Duo struct {
	Host  *agent.Agent
	Guest *agent.Agent

	Engine *prompt.Engine
	Client *ollama.Client
	Store  memory.Store
	Log    *conversation.Conversation

	Out io.Writer
}

// Run loops until the context is cancelled; that interrupt is the protocol's
// only exit.
func (d *Duo) Run(ctx context.Context) error {
	hostName := d.Host.Profile.Name
	guestName := d.Guest.Profile.Name

	// The host's introduction seeds the exchange.
	hostLast := fmt.Sprintf(
		"Hello, I'm %s, welcome to my room! People describe me as: %s. "+
			"Please first tell me a little bit about yourself, and then give me 2 topics "+
			"that you may be interested in speaking with me about. As your host, I will "+
			"choose our first subject from your list.",
		hostName, d.Host.Profile.Description,
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		guestReply := d.generate(ctx, d.Guest, hostLast, hostName)
		request := core.NewMessage(core.RoleUser, guestName, guestReply)
		d.say(guestName, guestReply)

		hostReply := d.generate(ctx, d.Host, guestReply, guestName)
		response := core.NewMessage(core.RoleAssistant, hostName, hostReply)
		d.say(hostName, hostReply)

		turn := core.NewTurn(request, response)

		// The round's pair is one shared turn: both caches, one log entry,
		// and both agents' memory collections.
		d.Host.Cache.Add(turn)
		d.Guest.Cache.Add(turn)

		if d.Log != nil {
			if err := d.Log.Append(turn); err != nil {
				slog.Warn("conversation log append failed", "error", err)
			}
		}

		d.upsert(ctx, d.Host.Collection(guestName), turn)
		d.upsert(ctx, d.Guest.Collection(hostName), turn)

		hostLast = hostReply
	}
}

func (d *Duo) generate(ctx context.Context, ag *agent.Agent, input, speaker string) string {
	rendered := d.Engine.Render(ctx, ag, input, speaker, true)

	reply, err := d.Client.Generate(ctx, ag.Profile.Model, rendered, ag.Params.Options())
	if err != nil {
		slog.Warn("generation call failed", "agent", ag.Profile.Name, "error", err)
		fmt.Fprintf(d.Out, "[generation failed for %s: %v]\n", ag.Profile.Name, err)
		return ""
	}

	return reply
}

func (d *Duo) say(speaker, text string) {
	if text == "" {
		return
	}

	fmt.Fprintf(d.Out, "%s>> %s\n", speaker, text)
}

func (d *Duo) upsert(ctx context.Context, collection string, turn core.Turn) {
	if d.Store == nil {
		return
	}

	if err := d.Store.Upsert(ctx, collection, turn.ID, turn.Document(), nil); err != nil {
		slog.Warn("memory upsert failed", "collection", collection, "error", err)
	}
}
