// Package agent manages persisted agent records: the instruction profile,
// the generation parameters, the on-disk registry, and the in-session
// aggregate that pairs them with a conversation cache.
package agent

// Profile is an agent's persistent instruction record. It is loaded once per
// session and only changes through an explicit full-record rewrite.
type Profile struct {
	Name           string `toml:"name"`
	Description    string `toml:"description"`
	Model          string `toml:"model"`
	SystemMessage  string `toml:"system_message"`
	AssistantIntro string `toml:"assistant_intro"`
	AssistantFocus string `toml:"assistant_focus"`
	PromptScript   string `toml:"prompt_script"`
	StartToken     string `toml:"start_token"`
	EndToken       string `toml:"end_token"`
	MemStartToken  string `toml:"mem_start_token"`
	MemEndToken    string `toml:"mem_end_token"`
	ChatStartToken string `toml:"chat_start_token"`
	ChatEndToken   string `toml:"chat_end_token"`
}

// DefaultProfile returns the token framing and empty messages a new agent
// starts from.
func DefaultProfile() Profile {
	return Profile{
		StartToken:     "<|im_start|>",
		EndToken:       "<|im_end|>",
		MemStartToken:  "<|mem_start|>",
		MemEndToken:    "<|mem_end|>",
		ChatStartToken: "<|chat_start|>",
		ChatEndToken:   "<|chat_end|>",
	}
}

// Script returns the prompt template to render. A profile may carry its own
// template; otherwise the default script is derived from the delimiter tokens
// and instruction messages.
func (p Profile) Script() string {
	if p.PromptScript != "" {
		return p.PromptScript
	}

	return p.StartToken + "System: \n" +
		p.SystemMessage + p.EndToken + "\n" +
		p.StartToken + "Assistant: \n" +
		p.AssistantIntro + p.EndToken + "\n" +
		p.StartToken + "User: \n" +
		"Your current focus should be: " + p.AssistantFocus + p.EndToken + "\n" +
		p.MemStartToken + "Context from memory: " +
		"$context" + p.MemEndToken + "\n" +
		"Chat History: \n" +
		"$history\n" +
		p.StartToken + "$username: \n" +
		"$user_input" + p.EndToken + "\n" +
		p.StartToken + p.Name + ": \n"
}
