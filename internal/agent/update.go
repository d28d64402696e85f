package agent

import (
	"fmt"
	"strconv"
)

// Field is one (name, current value) pair of a record, in stable order. The
// CLI layer walks these to collect overrides; applying overrides builds a new
// record without touching the old one.
type Field struct {
	Name  string
	Value string
}

func ProfileFields(p Profile) []Field {
	return []Field{
		{"name", p.Name},
		{"description", p.Description},
		{"model", p.Model},
		{"system_message", p.SystemMessage},
		{"assistant_intro", p.AssistantIntro},
		{"assistant_focus", p.AssistantFocus},
		{"prompt_script", p.PromptScript},
		{"start_token", p.StartToken},
		{"end_token", p.EndToken},
		{"mem_start_token", p.MemStartToken},
		{"mem_end_token", p.MemEndToken},
		{"chat_start_token", p.ChatStartToken},
		{"chat_end_token", p.ChatEndToken},
	}
}

// ApplyProfileOverrides returns a new profile with the given fields replaced.
// Fields absent from overrides keep their current values.
func ApplyProfileOverrides(p Profile, overrides map[string]string) (Profile, error) {
	out := p

	for name, value := range overrides {
		switch name {
		case "name":
			out.Name = value
		case "description":
			out.Description = value
		case "model":
			out.Model = value
		case "system_message":
			out.SystemMessage = value
		case "assistant_intro":
			out.AssistantIntro = value
		case "assistant_focus":
			out.AssistantFocus = value
		case "prompt_script":
			out.PromptScript = value
		case "start_token":
			out.StartToken = value
		case "end_token":
			out.EndToken = value
		case "mem_start_token":
			out.MemStartToken = value
		case "mem_end_token":
			out.MemEndToken = value
		case "chat_start_token":
			out.ChatStartToken = value
		case "chat_end_token":
			out.ChatEndToken = value
		default:
			return Profile{}, fmt.Errorf("unknown profile field: %s", name)
		}
	}

	return out, nil
}

func ParamsFields(p Params) []Field {
	return []Field{
		{"temperature", formatFloat(p.Temperature)},
		{"num_ctx", strconv.Itoa(p.NumCtx)},
		{"num_gpu", strconv.Itoa(p.NumGPU)},
		{"num_thread", strconv.Itoa(p.NumThread)},
		{"top_k", strconv.Itoa(p.TopK)},
		{"top_p", formatFloat(p.TopP)},
		{"num_predict", strconv.Itoa(p.NumPredict)},
		{"seed", strconv.Itoa(p.Seed)},
		{"mirostat", strconv.Itoa(p.Mirostat)},
		{"mirostat_eta", formatFloat(p.MirostatEta)},
		{"mirostat_tau", formatFloat(p.MirostatTau)},
		{"repeat_last_n", strconv.Itoa(p.RepeatLastN)},
		{"tfs_z", formatFloat(p.TFSZ)},
	}
}

// ApplyParamsOverrides returns a new parameter record with the given fields
// parsed and replaced.
func ApplyParamsOverrides(p Params, overrides map[string]string) (Params, error) {
	out := p

	for name, value := range overrides {
		var err error

		switch name {
		case "temperature":
			out.Temperature, err = strconv.ParseFloat(value, 64)
		case "num_ctx":
			out.NumCtx, err = strconv.Atoi(value)
		case "num_gpu":
			out.NumGPU, err = strconv.Atoi(value)
		case "num_thread":
			out.NumThread, err = strconv.Atoi(value)
		case "top_k":
			out.TopK, err = strconv.Atoi(value)
		case "top_p":
			out.TopP, err = strconv.ParseFloat(value, 64)
		case "num_predict":
			out.NumPredict, err = strconv.Atoi(value)
		case "seed":
			out.Seed, err = strconv.Atoi(value)
		case "mirostat":
			out.Mirostat, err = strconv.Atoi(value)
		case "mirostat_eta":
			out.MirostatEta, err = strconv.ParseFloat(value, 64)
		case "mirostat_tau":
			out.MirostatTau, err = strconv.ParseFloat(value, 64)
		case "repeat_last_n":
			out.RepeatLastN, err = strconv.Atoi(value)
		case "tfs_z":
			out.TFSZ, err = strconv.ParseFloat(value, 64)
		default:
			return Params{}, fmt.Errorf("unknown params field: %s", name)
		}

		if err != nil {
			return Params{}, fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}

	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
