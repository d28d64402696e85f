package agent

import "parlor/internal/ollama"

// Params is an agent's persistent generation-parameter record. Like the
// profile it is immutable for a session's duration.
type Params struct {
	Temperature float64 `toml:"temperature"`
	NumCtx      int     `toml:"num_ctx"`
	NumGPU      int     `toml:"num_gpu"`
	NumThread   int     `toml:"num_thread"`
	TopK        int     `toml:"top_k"`
	TopP        float64 `toml:"top_p"`
	NumPredict  int     `toml:"num_predict"`
	Seed        int     `toml:"seed"`
	Mirostat    int     `toml:"mirostat"`
	MirostatEta float64 `toml:"mirostat_eta"`
	MirostatTau float64 `toml:"mirostat_tau"`
	RepeatLastN int     `toml:"repeat_last_n"`
	TFSZ        float64 `toml:"tfs_z"`
}

func DefaultParams() Params {
	return Params{
		Temperature: 0.5,
		NumCtx:      4096,
		NumGPU:      50,
		NumThread:   16,
		TopK:        42,
		TopP:        0.42,
		NumPredict:  512,
		Seed:        0,
		Mirostat:    0,
		MirostatEta: 0.1,
		MirostatTau: 5.0,
		RepeatLastN: 64,
		TFSZ:        0,
	}
}

// Options maps the record onto the per-call generation options.
func (p Params) Options() ollama.Options {
	return ollama.Options{
		Temperature: p.Temperature,
		NumCtx:      p.NumCtx,
		NumGPU:      p.NumGPU,
		NumThread:   p.NumThread,
		TopK:        p.TopK,
		TopP:        p.TopP,
	}
}
