package ollama

import (
	"fmt"
	"os"
	"os/exec"
)

// Library manages the local model library through the ollama binary.
type Library struct {
	bin string
}

func NewLibrary(bin string) *Library {
	if bin == "" {
		bin = "ollama"
	}

	return &Library{bin: bin}
}

func (l *Library) run(args ...string) error {
	cmd := exec.Command(l.bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", l.bin, args[0], err)
	}

	return nil
}

// List prints the downloaded models.
func (l *Library) List() error {
	return l.run("list")
}

// Pull downloads a model.
func (l *Library) Pull(model string) error {
	return l.run("pull", model)
}

// Remove deletes a downloaded model.
func (l *Library) Remove(model string) error {
	return l.run("rm", model)
}

// Copy duplicates a model under a new name.
func (l *Library) Copy(src, dst string) error {
	return l.run("cp", src, dst)
}
