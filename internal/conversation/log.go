// Package conversation keeps the durable, append-only record of chat
// sessions, one JSONL file per conversation. This is the audit log; the
// bounded in-memory cache is separate and not persisted.
package conversation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"parlor/internal/core"
)

// Record identifies the two participants of a conversation.
type Record struct {
	ID         string    `json:"id"`
	Host       string    `json:"host"`
	HostIsBot  bool      `json:"host_is_bot"`
	Guest      string    `json:"guest"`
	GuestIsBot bool      `json:"guest_is_bot"`
	StartedAt  time.Time `json:"started_at"`
}

// Conversation is an open durable log. Appends are sequential,
// single-writer.
type Conversation struct {
	Record Record

	path  string
	turns int
}

// Service creates and lists conversation logs under <dataDir>/conversations/.
type Service struct {
	BaseDir string
}

func NewService(dataDir string) *Service {
	return &Service{BaseDir: dataDir}
}

func (s *Service) dir() string {
	return filepath.Join(s.BaseDir, "conversations")
}

// Start creates a new conversation log with the participant record as its
// first line.
func (s *Service) Start(host string, hostIsBot bool, guest string, guestIsBot bool) (*Conversation, error) {
	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return nil, fmt.Errorf("create conversations directory: %w", err)
	}

	record := Record{
		ID:         uuid.NewString(),
		Host:       host,
		HostIsBot:  hostIsBot,
		Guest:      guest,
		GuestIsBot: guestIsBot,
		StartedAt:  time.Now(),
	}

	path := filepath.Join(s.dir(), record.ID+".jsonl")

	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("create conversation log: %w", err)
	}

	return &Conversation{Record: record, path: path}, nil
}

// Append writes one turn to the log.
func (c *Conversation) Append(turn core.Turn) error {
	file, err := os.OpenFile(c.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open conversation log: %w", err)
	}
	defer file.Close()

	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}

	c.turns++

	return nil
}

// Turns reports how many turns this handle has appended.
func (c *Conversation) Turns() int {
	return c.turns
}

// Info summarizes one stored conversation.
type Info struct {
	Record     Record
	TurnCount  int
	ModifiedAt time.Time
}

// List returns stored conversations, most recently modified first.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	var result []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}

		info, err := s.read(filepath.Join(s.dir(), entry.Name()))
		if err != nil {
			continue
		}

		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ModifiedAt.After(result[j].ModifiedAt)
	})

	return result, nil
}

func (s *Service) read(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		return Info{}, fmt.Errorf("empty conversation log: %s", path)
	}

	var record Record
	if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
		return Info{}, err
	}

	turns := 0
	for scanner.Scan() {
		turns++
	}

	return Info{Record: record, TurnCount: turns, ModifiedAt: stat.ModTime()}, nil
}
