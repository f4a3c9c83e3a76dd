// Package local implements the audit user as an append-only log file.
// It is always active, so every signal and gate decision leaves a trace
// even when no external channel is configured.
package local

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/drakos74/free-fall/internal/api"
)

const dateFormat = "Jan _2 15:04:05"

// User writes the audit trail to a local file and keeps the messages
// in memory for inspection.
type User struct {
	logger   *log.Logger
	Messages []api.Message
	lock     *sync.RWMutex
}

// NewUser creates a local user logging to the given file.
// An empty path keeps the trail in memory only.
func NewUser(path string) (*User, error) {
	var logger *log.Logger
	if path != "" {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("could not open audit file %s: %w", path, err)
		}
		logger = log.New(file, "INFO: ", log.Ldate|log.Ltime)
	}

	return &User{
		logger:   logger,
		Messages: make([]api.Message, 0),
		lock:     new(sync.RWMutex),
	}, nil
}

// Run is a no-op, the local user needs no external connection.
func (u *User) Run(ctx context.Context) error {
	return nil
}

// Send appends the message to the trail and returns its index.
func (u *User) Send(channel api.Index, message *api.Message) int {
	u.lock.Lock()
	defer u.lock.Unlock()
	if u.logger != nil {
		u.logger.Println(fmt.Sprintf("%s | %s | %s", string(channel), message.Time.Format(dateFormat), message.Text))
	}
	u.Messages = append(u.Messages, *message)
	return len(u.Messages)
}
