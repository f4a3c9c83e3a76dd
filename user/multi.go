// Package user wires the audit channels together.
package user

import (
	"context"

	"github.com/drakos74/free-fall/internal/api"
)

// Multi fans every message out to all configured users.
type Multi struct {
	users []api.User
}

// NewMulti creates a fan-out user over the given channels.
func NewMulti(users ...api.User) *Multi {
	return &Multi{
		users: users,
	}
}

// Run starts all users, failing on the first error.
func (m *Multi) Run(ctx context.Context) error {
	for _, u := range m.users {
		if err := u.Run(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Send delivers the message to every user and returns the first id.
func (m *Multi) Send(channel api.Index, message *api.Message) int {
	id := 0
	for i, u := range m.users {
		msgID := u.Send(channel, message)
		if i == 0 {
			id = msgID
		}
	}
	return id
}
