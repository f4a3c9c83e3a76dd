package local

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/drakos74/free-fall/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserKeepsMessages(t *testing.T) {
	user, err := NewUser("")
	require.NoError(t, err)

	id := user.Send(api.Private, api.NewMessage("first"))
	assert.Equal(t, 1, id)
	id = user.Send(api.Public, api.NewMessage("second"))
	assert.Equal(t, 2, id)

	require.Len(t, user.Messages, 2)
	assert.Equal(t, "first", user.Messages[0].Text)
	assert.Equal(t, "second", user.Messages[1].Text)
}

func TestUserWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	user, err := NewUser(path)
	require.NoError(t, err)

	user.Send(api.Private, api.NewMessage("trade created"))

	b, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "trade created")
	assert.Contains(t, string(b), string(api.Private))
}
