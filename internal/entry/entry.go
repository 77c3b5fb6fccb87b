// Package entry holds the persisted configuration entries (one per sourcing
// mode) and the registry of their running instances.
package entry

import (
	"time"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

// Token is the normalized OAuth2 token stored with a cloud entry.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Entry is one configured instance of the bridge. Mode is determined solely
// by token presence.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Token     *Token    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLocal() *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Title:     "Tempest Station (Local)",
		CreatedAt: time.Now().UTC(),
	}
}

func NewCloud(token Token) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Title:     "Tempest Station (Cloud)",
		Token:     &token,
		CreatedAt: time.Now().UTC(),
	}
}

func (e *Entry) Mode() Mode {
	if e.Token != nil {
		return ModeCloud
	}
	return ModeLocal
}
