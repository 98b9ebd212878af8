package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"

	"ecoscan-backend/internal/config"
)

// Client wraps the Supabase admin API. It uses the service-role key, so it
// must never be exposed to request payloads directly.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// DeleteUser removes an auth user. Callers must delete the user's owned
// records first; the auth account is the last thing to go.
func (c *Client) DeleteUser(userID uuid.UUID) error {
	err := c.Supabase.Auth.AdminDeleteUser(types.AdminDeleteUserRequest{UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to delete auth user: %w", err)
	}
	return nil
}
