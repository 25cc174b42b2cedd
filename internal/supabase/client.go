package supabase

import (
	"github.com/supabase-community/supabase-go"
)

type Client struct {
	Supabase *supabase.Client
}

func NewClient(url, serviceKey string) (*Client, error) {
	client, err := supabase.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
	}, nil
}
