// Package ipfs reads release directories and files through an IPFS HTTP
// gateway.
//
// Directory listings use the trustless gateway's dag-json response format,
// so a plain gateway URL is all the client needs. Content is addressed by
// hash and never changes, so every response is cached without expiry.
package ipfs

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dappnode/packages-status/pkg/cache"
	"github.com/dappnode/packages-status/pkg/integrations"
)

// DefaultGateway is the DAppNode public gateway.
const DefaultGateway = "https://gateway.ipfs.dappnode.io"

// Entry is one link of a directory listing.
type Entry struct {
	Name string `json:"name"`
	CID  string `json:"cid"`
	Size uint64 `json:"size"`
}

// Client reads from a gateway.
type Client struct {
	*integrations.Client
	gateway string
}

// NewClient creates a client for gateway (DefaultGateway when empty).
func NewClient(c cache.Cache, gateway string) *Client {
	if gateway == "" {
		gateway = DefaultGateway
	}
	return &Client{
		Client:  integrations.NewClient(c, "ipfs", 0, nil),
		gateway: strings.TrimSuffix(gateway, "/"),
	}
}

type cidLink struct {
	CID string `json:"/"`
}

type dagLink struct {
	Hash  cidLink `json:"Hash"`
	Name  string  `json:"Name"`
	Tsize uint64  `json:"Tsize"`
}

type dagNode struct {
	Links []dagLink `json:"Links"`
}

// List returns the entries of the directory cid.
func (c *Client) List(ctx context.Context, cid string) ([]Entry, error) {
	var entries []Entry
	err := c.Cached(ctx, cache.Key("ls", cid), false, &entries, func() error {
		var node dagNode
		headers := map[string]string{"Accept": "application/vnd.ipld.dag-json"}
		if err := c.GetWithHeaders(ctx, c.url(cid)+"?format=dag-json", headers, &node); err != nil {
			return err
		}
		entries = make([]Entry, 0, len(node.Links))
		for _, l := range node.Links {
			entries = append(entries, Entry{Name: l.Name, CID: l.Hash.CID, Size: l.Tsize})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", cid, err)
	}
	return entries, nil
}

// Cat returns the contents of the file cid.
func (c *Client) Cat(ctx context.Context, cid string) ([]byte, error) {
	var data []byte
	err := c.Cached(ctx, cache.Key("cat", cid), false, &data, func() error {
		var err error
		data, err = c.GetBytes(ctx, c.url(cid))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("cat %s: %w", cid, err)
	}
	return data, nil
}

func (c *Client) url(cid string) string {
	return c.gateway + "/ipfs/" + url.PathEscape(cid)
}
