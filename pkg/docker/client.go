// Package docker is a thin client over the Docker Engine API exposing only
// the operations the devcontainer lifecycle needs.
package docker

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/client"
)

// Client wraps the Docker SDK client.
type Client struct {
	cli *client.Client
}

// New creates a client against the default environment endpoint, or against
// an explicit host when one is given (e.g. tcp://127.0.0.1:2375).
func New(host string) (*Client, error) {
	opts := []client.Opt{client.WithAPIVersionNegotiation()}
	if host == "" {
		opts = append(opts, client.FromEnv)
	} else {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("error trying to communicate with docker: %w", err)
	}

	log.Debug("Docker client initialized", "host", cli.DaemonHost())

	return &Client{cli: cli}, nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.cli.Close()
}
