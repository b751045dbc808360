package eth

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps both rpc.Client and ethclient.Client. The audit pipeline only
// issues read-only calls through it; probes take the ethclient surface.
type Client struct {
	Rpc *rpc.Client
	Eth *ethclient.Client
}

// NewClient dials an Ethereum node with both RPC and ethclient handles.
func NewClient(ctx context.Context, url string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}

	return &Client{
		Rpc: rpcClient,
		Eth: ethclient.NewClient(rpcClient),
	}, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() {
	c.Rpc.Close()
}
