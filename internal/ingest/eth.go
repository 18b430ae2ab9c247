package ingest

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"plinkopir/internal/hintengine"
)

// authTransport attaches a bearer token to every outgoing RPC request,
// for providers that gate their HTTP endpoint behind a token.
type authTransport struct {
	token string
	base  http.RoundTripper
}

func (a *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	return a.base.RoundTrip(req)
}

// DialEthereumClient connects to an Ethereum JSON-RPC endpoint, attaching
// token authentication for HTTP(S) endpoints when a token is supplied.
func DialEthereumClient(url, token string) (*ethclient.Client, error) {
	if token == "" || !strings.HasPrefix(url, "http") {
		return ethclient.Dial(url)
	}

	httpClient := &http.Client{
		Transport: &authTransport{token: token, base: http.DefaultTransport},
	}

	rpcClient, err := rpc.DialHTTPWithClient(url, httpClient)
	if err != nil {
		return nil, err
	}
	return ethclient.NewClient(rpcClient), nil
}

// EthBlockSource follows chain head and turns balance changes of mapped
// addresses, observed in each new block's sender/recipient set, into
// database updates.
type EthBlockSource struct {
	client     *ethclient.Client
	chainID    *big.Int
	addressMap map[string]uint64
	db         []hintengine.Parity
	nextBlock  uint64
}

// NewEthBlockSource builds a source starting at startBlock, tracking
// balances for the addresses in addressMap against db (the source's view
// of current database state, used to compute XOR deltas).
func NewEthBlockSource(ctx context.Context, client *ethclient.Client, addressMap map[string]uint64, db []hintengine.Parity, startBlock uint64) (*EthBlockSource, error) {
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: fetch chain id: %w", err)
	}
	return &EthBlockSource{
		client:     client,
		chainID:    chainID,
		addressMap: addressMap,
		db:         db,
		nextBlock:  startBlock,
	}, nil
}

// Next fetches the next block, if mined, and returns an Update per mapped
// address whose balance changed. ok=false (with no error) means the chain
// head hasn't advanced to nextBlock yet.
func (s *EthBlockSource) Next(ctx context.Context) ([]Update, bool, error) {
	head, err := s.client.BlockNumber(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("ingest: fetch chain head: %w", err)
	}
	if head < s.nextBlock {
		return nil, false, nil
	}

	block, err := s.client.BlockByNumber(ctx, new(big.Int).SetUint64(s.nextBlock))
	if err != nil {
		return nil, false, fmt.Errorf("ingest: fetch block %d: %w", s.nextBlock, err)
	}

	signer := types.LatestSignerForChainID(s.chainID)
	touched := make(map[string]struct{})
	for _, tx := range block.Transactions() {
		if from, err := types.Sender(signer, tx); err == nil {
			touched[strings.ToLower(from.Hex())] = struct{}{}
		}
		if to := tx.To(); to != nil {
			touched[strings.ToLower(to.Hex())] = struct{}{}
		}
	}

	updates := make([]Update, 0, len(touched))
	for addrHex := range touched {
		idx, ok := s.addressMap[addrHex]
		if !ok || idx >= uint64(len(s.db)) {
			continue
		}
		balance, err := s.client.BalanceAt(ctx, common.HexToAddress(addrHex), new(big.Int).SetUint64(s.nextBlock))
		if err != nil {
			continue
		}
		old := s.db[idx]
		next := hintengine.Parity{balance.Uint64(), 0, 0, 0}
		if old == next {
			continue
		}
		s.db[idx] = next
		updates = append(updates, NewUpdate(idx, old, next))
	}

	s.nextBlock++
	return updates, true, nil
}
