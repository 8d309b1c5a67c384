package starknet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/inheritx/ixdeploy/internal/domain"
	"github.com/inheritx/ixdeploy/internal/domain/config"
	"github.com/inheritx/ixdeploy/internal/domain/models"
	"github.com/inheritx/ixdeploy/internal/usecase"
)

const (
	// blockLatest is the block_id used for reads
	blockLatest = "latest"

	// errCodeTxnHashNotFound is the node error code for TXN_HASH_NOT_FOUND
	errCodeTxnHashNotFound = 29

	defaultReceiptTimeout = 3 * time.Minute
	finalityRejected      = "REJECTED"
)

// ErrTxNotFound is returned when the node does not know a transaction (yet)
var ErrTxNotFound = errors.New("transaction not found")

// ClientAdapter implements StarknetNode over JSON-RPC. The connection is
// dialed on first use.
type ClientAdapter struct {
	rpcURL         string
	receiptTimeout time.Duration
	log            *slog.Logger

	// newBackOff builds the receipt polling schedule
	newBackOff func() backoff.BackOff

	mu     sync.Mutex
	client *rpc.Client
}

// NewClientAdapter creates a new Starknet node client for the configured network
func NewClientAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ClientAdapter {
	c := &ClientAdapter{
		rpcURL:         cfg.Network.RPCURL,
		receiptTimeout: cfg.ReceiptTimeout,
		log:            log.With("component", "StarknetClient"),
	}
	if c.receiptTimeout <= 0 {
		c.receiptTimeout = defaultReceiptTimeout
	}
	c.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = 2 * time.Second
		b.MaxInterval = 10 * time.Second
		b.MaxElapsedTime = c.receiptTimeout
		return b
	}
	return c
}

func (c *ClientAdapter) conn(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	client, err := rpc.DialContext(ctx, c.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", c.rpcURL, err)
	}
	c.client = client
	return client, nil
}

func (c *ClientAdapter) call(ctx context.Context, result any, method string, args ...any) error {
	client, err := c.conn(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	err = client.CallContext(ctx, result, method, args...)
	c.log.Debug("rpc call", "method", method, "duration", time.Since(start), "error", err)
	return err
}

// Close releases the underlying connection
func (c *ClientAdapter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
}

// ChainID returns the node's chain id decoded from its short-string form
func (c *ClientAdapter) ChainID(ctx context.Context) (string, error) {
	var raw domain.Felt
	if err := c.call(ctx, &raw, "starknet_chainId"); err != nil {
		return "", fmt.Errorf("failed to get chain ID: %w", err)
	}
	return raw.ShortString(), nil
}

type functionCall struct {
	ContractAddress    domain.Felt   `json:"contract_address"`
	EntryPointSelector domain.Felt   `json:"entry_point_selector"`
	Calldata           []domain.Felt `json:"calldata"`
}

// Call invokes a view function at the latest block
func (c *ClientAdapter) Call(ctx context.Context, contract domain.Felt, entryPoint string, calldata []domain.Felt) ([]domain.Felt, error) {
	if calldata == nil {
		calldata = []domain.Felt{}
	}
	req := functionCall{
		ContractAddress:    contract,
		EntryPointSelector: Selector(entryPoint),
		Calldata:           calldata,
	}

	var result []domain.Felt
	if err := c.call(ctx, &result, "starknet_call", req, blockLatest); err != nil {
		return nil, fmt.Errorf("call %s on %s failed: %w", entryPoint, contract.Hex(), err)
	}
	return result, nil
}

// ClassHashAt returns the class hash of the contract deployed at address
func (c *ClientAdapter) ClassHashAt(ctx context.Context, address domain.Felt) (domain.Felt, error) {
	var hash domain.Felt
	if err := c.call(ctx, &hash, "starknet_getClassHashAt", blockLatest, address); err != nil {
		return domain.Felt{}, fmt.Errorf("failed to get class hash at %s: %w", address.Hex(), err)
	}
	return hash, nil
}

// TransactionReceipt fetches a receipt. Returns ErrTxNotFound for unknown hashes.
func (c *ClientAdapter) TransactionReceipt(ctx context.Context, txHash domain.Felt) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := c.call(ctx, &receipt, "starknet_getTransactionReceipt", txHash); err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == errCodeTxnHashNotFound {
			return nil, fmt.Errorf("%w: %s", ErrTxNotFound, txHash.Hex())
		}
		return nil, fmt.Errorf("failed to get receipt for %s: %w", txHash.Hex(), err)
	}
	return &receipt, nil
}

// WaitForTransaction polls until the transaction is accepted, reverted or
// rejected, or the receipt timeout elapses
func (c *ClientAdapter) WaitForTransaction(ctx context.Context, txHash domain.Felt) (*models.Receipt, error) {
	var receipt *models.Receipt

	operation := func() error {
		r, err := c.TransactionReceipt(ctx, txHash)
		if err != nil {
			c.log.Debug("receipt not available yet", "tx", txHash.Hex(), "error", err)
			return err
		}
		switch {
		case r.ExecutionStatus == models.ExecutionReverted:
			receipt = r
			return backoff.Permanent(fmt.Errorf("transaction %s reverted: %s", txHash.Hex(), r.RevertReason))
		case r.FinalityStatus == finalityRejected:
			receipt = r
			return backoff.Permanent(fmt.Errorf("transaction %s was rejected", txHash.Hex()))
		case r.Accepted():
			receipt = r
			return nil
		default:
			return fmt.Errorf("transaction %s is %s", txHash.Hex(), r.FinalityStatus)
		}
	}

	if err := backoff.Retry(operation, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return receipt, err
	}
	return receipt, nil
}

// Ensure the adapter implements the interface
var _ usecase.StarknetNode = (*ClientAdapter)(nil)
