package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-waste-market/core"
)

const (
	defaultRequestTimeout  = 10 * time.Second
	defaultBlocksPath      = "/v2/blocks"
	maxBlocksResponseBytes = 1 << 20 // 1 MiB
)

var ErrQueryFailed = errors.New("ledger: block query failed")

// QueryError wraps a failed ledger read so callers can distinguish a ledger
// outage from a transfer that simply is not there.
type QueryError struct {
	Cause error
}

func (e *QueryError) Error() string {
	if e == nil || e.Cause == nil {
		return ErrQueryFailed.Error()
	}
	return ErrQueryFailed.Error() + ": " + e.Cause.Error()
}

func (e *QueryError) Unwrap() error {
	if e == nil {
		return nil
	}
	if e.Cause == nil {
		return ErrQueryFailed
	}
	return errors.Join(ErrQueryFailed, e.Cause)
}

func (e *QueryError) ToServiceError() *goerrors.Error {
	message := ErrQueryFailed.Error()
	if e != nil && e.Cause != nil {
		message = e.Error()
	}
	return goerrors.New(message, goerrors.CategoryExternal).
		WithCode(http.StatusBadGateway).
		WithTextCode(core.MarketErrorBadRequest)
}

func queryFailed(cause error) error {
	return &QueryError{Cause: cause}
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	BaseURL        string
	BlocksPath     string
	HTTPClient     HTTPDoer
	RequestTimeout time.Duration
}

// Client reads blocks from an external ledger node over HTTP.
type Client struct {
	baseURL        string
	blocksPath     string
	httpClient     HTTPDoer
	requestTimeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("ledger: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("ledger: invalid base url: %w", err)
	}

	blocksPath := strings.TrimSpace(cfg.BlocksPath)
	if blocksPath == "" {
		blocksPath = defaultBlocksPath
	}
	if !strings.HasPrefix(blocksPath, "/") {
		blocksPath = "/" + blocksPath
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return &Client{
		baseURL:        baseURL,
		blocksPath:     blocksPath,
		httpClient:     httpClient,
		requestTimeout: requestTimeout,
	}, nil
}

type transferPayload struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Memo   uint64 `json:"memo"`
}

type blockPayload struct {
	Index    uint64           `json:"index"`
	Transfer *transferPayload `json:"transfer,omitempty"`
}

type blocksResponse struct {
	Blocks []blockPayload `json:"blocks"`
}

func (c *Client) QueryBlocks(ctx context.Context, start uint64, length uint64) ([]core.LedgerBlock, error) {
	if c == nil {
		return nil, queryFailed(fmt.Errorf("client is nil"))
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if length == 0 {
		return nil, nil
	}

	requestCtx := ctx
	cancel := func() {}
	if c.requestTimeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, c.requestTimeout)
	}
	defer cancel()

	endpoint := c.baseURL + c.blocksPath +
		"?start=" + strconv.FormatUint(start, 10) +
		"&length=" + strconv.FormatUint(length, 10)

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, queryFailed(err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, queryFailed(err)
	}
	defer res.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(res.Body, maxBlocksResponseBytes+1))
	if readErr != nil {
		return nil, queryFailed(fmt.Errorf("read blocks response: %w", readErr))
	}
	if int64(len(body)) > maxBlocksResponseBytes {
		return nil, queryFailed(fmt.Errorf("blocks response exceeds %d bytes", maxBlocksResponseBytes))
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, queryFailed(fmt.Errorf("blocks endpoint returned status %d", res.StatusCode))
	}

	var payload blocksResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, queryFailed(fmt.Errorf("decode blocks response: %w", err))
	}

	blocks := make([]core.LedgerBlock, 0, len(payload.Blocks))
	for _, block := range payload.Blocks {
		if block.Index < start || block.Index >= start+length {
			continue
		}
		converted := core.LedgerBlock{Index: block.Index}
		if block.Transfer != nil {
			converted.Transfer = &core.LedgerTransfer{
				From:   strings.TrimSpace(block.Transfer.From),
				To:     strings.TrimSpace(block.Transfer.To),
				Amount: block.Transfer.Amount,
				Memo:   block.Transfer.Memo,
			}
		}
		blocks = append(blocks, converted)
	}
	return blocks, nil
}

var _ core.LedgerClient = (*Client)(nil)
