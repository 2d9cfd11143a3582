// backend/src/services/web3_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/username/bitbudget/backend/src/config"
	"github.com/username/bitbudget/backend/src/logger"
)

type ethWeb3Service struct {
	httpClient http.Client
	rpcURL     string
}

func NewWeb3Service() Web3Service {
	return &ethWeb3Service{
		httpClient: http.Client{Timeout: 15 * time.Second},
		rpcURL:     config.Cfg.EthRPCURL,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FetchEthBalance asks the RPC node for the address's native balance at the
// latest block. A failing node is reported to the caller; there is no retry.
func (s *ethWeb3Service) FetchEthBalance(ctx context.Context, address string) (string, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_getBalance",
		Params:  []interface{}{address, "latest"},
		ID:      1,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.L.Warn("eth_getBalance request failed", "address", address, "error", err)
		return "", fmt.Errorf("%w: %v", ErrBalanceFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: rpc node returned status %d", ErrBalanceFetch, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBalanceFetch, err)
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrBalanceFetch, rpcResp.Error.Message)
	}

	wei, ok := new(big.Int).SetString(strings.TrimPrefix(rpcResp.Result, "0x"), 16)
	if !ok {
		return "", fmt.Errorf("%w: malformed balance %q", ErrBalanceFetch, rpcResp.Result)
	}
	return FormatEther(wei), nil
}

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatEther converts a wei amount to a decimal ETH string. Whole amounts
// keep a single trailing zero, so one ether renders as "1.0".
func FormatEther(wei *big.Int) string {
	quo, rem := new(big.Int).QuoRem(wei, weiPerEther, new(big.Int))
	frac := strings.TrimRight(fmt.Sprintf("%018s", rem.String()), "0")
	if frac == "" {
		frac = "0"
	}
	return quo.String() + "." + frac
}
