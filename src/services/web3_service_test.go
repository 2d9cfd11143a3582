package services

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFormatEther(t *testing.T) {
	tests := []struct {
		name string
		wei  string
		want string
	}{
		{name: "zero", wei: "0", want: "0.0"},
		{name: "one ether", wei: "1000000000000000000", want: "1.0"},
		{name: "one and a half", wei: "1500000000000000000", want: "1.5"},
		{name: "one wei", wei: "1", want: "0.000000000000000001"},
		{name: "trailing zeros trimmed", wei: "1230000000000000000", want: "1.23"},
		{name: "large balance", wei: "123456000000000000000000", want: "123456.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wei, ok := new(big.Int).SetString(tt.wei, 10)
			if !ok {
				t.Fatalf("bad test input %q", tt.wei)
			}
			if got := FormatEther(wei); got != tt.want {
				t.Errorf("FormatEther(%s) = %q, want %q", tt.wei, got, tt.want)
			}
		})
	}
}

func TestFetchEthBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Method != "eth_getBalance" {
			t.Errorf("method = %q, want eth_getBalance", req.Method)
		}
		// 2 ETH in wei.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  "0x1bc16d674ec80000",
		})
	}))
	defer server.Close()

	svc := &ethWeb3Service{
		httpClient: http.Client{Timeout: 5 * time.Second},
		rpcURL:     server.URL,
	}

	balance, err := svc.FetchEthBalance(context.Background(), "0x00000000219ab540356cbb839cbe05303d7705fa")
	if err != nil {
		t.Fatalf("FetchEthBalance: %v", err)
	}
	if balance != "2.0" {
		t.Errorf("balance = %q, want 2.0", balance)
	}
}

func TestFetchEthBalanceRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]interface{}{"code": -32602, "message": "invalid address"},
		})
	}))
	defer server.Close()

	svc := &ethWeb3Service{
		httpClient: http.Client{Timeout: 5 * time.Second},
		rpcURL:     server.URL,
	}

	if _, err := svc.FetchEthBalance(context.Background(), "0xdeadbeef"); err == nil {
		t.Fatal("expected an error from the RPC error response")
	}
}
