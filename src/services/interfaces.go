// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/bitbudget/backend/src/finance"
)

// Cache settings for the yearly summary report cache.
const (
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

// Define common service errors
var (
	ErrNoWalletConnected = errors.New("no wallet connected to this account")
	ErrBalanceFetch      = errors.New("failed to fetch balance from RPC node")
)

// Advice is the output of the recommendation rule engine, ready to be
// persisted as an AiRecommendation.
type Advice struct {
	Title   string
	Content string
	Type    string
}

// AdvisorService turns an aggregated financial snapshot into a single piece
// of advice. Implementations are pure; persistence belongs to the handler.
type AdvisorService interface {
	Advise(snapshot finance.Snapshot, registry finance.Registry) Advice
}

// EmailService defines the interface for transactional mail.
type EmailService interface {
	SendVerificationEmail(email, username, token string) error
	SendPasswordResetEmail(email, username, token string) error
}

// Web3Service defines the interface for on-chain balance lookups.
type Web3Service interface {
	// FetchEthBalance returns the native ETH balance of an address as a
	// decimal string, e.g. "1.5".
	FetchEthBalance(ctx context.Context, address string) (string, error)
}
