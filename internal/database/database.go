// Package database defines the storage interface for service records.
// Analysis results are deliberately not persisted; the store holds only
// API keys and request audit logs.
package database

import (
	"context"
	"time"

	"github.com/shopcheck/credo/internal/models"
)

// Store defines the persistence interface.
type Store interface {
	// API key management
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	GetAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id string, t time.Time) error
	DeleteAPIKey(ctx context.Context, id string) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)

	// Audit logging
	LogRequest(ctx context.Context, log *models.AuditLog) error
	GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// Close releases the underlying connection.
	Close() error
}
