package unmask

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	id "bigoffice/pkg/domain"
)

// CodeStore is an optional short-TTL mirror of second-factor codes for
// multi-instance deployments. The bcrypt hash on the request row stays
// canonical; the mirror only provides TTL enforcement close to the edge.
// A nil CodeStore is valid and disables the mirror.
type CodeStore interface {
	Save(ctx context.Context, requestID id.UnmaskRequestID, code string, ttl time.Duration) error
	Delete(ctx context.Context, requestID id.UnmaskRequestID) error
}

// generateCode returns a uniformly random six-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate second-factor code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
