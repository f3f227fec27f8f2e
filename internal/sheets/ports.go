package sheets

import (
	"context"

	"societypay/internal/core"
)

// PaymentWriter is the outbound port the sync worker appends through.
type PaymentWriter interface {
	Append(ctx context.Context, rec core.PaymentRecord) (rowRef string, err error)
}
