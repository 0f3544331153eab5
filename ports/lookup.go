package ports

import (
	"context"

	"github.com/cadastra/cepd/core"
)

// AddressLookup queries the external postal-code directory.
type AddressLookup interface {
	// Fetch resolves a normalized 8-digit CEP. Failures are classified as
	// core.ErrCEPNotFound, core.ErrInvalidCEP, core.ErrUpstreamTimeout or
	// core.ErrUpstreamUnavailable.
	Fetch(ctx context.Context, cep string) (*core.Address, error)
}
