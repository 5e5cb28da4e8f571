package tx_handler

import (
	"github.com/Luismorlan/scrooge_coin/signature"
	"github.com/rs/zerolog"
)

type Option func(*TxHandler)

// WithVerifier sets the signature scheme inputs are checked with. Defaults to RSA-PSS.
func WithVerifier(v signature.Verifier) Option {
	return func(h *TxHandler) {
		h.verifier = v
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(h *TxHandler) {
		h.logger = logger
	}
}

// WithMetrics turns prometheus recording on or off. On by default.
func WithMetrics(enabled bool) Option {
	return func(h *TxHandler) {
		h.metricsEnabled = enabled
	}
}

// WithName labels the ledger_size gauge of this handler. Handlers sharing a name share the gauge.
func WithName(name string) Option {
	return func(h *TxHandler) {
		h.name = name
	}
}
