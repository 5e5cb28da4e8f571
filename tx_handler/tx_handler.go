// Package tx_handler admits transactions into a ledger of unspent outputs, one epoch at a time.
package tx_handler

import (
	"math"

	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/Luismorlan/scrooge_coin/signature"
	"github.com/Luismorlan/scrooge_coin/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	uuid "github.com/satori/go.uuid"
)

// Rejection reasons. They never leave the package: IsValidTx only answers yes or no.
var (
	errNilTransaction    = errors.New("nil transaction")
	errMalformed         = errors.New("malformed transaction")
	errMissingUtxo       = errors.New("claimed utxo is not in the ledger")
	errDoubleSpend       = errors.New("utxo claimed more than once")
	errInvalidSignature  = errors.New("invalid input signature")
	errInvalidOutput     = errors.New("output value is negative or not finite")
	errInsufficientInput = errors.New("outputs exceed inputs")
	errHashMismatch      = errors.New("transaction hash doesn't match its content")
)

func rejectionReason(err error) string {
	switch errors.Cause(err) {
	case errNilTransaction:
		return "nil_transaction"
	case errMalformed:
		return "malformed"
	case errMissingUtxo:
		return "missing_utxo"
	case errDoubleSpend:
		return "double_spend"
	case errInvalidSignature:
		return "invalid_signature"
	case errInvalidOutput:
		return "invalid_output"
	case errInsufficientInput:
		return "insufficient_input"
	case errHashMismatch:
		return "hash_mismatch"
	}
	return "unknown"
}

// TxHandler owns a private ledger and moves it forward as transactions are accepted.
// It is not safe for concurrent use; callers serialize access to one handler.
type TxHandler struct {
	name           string
	ledger         *model.Ledger
	verifier       signature.Verifier
	logger         zerolog.Logger
	metricsEnabled bool
}

// NewTxHandler creates a handler whose ledger is a deep copy of ledger, so the caller's
// ledger is never changed by the handler.
func NewTxHandler(ledger *model.Ledger, opts ...Option) *TxHandler {
	h := &TxHandler{
		name:           "default",
		ledger:         ledger.Copy(),
		verifier:       signature.RSAVerifier{},
		logger:         zerolog.Nop(),
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metricsEnabled {
		initPrometheusMetrics()
		prometheusLedgerSize.WithLabelValues(h.name).Set(float64(h.ledger.Len()))
	}
	return h
}

// Ledger returns a deep copy of the current ledger.
func (h *TxHandler) Ledger() *model.Ledger {
	return h.ledger.Copy()
}

// IsValidTx returns true if:
// 1. All outputs claimed by tx are in the current ledger.
// 2. No UTXO is claimed multiple times by tx.
// 3. The signature on each input is valid for the key of the output it claims.
// 4. All of tx's output values are non-negative.
// 5. The sum of tx's input values is greater than or equal to the sum of its output values.
// tx.Hash must also be the hash of its content, since new outputs are stored under it.
// The ledger is only read.
func (h *TxHandler) IsValidTx(tx *model.Transaction) bool {
	err := h.checkTx(tx)
	if h.metricsEnabled {
		if err == nil {
			prometheusTxValidations.WithLabelValues("valid").Inc()
		} else {
			prometheusTxValidations.WithLabelValues("invalid").Inc()
			prometheusTxRejections.WithLabelValues(rejectionReason(err)).Inc()
		}
	}
	if err != nil {
		h.logger.Trace().Err(err).Msg("transaction is not valid against the current ledger")
	}
	return err == nil
}

func (h *TxHandler) checkTx(tx *model.Transaction) error {
	if tx == nil {
		return errNilTransaction
	}
	for i, input := range tx.Inputs {
		if input == nil {
			return errors.Wrapf(errMalformed, "tx %s: input %d is nil", tx.Hash, i)
		}
	}
	for i, output := range tx.Outputs {
		if output == nil {
			return errors.Wrapf(errMalformed, "tx %s: output %d is nil", tx.Hash, i)
		}
	}
	// Outputs are stored under tx.Hash, so it has to be the hash of what was signed.
	hash, err := utils.GetTransactionHash(tx)
	if err != nil {
		return errors.Wrapf(errMalformed, "tx %s: %v", tx.Hash, err)
	}
	if hash != tx.Hash {
		return errors.Wrapf(errHashMismatch, "tx claims %s, content hashes to %s", tx.Hash, hash)
	}

	var totalInput = 0.0
	var totalOutput = 0.0
	// Store all seen UTXOs to avoid double spending.
	seenUtxo := make(map[model.UTXO]bool)

	for i, input := range tx.Inputs {
		utxo := input.UTXO()
		output, err := h.ledger.Get(utxo)
		if err != nil {
			return errors.Wrapf(errMissingUtxo, "tx %s: input %d claims %s:%d", tx.Hash, i, utxo.PrevTxHash, utxo.Index)
		}
		if seenUtxo[utxo] {
			return errors.Wrapf(errDoubleSpend, "tx %s: input %d claims %s:%d", tx.Hash, i, utxo.PrevTxHash, utxo.Index)
		}
		seenUtxo[utxo] = true

		msg, err := utils.GetRawDataToSign(tx, i)
		if err != nil {
			return errors.Wrapf(errMalformed, "tx %s: %v", tx.Hash, err)
		}
		if !h.verifier.Verify(output.PublicKey, msg, input.Signature) {
			return errors.Wrapf(errInvalidSignature, "tx %s: input %d", tx.Hash, i)
		}
		totalInput += output.Value
	}

	for i, output := range tx.Outputs {
		// NaN compares false against everything and would slip through both value checks.
		if output.Value < 0 || math.IsNaN(output.Value) || math.IsInf(output.Value, 0) {
			return errors.Wrapf(errInvalidOutput, "tx %s: output %d has value %v", tx.Hash, i, output.Value)
		}
		totalOutput += output.Value
	}

	if totalInput < totalOutput {
		return errors.Wrapf(errInsufficientInput, "tx %s: %v in, %v out", tx.Hash, totalInput, totalOutput)
	}
	return nil
}

// HandleTxs handles one epoch: it receives an unordered batch of proposed transactions,
// accepts a mutually valid subset, updates the ledger and returns the accepted transactions
// in the order they were accepted.
//
// Candidates are visited in submission order, repeatedly, until a pass accepts nothing.
// A transaction is accepted the moment it is valid against the current ledger, so one that
// spends an output created later in the same batch is picked up by a later pass. When two
// candidates claim the same UTXO, the one that becomes valid first wins and, within a pass,
// the earlier submitted one wins. Transactions with the same hash are only considered once.
func (h *TxHandler) HandleTxs(txs []*model.Transaction) []*model.Transaction {
	logger := h.logger.With().Str("epoch", uuid.NewV4().String()).Logger()

	remaining := dedupTransactions(txs)
	candidates := len(remaining)
	accepted := make([]*model.Transaction, 0, candidates)

	passes := 0
	for len(remaining) > 0 {
		passes++
		var rejected []*model.Transaction
		for _, tx := range remaining {
			if !h.IsValidTx(tx) {
				rejected = append(rejected, tx)
				continue
			}
			if err := utils.ApplyTransaction(tx, h.ledger); err != nil {
				// A validated transaction always applies; anything else is a bug in this package.
				panic(errors.Wrap(err, "failed to apply a validated transaction"))
			}
			accepted = append(accepted, tx)
			logger.Debug().Str("tx", tx.Hash).Int("pass", passes).Msg("transaction accepted")
		}
		progressed := len(rejected) < len(remaining)
		remaining = rejected
		if !progressed {
			break
		}
	}

	for _, tx := range remaining {
		logger.Debug().Str("tx", tx.Hash).Str("reason", rejectionReason(h.checkTx(tx))).Msg("transaction rejected")
	}

	if h.metricsEnabled {
		prometheusTxAccepted.Add(float64(len(accepted)))
		prometheusBatchPasses.Observe(float64(passes))
		prometheusLedgerSize.WithLabelValues(h.name).Set(float64(h.ledger.Len()))
	}
	logger.Info().
		Int("candidates", candidates).
		Int("accepted", len(accepted)).
		Int("rejected", len(remaining)).
		Int("passes", passes).
		Int("ledger_size", h.ledger.Len()).
		Msg("epoch handled")

	return accepted
}

// dedupTransactions drops nil entries and repeated hashes, keeping the first occurrence.
func dedupTransactions(txs []*model.Transaction) []*model.Transaction {
	seen := make(map[string]bool, len(txs))
	res := make([]*model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx == nil || seen[tx.Hash] {
			continue
		}
		seen[tx.Hash] = true
		res = append(res, tx)
	}
	return res
}
