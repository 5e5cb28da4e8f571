package full_node

import (
	"sync"

	"github.com/Luismorlan/scrooge_coin/config"
	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/Luismorlan/scrooge_coin/signature"
	"github.com/Luismorlan/scrooge_coin/tx_handler"
	"github.com/Luismorlan/scrooge_coin/utils"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	uuid "github.com/satori/go.uuid"
)

var (
	ErrNilTransaction       = errors.New("transaction is nil")
	ErrUnhashedTransaction  = errors.New("transaction has no hash")
	ErrDuplicateTransaction = errors.New("existing transaction, will not process")
	ErrHashMismatch         = errors.New("transaction hash doesn't match its content")
)

// A full node collects submitted transactions and admits them into its ledger one epoch at a time.
type FullNode struct {
	// Owns the ledger. Not safe for concurrent use, so every call goes through m.
	handler *tx_handler.TxHandler
	// Transaction pool it need to maintain. Incoming transaction are added to this pool.
	txPool *model.TransactionPool
	// Number of epochs processed so far.
	epoch int64
	// A single mutex for changing internal state.
	m sync.RWMutex
	// A unique identifier of this node, only used to tell logs apart.
	uuid   string
	logger zerolog.Logger
}

// Create a full node whose ledger starts as a copy of genesis.
func NewFullNode(c config.AppConfig, genesis *model.Ledger, logger zerolog.Logger) (*FullNode, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	verifier, err := signature.NewVerifier(c.Scheme())
	if err != nil {
		return nil, err
	}
	myuuid := uuid.NewV4().String()
	logger = logger.With().Str("node", myuuid).Logger()
	return &FullNode{
		handler: tx_handler.NewTxHandler(
			genesis,
			tx_handler.WithVerifier(verifier),
			tx_handler.WithLogger(logger),
			tx_handler.WithMetrics(c.MetricsEnabled),
			tx_handler.WithName(myuuid),
		),
		txPool: model.NewTransactionPool(),
		uuid:   myuuid,
		logger: logger,
	}, nil
}

func (f *FullNode) ID() string {
	return f.uuid
}

// AddTransactionToPool queues tx for the next epoch. The transaction isn't validated here
// because it may spend outputs of another pending transaction.
func (f *FullNode) AddTransactionToPool(tx *model.Transaction) error {
	if tx == nil {
		return ErrNilTransaction
	}
	if tx.Hash == "" {
		return ErrUnhashedTransaction
	}
	// The pool is keyed by hash, so a forged one could shadow an honest transaction.
	hash, err := utils.GetTransactionHash(tx)
	if err != nil {
		return errors.Wrap(err, "failed to hash transaction")
	}
	if hash != tx.Hash {
		return errors.Wrapf(ErrHashMismatch, "tx claims %s, content hashes to %s", tx.Hash, hash)
	}

	f.m.Lock()
	defer f.m.Unlock()

	if !f.txPool.Add(tx) {
		return errors.Wrap(ErrDuplicateTransaction, tx.Hash)
	}
	f.logger.Debug().Str("tx", tx.Hash).Int("pending", f.txPool.Len()).Msg("transaction added to pool")
	return nil
}

// ValidateTransaction checks tx against the current ledger alone, ignoring pending transactions.
func (f *FullNode) ValidateTransaction(tx *model.Transaction) bool {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.handler.IsValidTx(tx)
}

// ProcessEpoch handles every pending transaction, in arrival order, as one batch. Accepted
// transactions are returned; the rest are dropped and have to be submitted again.
func (f *FullNode) ProcessEpoch() []*model.Transaction {
	f.m.Lock()
	defer f.m.Unlock()

	pending := f.txPool.All()
	accepted := f.handler.HandleTxs(pending)
	f.txPool = model.NewTransactionPool()
	f.epoch++

	f.logger.Info().
		Int64("epoch", f.epoch).
		Int("accepted", len(accepted)).
		Int("dropped", len(pending)-len(accepted)).
		Msg("epoch processed")
	return accepted
}

// Return a deep copy of the current ledger.
func (f *FullNode) GetLedgerSnapshot() *model.Ledger {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.handler.Ledger()
}

// GetBalance returns all UTXOs the public key owns and their total value.
func (f *FullNode) GetBalance(pk []byte) (*model.Ledger, float64) {
	l := f.GetLedgerSnapshot().FilterByPublicKey(pk)
	return l, l.TotalValue()
}

func (f *FullNode) Epoch() int64 {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.epoch
}

func (f *FullNode) PendingCount() int {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.txPool.Len()
}
