package model

type Input struct {
	// Hash of the transaction that outputs this coin.
	PrevTxHash string
	// The index of the output in that transaction. Together with PrevTxHash, it identifies the unique output.
	Index int64
	// Signature over the transaction's raw data for this input, made with the previous owner's key.
	Signature []byte
}

// UTXO returns the unspent output this input claims.
func (in *Input) UTXO() UTXO {
	return UTXO{
		PrevTxHash: in.PrevTxHash,
		Index:      in.Index,
	}
}

type Output struct {
	// how much value to transfer.
	Value float64
	// Public key of the receiver, in the form of bytes.
	PublicKey []byte
}

type Transaction struct {
	// Hash of this transaction. We use this to uniquely identify the transaction.
	Hash string
	// All inputs of this transaction.
	Inputs []*Input
	// All outputs of this transaction.
	Outputs []*Output
}

// TransactionPool contains all pending transactions that haven't been handled in an epoch yet.
// Arrival order is kept so that an epoch sees transactions in the order they were submitted.
type TransactionPool struct {
	// Key is the hex of transaction's hash, value is the transaction.
	TxPool map[string]*Transaction
	// Hashes in arrival order.
	order []string
}

// NewTransactionPool creates a new transaction pool with no transaction at all.
func NewTransactionPool() *TransactionPool {
	return &TransactionPool{
		TxPool: make(map[string]*Transaction),
	}
}

func (p *TransactionPool) Has(hash string) bool {
	_, ok := p.TxPool[hash]
	return ok
}

// Add returns false if a transaction with the same hash is already pending.
func (p *TransactionPool) Add(tx *Transaction) bool {
	if p.Has(tx.Hash) {
		return false
	}
	p.TxPool[tx.Hash] = tx
	p.order = append(p.order, tx.Hash)
	return true
}

func (p *TransactionPool) Remove(hash string) {
	if !p.Has(hash) {
		return
	}
	delete(p.TxPool, hash)
	for i, h := range p.order {
		if h == hash {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// All returns every pending transaction in arrival order.
func (p *TransactionPool) All() []*Transaction {
	txs := make([]*Transaction, 0, len(p.order))
	for _, h := range p.order {
		txs = append(txs, p.TxPool[h])
	}
	return txs
}

func (p *TransactionPool) Len() int {
	return len(p.TxPool)
}
