package wallet

import (
	"math"

	"github.com/Luismorlan/scrooge_coin/model"
	"github.com/Luismorlan/scrooge_coin/signature"
	"github.com/Luismorlan/scrooge_coin/utils"
	"github.com/pkg/errors"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// User signs transactions that spend the outputs it owns.
type Wallet struct {
	signer signature.Signer
	// Outputs owned by this wallet that it hasn't spent yet.
	utxos *model.Ledger
}

func NewWallet(signer signature.Signer) *Wallet {
	return &Wallet{
		signer: signer,
		utxos:  model.NewLedger(),
	}
}

func (w *Wallet) PublicKey() []byte {
	return w.signer.PublicKey()
}

// SyncFromLedger replaces the known UTXOs with the ones l says this wallet owns.
func (w *Wallet) SyncFromLedger(l *model.Ledger) {
	w.utxos = l.FilterByPublicKey(w.PublicKey())
}

func (w *Wallet) Balance() float64 {
	return w.utxos.TotalValue()
}

// TransferMoney creates a signed transaction paying value to the hex encoded receiverPK.
func (w *Wallet) TransferMoney(receiverPK string, value float64) (*model.Transaction, error) {
	pk, err := utils.HexToBytes(receiverPK)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse receiverPK")
	}
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, errors.Errorf("transfer value must be positive and finite, got %v", value)
	}
	return w.CreatePendingTransaction([]*model.Output{{PublicKey: pk, Value: value}})
}

// Create a pending transaction spending every UTXO of the wallet to pay outputs. What's left
// goes back to the wallet as change. Spent UTXOs are forgotten by the wallet; call
// SyncFromLedger if the transaction doesn't make it into the ledger.
func (w *Wallet) CreatePendingTransaction(outputs []*model.Output) (*model.Transaction, error) {
	var inputs []*model.Input
	// Total money from all UTXOs
	var totalValue = 0.0
	for _, utxo := range w.utxos.Utxos() {
		inputs = append(inputs, &model.Input{
			PrevTxHash: utxo.PrevTxHash,
			Index:      utxo.Index,
		})
		totalValue += w.utxos.L[utxo].Value
	}
	// Total amount of money will be transferred to others
	var totalTransferValue = 0.0
	for _, output := range outputs {
		totalTransferValue += output.Value
	}
	if totalTransferValue > totalValue {
		return nil, errors.Wrapf(ErrInsufficientFunds, "have %v, need %v", totalValue, totalTransferValue)
	}

	if change := totalValue - totalTransferValue; change > 0 {
		outputs = append(outputs, &model.Output{
			Value:     change,
			PublicKey: w.PublicKey(),
		})
	}
	pendingTransaction := &model.Transaction{
		Inputs:  inputs,
		Outputs: outputs,
	}
	// sign inputs with own private key
	for i := range inputs {
		toSignMsg, err := utils.GetRawDataToSign(pendingTransaction, i)
		if err != nil {
			return nil, err
		}
		inputs[i].Signature, err = w.signer.Sign(toSignMsg)
		if err != nil {
			return nil, err
		}
	}
	if err := utils.FinalizeTransaction(pendingTransaction); err != nil {
		return nil, err
	}

	for _, input := range inputs {
		if err := w.utxos.Remove(input.UTXO()); err != nil {
			return nil, err
		}
	}
	return pendingTransaction, nil
}
