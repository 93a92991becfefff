package dbbadger

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type transactionRepositoryImpl struct {
	store *badgerhold.Store
	seq   *badger.Sequence
}

// NewTransactionRepositoryImpl returns a badger implementation of
// domain.TransactionRepository. Seq numbers are drawn from the given
// badger sequence.
func NewTransactionRepositoryImpl(
	store *badgerhold.Store, seq *badger.Sequence,
) domain.TransactionRepository {
	return &transactionRepositoryImpl{store, seq}
}

func (r *transactionRepositoryImpl) AddTransaction(
	_ context.Context, tx domain.Transaction,
) error {
	n, err := r.seq.Next()
	if err != nil {
		return err
	}
	tx.Seq = n + 1

	if err := r.store.Insert(tx.ID, tx); err != nil {
		if err == badgerhold.ErrKeyExists {
			return nil
		}
		return err
	}
	return nil
}

func (r *transactionRepositoryImpl) GetTransaction(
	_ context.Context, id string,
) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := get(r.store, id, &tx, domain.ErrTransactionNotFound); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepositoryImpl) GetTransactionsForAddress(
	_ context.Context, addr domain.Address, page *domain.Page,
) ([]domain.Transaction, error) {
	query := badgerhold.Where("Sender").Eq(addr).
		Or(badgerhold.Where("Destination").Eq(addr))
	return r.findTransactions(query, page)
}

func (r *transactionRepositoryImpl) GetAllTransactions(
	_ context.Context, page *domain.Page,
) ([]domain.Transaction, error) {
	return r.findTransactions(nil, page)
}

func (r *transactionRepositoryImpl) findTransactions(
	query *badgerhold.Query, page *domain.Page,
) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := r.store.Find(&txs, query); err != nil {
		return nil, err
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Seq < txs[j].Seq })

	if page == nil {
		return txs, nil
	}
	start, end := page.Bounds(len(txs))
	return txs[start:end], nil
}
