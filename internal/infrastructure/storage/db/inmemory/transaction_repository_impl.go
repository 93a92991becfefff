package inmemory

import (
	"context"
	"sync"

	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

type transactionInmemoryStore struct {
	transactions []domain.Transaction
	byID         map[string]int
	locker       *sync.RWMutex
}

type transactionRepositoryImpl struct {
	store *transactionInmemoryStore
}

// NewTransactionRepositoryImpl returns a new inmemory TransactionRepository
// implementation.
func NewTransactionRepositoryImpl() domain.TransactionRepository {
	return &transactionRepositoryImpl{&transactionInmemoryStore{
		transactions: make([]domain.Transaction, 0),
		byID:         make(map[string]int),
		locker:       &sync.RWMutex{},
	}}
}

func (r *transactionRepositoryImpl) AddTransaction(
	_ context.Context, tx domain.Transaction,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.byID[tx.ID]; ok {
		return nil
	}
	tx.Seq = uint64(len(r.store.transactions)) + 1
	r.store.byID[tx.ID] = len(r.store.transactions)
	r.store.transactions = append(r.store.transactions, tx)
	return nil
}

func (r *transactionRepositoryImpl) GetTransaction(
	_ context.Context, id string,
) (*domain.Transaction, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	i, ok := r.store.byID[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	tx := r.store.transactions[i]
	return &tx, nil
}

func (r *transactionRepositoryImpl) GetTransactionsForAddress(
	_ context.Context, addr domain.Address, page *domain.Page,
) ([]domain.Transaction, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	txs := make([]domain.Transaction, 0)
	for _, tx := range r.store.transactions {
		if tx.Sender == addr || tx.Destination == addr {
			txs = append(txs, tx)
		}
	}
	return paginate(txs, page), nil
}

func (r *transactionRepositoryImpl) GetAllTransactions(
	_ context.Context, page *domain.Page,
) ([]domain.Transaction, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	txs := append([]domain.Transaction{}, r.store.transactions...)
	return paginate(txs, page), nil
}

func paginate(txs []domain.Transaction, page *domain.Page) []domain.Transaction {
	if page == nil {
		return txs
	}
	start, end := page.Bounds(len(txs))
	return txs[start:end]
}
