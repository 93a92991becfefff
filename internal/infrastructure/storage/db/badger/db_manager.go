package dbbadger

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
)

const (
	stateDir        = "state"
	transactionsDir = "transactions"
	txSeqKey        = "txseq"
	seqBandwidth    = 100
)

type repoManager struct {
	stateStore *badgerhold.Store
	txStore    *badgerhold.Store
	txSeq      *badger.Sequence

	contractRepository    domain.ContractRepository
	accountRepository     domain.VestingAccountRepository
	factoryRepository     domain.FactoryRepository
	registryRepository    domain.RegistryRepository
	assetWalletRepository domain.AssetWalletRepository
	transactionRepository domain.TransactionRepository
}

// NewRepoManager opens (or creates if not exists) the badger stores on disk.
// It expects a base data dir and an optional logger. Contract states and
// the transaction log live in dedicated sub directories. An empty dir makes
// the stores in-memory.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var stateDbDir, txDbDir string
	if len(baseDbDir) > 0 {
		stateDbDir = filepath.Join(baseDbDir, stateDir)
		txDbDir = filepath.Join(baseDbDir, transactionsDir)
	}

	stateDb, err := createDb(stateDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	txDb, err := createDb(txDbDir, logger)
	if err != nil {
		stateDb.Close()
		return nil, fmt.Errorf("opening transactions db: %w", err)
	}

	txSeq, err := txDb.Badger().GetSequence([]byte(txSeqKey), seqBandwidth)
	if err != nil {
		stateDb.Close()
		txDb.Close()
		return nil, fmt.Errorf("opening transactions sequence: %w", err)
	}

	return &repoManager{
		stateStore:            stateDb,
		txStore:               txDb,
		txSeq:                 txSeq,
		contractRepository:    NewContractRepositoryImpl(stateDb),
		accountRepository:     NewVestingAccountRepositoryImpl(stateDb),
		factoryRepository:     NewFactoryRepositoryImpl(stateDb),
		registryRepository:    NewRegistryRepositoryImpl(stateDb),
		assetWalletRepository: NewAssetWalletRepositoryImpl(stateDb),
		transactionRepository: NewTransactionRepositoryImpl(txDb, txSeq),
	}, nil
}

func (r *repoManager) ContractRepository() domain.ContractRepository {
	return r.contractRepository
}

func (r *repoManager) VestingAccountRepository() domain.VestingAccountRepository {
	return r.accountRepository
}

func (r *repoManager) FactoryRepository() domain.FactoryRepository {
	return r.factoryRepository
}

func (r *repoManager) RegistryRepository() domain.RegistryRepository {
	return r.registryRepository
}

func (r *repoManager) AssetWalletRepository() domain.AssetWalletRepository {
	return r.assetWalletRepository
}

func (r *repoManager) TransactionRepository() domain.TransactionRepository {
	return r.transactionRepository
}

func (r *repoManager) Close() {
	//nolint
	r.txSeq.Release()
	r.txStore.Close()
	r.stateStore.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	opts.Compression = options.ZSTD
	if len(dbDir) <= 0 {
		opts = opts.WithInMemory(true)
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: seqBandwidth,
		Options:          opts,
	})
}

// update runs the read-modify-write cycle of the value at key in a single
// badger transaction. Nothing is written if updateFn errors.
func update(
	store *badgerhold.Store, key string, value interface{},
	notFound error, updateFn func() (interface{}, error),
) error {
	return store.Badger().Update(func(txn *badger.Txn) error {
		if err := store.TxGet(txn, key, value); err != nil {
			if err == badgerhold.ErrNotFound {
				return notFound
			}
			return err
		}
		updated, err := updateFn()
		if err != nil {
			return err
		}
		return store.TxUpdate(txn, key, updated)
	})
}

func insert(store *badgerhold.Store, key string, value interface{}) error {
	if err := store.Insert(key, value); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrContractAlreadyExists
		}
		return err
	}
	return nil
}

func get(store *badgerhold.Store, key string, value interface{}, notFound error) error {
	if err := store.Get(key, value); err != nil {
		if err == badgerhold.ErrNotFound {
			return notFound
		}
		return err
	}
	return nil
}
