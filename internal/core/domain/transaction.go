package domain

import "context"

// Transaction is the audit record of the processing of one message.
type Transaction struct {
	ID string
	// Seq orders the log and is assigned by the repository.
	Seq         uint64
	MessageID   string
	Sender      Address
	Destination Address
	// Kind of the destination contract, empty if skipped.
	Kind      ContractKind
	External  bool
	Op        uint32
	OpName    string
	QueryID   uint64
	Value     uint64
	ExitCode  uint32
	Error     string
	// Deployed is set when the message deployed its destination.
	Deployed bool
	// Skipped is set when the destination was not deployed and the message
	// could not deploy it, so nothing processed it.
	Skipped   bool
	Outbound  int
	Timestamp int64
}

func (t Transaction) IsSuccess() bool {
	return t.ExitCode == ExitCodeSuccess
}

// TransactionRepository is the abstraction for any kind of database
// intended to persist the transaction log.
type TransactionRepository interface {
	// AddTransaction appends a transaction to the log.
	AddTransaction(ctx context.Context, tx Transaction) error
	// GetTransaction returns the transaction with the given id.
	GetTransaction(ctx context.Context, id string) (*Transaction, error)
	// GetTransactionsForAddress returns the transactions sent or received by
	// addr, oldest first.
	GetTransactionsForAddress(
		ctx context.Context, addr Address, page *Page,
	) ([]Transaction, error)
	// GetAllTransactions returns all transactions, oldest first.
	GetAllTransactions(ctx context.Context, page *Page) ([]Transaction, error)
}
