package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

// contractHandler implements the logic of one kind of contract.
type contractHandler interface {
	// Deploy persists the initial state of the contract at addr.
	Deploy(ctx context.Context, addr domain.Address, init domain.StateInit, now int64) error
	// Handle processes msg against the state of its destination and returns
	// the messages to send. State changes are persisted only if no error is
	// returned.
	Handle(ctx context.Context, msg domain.Message, now int64) ([]domain.Message, error)
}

// TransactionListener is notified of every processed message.
type TransactionListener func(tx domain.Transaction)

// executor is the ports.MessageProcessor dispatching every message to the
// handler of the contract deployed at its destination.
type executor struct {
	repo      ports.RepoManager
	clock     ports.Clock
	handlers  map[domain.ContractKind]contractHandler
	listeners []TransactionListener
}

func newExecutor(
	repo ports.RepoManager, clock ports.Clock,
	handlers map[domain.ContractKind]contractHandler,
	listeners ...TransactionListener,
) *executor {
	return &executor{repo, clock, handlers, listeners}
}

func (e *executor) Process(
	ctx context.Context, msg domain.Message,
) (domain.Transaction, []domain.Message) {
	now := e.clock.Now()
	tx := newTransaction(msg, now)

	outbound, err := e.process(ctx, msg, now, &tx)
	if err != nil {
		outbound = nil
		tx.ExitCode = domain.ExitCodeOf(err)
		tx.Error = err.Error()
	}
	for i := range outbound {
		outbound[i].CreatedAt = now
	}
	tx.Outbound = len(outbound)

	entry := log.WithFields(log.Fields{
		"destination": tx.Destination,
		"op":          tx.OpName,
		"exit_code":   tx.ExitCode,
	})
	if tx.IsSuccess() {
		entry.Debug("message processed")
	} else {
		entry.WithError(err).Warn("message rejected")
	}

	if err := e.repo.TransactionRepository().AddTransaction(ctx, tx); err != nil {
		log.WithError(err).Warn("failed to persist transaction")
	}
	for _, l := range e.listeners {
		l(tx)
	}

	return tx, outbound
}

func (e *executor) process(
	ctx context.Context, msg domain.Message, now int64, tx *domain.Transaction,
) ([]domain.Message, error) {
	contract, err := e.repo.ContractRepository().GetContract(ctx, msg.Destination)
	if err != nil {
		if !errors.Is(err, domain.ErrContractNotFound) {
			return nil, err
		}
		if msg.StateInit == nil || msg.StateInit.Address() != msg.Destination {
			tx.Skipped = true
			return nil, nil
		}
		if contract, err = e.deploy(ctx, *msg.StateInit, now); err != nil {
			return nil, err
		}
		tx.Deployed = true
	}
	tx.Kind = contract.Kind

	handler, ok := e.handlers[contract.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContractKind, contract.Kind)
	}
	return handler.Handle(ctx, msg, now)
}

func (e *executor) deploy(
	ctx context.Context, init domain.StateInit, now int64,
) (*domain.Contract, error) {
	contract := domain.NewContract(init, now)
	handler, ok := e.handlers[contract.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContractKind, contract.Kind)
	}
	if err := handler.Deploy(ctx, contract.Address, init, now); err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", contract.Kind, err)
	}
	if err := e.repo.ContractRepository().AddContract(ctx, contract); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"address": contract.Address,
		"kind":    contract.Kind,
	}).Debug("contract deployed")
	return &contract, nil
}

func newTransaction(msg domain.Message, now int64) domain.Transaction {
	tx := domain.Transaction{
		ID:          uuid.New().String(),
		MessageID:   msg.ID,
		Sender:      msg.Sender,
		Destination: msg.Destination,
		External:    msg.External,
		Value:       msg.Value,
		Timestamp:   now,
	}

	body := msg.Body
	if msg.External {
		if _, rest, err := vestingmsg.ReadExternalHeader(body); err == nil {
			body = rest
		}
	}
	if header, err := vestingmsg.ReadHeader(body); err == nil {
		tx.Op = header.Op
		tx.OpName = vestingmsg.OpName(header.Op)
		tx.QueryID = header.QueryID
	}
	return tx
}
