// Package network delivers messages between contracts with one protoactor
// actor per destination address. Every actor processes the messages of its
// address one at a time and in the order they were sent.
package network

import (
	"context"
	"errors"
	"sync"

	"github.com/asynkron/protoactor-go/actor"
	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
)

const actorPrefix = "contract"

var (
	// ErrStopped is returned when sending to a stopped network.
	ErrStopped = errors.New("network is stopped")
)

type service struct {
	system    *actor.ActorSystem
	processor ports.MessageProcessor
	ctx       context.Context
	cancel    context.CancelFunc

	lock       sync.Mutex
	actors     map[domain.Address]*actor.PID
	inFlight   int
	waiters    []chan struct{}
	stopped    bool
	onInFlight func(int)
}

// NewService returns a network delivering messages to processor. The
// optional onInFlight callback is invoked with the number of queued
// messages every time it changes.
func NewService(
	processor ports.MessageProcessor, onInFlight func(int),
) ports.Network {
	ctx, cancel := context.WithCancel(context.Background())
	return &service{
		system:     actor.NewActorSystem(),
		processor:  processor,
		ctx:        ctx,
		cancel:     cancel,
		actors:     make(map[domain.Address]*actor.PID),
		onInFlight: onInFlight,
	}
}

func (s *service) Send(_ context.Context, msg domain.Message) error {
	return s.enqueue(msg)
}

func (s *service) Settle(ctx context.Context) error {
	s.lock.Lock()
	if s.stopped {
		s.lock.Unlock()
		return ErrStopped
	}
	if s.inFlight == 0 {
		s.lock.Unlock()
		return nil
	}
	ch := make(chan struct{})
	s.waiters = append(s.waiters, ch)
	s.lock.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *service) Stop() {
	s.lock.Lock()
	if s.stopped {
		s.lock.Unlock()
		return
	}
	s.stopped = true
	s.releaseWaiters()
	s.lock.Unlock()

	s.cancel()
	s.system.Shutdown()
	log.Debug("network stopped")
}

// enqueue accounts msg as in flight and hands it to the actor of its
// destination, spawning it if needed.
func (s *service) enqueue(msg domain.Message) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.stopped {
		return ErrStopped
	}
	pid, ok := s.actors[msg.Destination]
	if !ok {
		props := actor.PropsFromProducer(func() actor.Actor {
			return &contractActor{address: msg.Destination, network: s}
		})
		pid = s.system.Root.SpawnPrefix(props, actorPrefix)
		s.actors[msg.Destination] = pid
	}
	s.inFlight++
	s.notifyInFlight()
	s.system.Root.Send(pid, &delivery{msg})
	return nil
}

// deliver processes msg and queues the messages it produces before marking
// it as done, so that the network never looks settled in between.
func (s *service) deliver(msg domain.Message) {
	defer s.done()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"id":          msg.ID,
				"destination": msg.Destination,
			}).Errorf("panic while processing message: %v", r)
		}
	}()

	_, outbound := s.processor.Process(s.ctx, msg)
	for _, out := range outbound {
		if err := s.enqueue(out); err != nil {
			log.WithError(err).WithField("destination", out.Destination).
				Warn("dropping outbound message")
		}
	}
}

func (s *service) done() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.inFlight--
	s.notifyInFlight()
	if s.inFlight == 0 {
		s.releaseWaiters()
	}
}

func (s *service) releaseWaiters() {
	for _, ch := range s.waiters {
		close(ch)
	}
	s.waiters = nil
}

func (s *service) notifyInFlight() {
	if s.onInFlight != nil {
		s.onInFlight(s.inFlight)
	}
}

type delivery struct {
	msg domain.Message
}

// contractActor is the mailbox of a single address.
type contractActor struct {
	address domain.Address
	network *service
}

func (a *contractActor) Receive(c actor.Context) {
	switch m := c.Message().(type) {
	case *actor.Started:
		log.WithField("address", a.address).Trace("contract actor started")
	case *actor.Stopping:
		log.WithField("address", a.address).Trace("contract actor stopping")
	case *delivery:
		a.network.deliver(m.msg)
	default:
		log.WithField("address", a.address).Debugf(
			"ignoring unexpected actor message %T", m,
		)
	}
}
