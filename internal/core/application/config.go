package application

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/application/pubsub"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	"github.com/vesting-network/vesting-daemon/internal/infrastructure/network"
	dbbadger "github.com/vesting-network/vesting-daemon/internal/infrastructure/storage/db/badger"
	"github.com/vesting-network/vesting-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/vesting-network/vesting-daemon/pkg/stats"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// Config wires the daemon components together. Components are built lazily
// on first access, so every exported field must be set before that.
type Config struct {
	DBType string
	// Datadir of the badger stores.
	DBConfig interface{}

	PubSub  ports.PubSub
	Clock   ports.Clock
	Metrics *stats.Metrics

	RoyaltyFee    uint64
	MinCreateCost uint64
	MaxWallets    uint32

	TransactionListeners []TransactionListener

	repo    ports.RepoManager
	network ports.Network
	vesting VestingService
	pubsub  *pubsub.Service
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
	}
	if c.DBType == DBBadger {
		if datadir, ok := c.DBConfig.(string); !ok || len(datadir) <= 0 {
			return fmt.Errorf("missing datadir for %s db", DBBadger)
		}
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) Network() ports.Network {
	network, _ := c.networkService()
	return network
}

func (c *Config) VestingService() VestingService {
	svc, _ := c.vestingService()
	return svc
}

func (c *Config) PubSubService() *pubsub.Service {
	svc, _ := c.pubsubService()
	return svc
}

// Close stops the network before closing the stores it writes to.
func (c *Config) Close() {
	if c.network != nil {
		c.network.Stop()
	}
	if c.pubsub != nil {
		c.pubsub.Close()
	}
	if c.repo != nil {
		c.repo.Close()
	}
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) clock() ports.Clock {
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	return c.Clock
}

func (c *Config) networkService() (ports.Network, error) {
	if c.network == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}

		handlers := map[domain.ContractKind]contractHandler{
			domain.KindVestingAccount: newAccountHandler(repo),
			domain.KindFactory:        newFactoryHandler(repo),
			domain.KindRegistry:       newRegistryHandler(repo, c.MaxWallets),
			domain.KindAssetWallet:    newAssetWalletHandler(repo),
		}
		listeners := append([]TransactionListener{}, c.TransactionListeners...)
		var onInFlight func(int)
		if c.Metrics != nil {
			listeners = append(listeners, c.observeTransaction)
			onInFlight = c.Metrics.SetInFlight
		}
		if svc, _ := c.pubsubService(); svc != nil {
			listeners = append(listeners, publishTransaction(svc))
		}

		executor := newExecutor(repo, c.clock(), handlers, listeners...)
		c.network = network.NewService(executor, onInFlight)
	}
	return c.network, nil
}

func (c *Config) vestingService() (VestingService, error) {
	if c.vesting == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		network, err := c.networkService()
		if err != nil {
			return nil, err
		}
		royaltyFee := c.RoyaltyFee
		if royaltyFee == 0 {
			royaltyFee = domain.DefaultRoyaltyFee
		}
		minCreateCost := c.MinCreateCost
		if minCreateCost == 0 {
			minCreateCost = domain.DefaultMinCreateCost
		}
		svc, err := NewVestingService(
			repo, network, c.clock(), royaltyFee, minCreateCost,
		)
		if err != nil {
			return nil, err
		}
		c.vesting = svc
	}
	return c.vesting, nil
}

func (c *Config) pubsubService() (*pubsub.Service, error) {
	if c.pubsub == nil {
		if c.PubSub == nil {
			return nil, ErrMissingPubSub
		}
		c.pubsub = pubsub.NewService(c.PubSub)
	}
	return c.pubsub, nil
}

func (c *Config) observeTransaction(tx domain.Transaction) {
	c.Metrics.ObserveMessage(tx.OpName, tx.ExitCode, tx.Outbound, tx.Skipped)
	if tx.Deployed {
		c.Metrics.ObserveDeployment(string(tx.Kind))
	}
}

// publishTransaction notifies webhooks without holding up the delivery of
// the message.
func publishTransaction(svc *pubsub.Service) TransactionListener {
	return func(tx domain.Transaction) {
		go func() {
			if err := svc.PublishTransactionEvent(tx); err != nil {
				log.WithError(err).Debugf(
					"failed to publish event for transaction %s", tx.ID,
				)
			}
		}()
	}
}
