package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/config"
	"github.com/vesting-network/vesting-daemon/internal/core/application"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/infrastructure/pubsub"
	httpinterface "github.com/vesting-network/vesting-daemon/internal/interfaces/http"
	"github.com/vesting-network/vesting-daemon/pkg/stats"
)

// nolint
var (
	// Build info
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbDir := filepath.Join(datadir, config.DbLocation)
	pubsubDir := filepath.Join(datadir, config.PubSubLocation)
	profilerEnabled := config.GetBool(config.EnableProfilerKey)
	statsInterval := config.GetSeconds(config.StatsIntervalKey)
	dbType := config.GetString(config.DBTypeKey)
	if dbType == application.DBInMemory {
		pubsubDir = ""
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	metrics, err := stats.NewMetrics(registry)
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}

	pubsubSvc, err := pubsub.NewService(
		pubsubDir, log.New(), config.GetSeconds(config.WebhookTimeoutKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize pubsub service")
	}

	stream := httpinterface.NewTransactionStream()
	appConfig := &application.Config{
		DBType:               dbType,
		DBConfig:             dbDir,
		PubSub:               pubsubSvc,
		Metrics:              metrics,
		RoyaltyFee:           config.GetUint64(config.RoyaltyFeeKey),
		MinCreateCost:        config.GetUint64(config.MinCreateCostKey),
		MaxWallets:           config.GetUint32(config.MaxWalletsKey),
		TransactionListeners: []application.TransactionListener{stream.Notify},
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid application config")
	}
	defer appConfig.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if profilerEnabled {
		stats.EnableMemoryStatistics(
			ctx, statsInterval, registry,
			filepath.Join(datadir, config.ProfilerLocation),
		)
	}

	vestingSvc := appConfig.VestingService()
	if s := config.GetString(config.OwnerAddressKey); s != "" {
		owner, _ := domain.ParseAddress(s)
		if err := bootstrap(ctx, vestingSvc, owner); err != nil {
			log.WithError(err).Fatal("failed to deploy singletons")
		}
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:           config.GetInt(config.HTTPListeningPortKey),
		RateLimit:      config.GetInt(config.RateLimitKey),
		RequestTimeout: config.GetSeconds(config.RequestTimeoutKey),
		VestingSvc:     vestingSvc,
		PubSubSvc:      appConfig.PubSubService(),
		Stream:         stream,
		Gatherer:       registry,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize http interface")
	}

	log.Infof("vesting daemon %s (%s %s)", version, commit, date)
	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start http interface")
	}
	defer svc.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
}

// bootstrap deploys a registry and a factory bound to it, both owned by
// owner, unless a previous run already did.
func bootstrap(
	ctx context.Context, svc application.VestingService, owner domain.Address,
) error {
	registry, err := findRegistry(ctx, svc, owner)
	if err != nil {
		return err
	}
	if registry == "" {
		res, err := svc.DeployRegistry(
			ctx, application.DeployRegistryReq{Owner: owner}, true,
		)
		if err != nil {
			return err
		}
		registry = res.Address
		log.Infof("deployed registry at %s", registry)
	}

	factory, err := findFactory(ctx, svc, owner, registry)
	if err != nil {
		return err
	}
	if factory == "" {
		res, err := svc.DeployFactory(ctx, application.DeployFactoryReq{
			Owner:    owner,
			Registry: registry,
		}, true)
		if err != nil {
			return err
		}
		factory = res.Address
		log.Infof("deployed factory at %s", factory)
	}

	log.WithFields(log.Fields{
		"registry": registry,
		"factory":  factory,
	}).Info("singletons ready")
	return nil
}

func findRegistry(
	ctx context.Context, svc application.VestingService, owner domain.Address,
) (domain.Address, error) {
	contracts, err := svc.ListContracts(ctx, domain.KindRegistry)
	if err != nil {
		return "", err
	}
	for _, c := range contracts {
		info, err := svc.GetRegistry(ctx, c.Address)
		if err != nil {
			return "", err
		}
		if info.Owner == owner {
			return c.Address, nil
		}
	}
	return "", nil
}

func findFactory(
	ctx context.Context, svc application.VestingService,
	owner, registry domain.Address,
) (domain.Address, error) {
	contracts, err := svc.ListContracts(ctx, domain.KindFactory)
	if err != nil {
		return "", err
	}
	for _, c := range contracts {
		info, err := svc.GetFactory(ctx, c.Address)
		if err != nil {
			return "", err
		}
		if info.Owner == owner && info.Registry == registry {
			return c.Address, nil
		}
	}
	return "", nil
}
