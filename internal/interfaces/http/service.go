package httpinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/vesting-network/vesting-daemon/internal/core/application"
	"github.com/vesting-network/vesting-daemon/internal/core/application/pubsub"
	interfaces "github.com/vesting-network/vesting-daemon/internal/interfaces"
	"go.uber.org/ratelimit"
)

const (
	defaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
)

type ServiceOpts struct {
	Port int
	// RateLimit is the max number of requests served per second.
	RateLimit      int
	RequestTimeout time.Duration

	VestingSvc application.VestingService
	// Optional, webhook routes answer with 501 if missing.
	PubSubSvc *pubsub.Service
	// Optional, disables the /v1/stream route if missing.
	Stream *TransactionStream
	// Optional, disables the /metrics route if missing.
	Gatherer prometheus.Gatherer
}

func (o ServiceOpts) validate() error {
	if o.VestingSvc == nil {
		return fmt.Errorf("missing vesting service")
	}
	if o.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be a positive number")
	}
	return nil
}

func (o ServiceOpts) address() string {
	return fmt.Sprintf(":%d", o.Port)
}

type service struct {
	opts   ServiceOpts
	server *http.Server
}

// NewService returns the HTTP interface of the daemon listening on the
// given port.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	handler, err := NewHandler(opts)
	if err != nil {
		return nil, err
	}
	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              opts.address(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// NewHandler returns the router serving every route of the HTTP interface.
func NewHandler(opts ServiceOpts) (http.Handler, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(), requestLogger, throttle(ratelimit.New(opts.RateLimit)),
	)

	h := newHandler(opts.VestingSvc, opts.PubSubSvc, timeout)
	v1 := router.Group("/v1")
	v1.POST("/messages", h.sendMessage)
	v1.GET("/contracts", h.listContracts)

	v1.POST("/factory/deploy", h.deployFactory)
	v1.GET("/factory/:addr", h.getFactory)
	v1.GET("/factory/:addr/wallet-address", h.getWalletAddress)

	v1.POST("/registry/deploy", h.deployRegistry)
	v1.GET("/registry/:addr", h.getRegistry)
	v1.GET("/registry/:addr/wallets", h.getRegistryWallets)

	v1.GET("/accounts", h.listAccounts)
	v1.GET("/accounts/:addr", h.getAccount)

	v1.POST("/assets/mint", h.mintAsset)
	v1.GET("/assets/:issuer/:holder", h.getAssetBalance)

	v1.GET("/transactions", h.listTransactions)
	v1.GET("/transactions/:addr", h.listTransactionsForAddress)

	v1.POST("/webhooks", h.addWebhook)
	v1.GET("/webhooks", h.listWebhooks)
	v1.DELETE("/webhooks/:id", h.removeWebhook)

	if opts.Stream != nil {
		v1.GET("/stream", opts.Stream.serve)
	}
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}),
		))
	}

	return router, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Warn("http server stopped unexpectedly")
		}
	}()

	log.Infof("http interface is listening on %s", s.server.Addr)
	return nil
}

func (s *service) Stop() {
	if s.opts.Stream != nil {
		s.opts.Stream.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
		return
	}
	log.Debug("stopped http interface")
}
