package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/vesting-network/vesting-daemon/internal/core/application"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// HTTPListeningPortKey is the port where the HTTP operator interface will listen on
	HTTPListeningPortKey = "HTTP_LISTENING_PORT"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval in seconds for printing runtime statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// RoyaltyFeeKey is the royalty fee, in nano units, of newly deployed factories
	RoyaltyFeeKey = "ROYALTY_FEE"
	// MinCreateCostKey is the minimum native amount, in nano units, a grant
	// creation must attach on top of the royalty fee
	MinCreateCostKey = "MIN_CREATE_COST"
	// MaxWalletsKey is the capacity of newly deployed registries
	MaxWalletsKey = "MAX_WALLETS"
	// RequestTimeoutKey is the max duration in seconds of a request waiting for
	// the network to settle
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// RateLimitKey is the max number of HTTP requests served per second
	RateLimitKey = "RATE_LIMIT"
	// OwnerAddressKey is the optional address deploying a registry and a
	// factory at startup if set
	OwnerAddressKey = "OWNER_ADDRESS"
	// WebhookTimeoutKey is the timeout in seconds of webhook requests
	WebhookTimeoutKey = "WEBHOOK_TIMEOUT"

	DbLocation       = "db"
	PubSubLocation   = "pubsub"
	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("vesting-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("VESTING")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(HTTPListeningPortKey, 9090)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)
	vip.SetDefault(RoyaltyFeeKey, domain.DefaultRoyaltyFee)
	vip.SetDefault(MinCreateCostKey, domain.DefaultMinCreateCost)
	vip.SetDefault(MaxWalletsKey, domain.DefaultMaxWallets)
	vip.SetDefault(RequestTimeoutKey, 30)
	vip.SetDefault(RateLimitKey, 100)
	vip.SetDefault(WebhookTimeoutKey, 15)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetUint32(key string) uint32 {
	return vip.GetUint32(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetSeconds reads key as a number of seconds.
func GetSeconds(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	if owner := GetString(OwnerAddressKey); owner != "" {
		if _, err := domain.ParseAddress(owner); err != nil {
			return fmt.Errorf("%s: %s", OwnerAddressKey, err)
		}
	}

	for _, key := range []string{
		HTTPListeningPortKey, RequestTimeoutKey, RateLimitKey, WebhookTimeoutKey,
	} {
		if GetInt(key) <= 0 {
			return fmt.Errorf("%s must be a positive number", key)
		}
	}
	if GetUint32(MaxWalletsKey) == 0 {
		return fmt.Errorf("%s must be a positive number", MaxWalletsKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, PubSubLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
