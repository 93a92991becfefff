package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vesting-network/vesting-daemon/internal/config"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
)

func TestInitConfig(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("VESTING_DATADIR", datadir)
	t.Setenv("VESTING_DB_TYPE", "inmemory")
	t.Setenv("VESTING_REQUEST_TIMEOUT", "5")

	require.NoError(t, config.InitConfig())

	require.Equal(t, datadir, config.GetDatadir())
	require.Equal(t, "inmemory", config.GetString(config.DBTypeKey))
	require.Equal(t, 5*time.Second, config.GetSeconds(config.RequestTimeoutKey))
	require.Equal(t, domain.DefaultRoyaltyFee, config.GetUint64(config.RoyaltyFeeKey))
	require.Equal(t, domain.DefaultMaxWallets, config.GetUint32(config.MaxWalletsKey))

	for _, dir := range []string{config.DbLocation, config.PubSubLocation} {
		info, err := os.Stat(filepath.Join(datadir, dir))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
	_, err := os.Stat(filepath.Join(datadir, config.ProfilerLocation))
	require.True(t, os.IsNotExist(err))
}

func TestInitConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown db type", "VESTING_DB_TYPE", "postgres"},
		{"invalid owner", "VESTING_OWNER_ADDRESS", "not-an-address"},
		{"zero rate limit", "VESTING_RATE_LIMIT", "0"},
		{"zero max wallets", "VESTING_MAX_WALLETS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VESTING_DATADIR", t.TempDir())
			t.Setenv(tt.key, tt.val)
			require.Error(t, config.InitConfig())
		})
	}
}
