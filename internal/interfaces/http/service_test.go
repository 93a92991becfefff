package httpinterface_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/thanhpk/randstr"
	"github.com/vesting-network/vesting-daemon/internal/core/application"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/internal/infrastructure/pubsub"
	httpinterface "github.com/vesting-network/vesting-daemon/internal/interfaces/http"
	"github.com/vesting-network/vesting-daemon/pkg/stats"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

type fixedClock int64

func (c fixedClock) Now() int64 {
	return int64(c)
}

func newTestServer(t *testing.T, withPubSub bool) *testServer {
	registry := prometheus.NewRegistry()
	metrics, err := stats.NewMetrics(registry)
	require.NoError(t, err)

	stream := httpinterface.NewTransactionStream()
	cfg := &application.Config{
		DBType:               application.DBInMemory,
		Clock:                fixedClock(1700000000),
		Metrics:              metrics,
		TransactionListeners: []application.TransactionListener{stream.Notify},
	}
	if withPubSub {
		ps, err := pubsub.NewService("", nil, time.Second)
		require.NoError(t, err)
		cfg.PubSub = ps
	}
	require.NoError(t, cfg.Validate())

	opts := httpinterface.ServiceOpts{
		RateLimit:      1000,
		RequestTimeout: 5 * time.Second,
		VestingSvc:     cfg.VestingService(),
		Stream:         stream,
		Gatherer:       registry,
	}
	if withPubSub {
		opts.PubSubSvc = cfg.PubSubService()
	}
	handler, err := httpinterface.NewHandler(opts)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		stream.Close()
		srv.Close()
		cfg.Close()
	})
	return &testServer{srv, t}
}

func (s *testServer) do(method, path string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer res.Body.Close()

	out := map[string]interface{}{}
	buf, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	if len(buf) > 0 {
		require.NoError(s.t, json.Unmarshal(buf, &out))
	}
	return res.StatusCode, out
}

func randomAddress() string {
	return "0:" + randstr.Hex(32)
}

func TestDeployAndQuery(t *testing.T) {
	srv := newTestServer(t, false)
	owner := randomAddress()

	status, res := srv.do(http.MethodPost, "/v1/registry/deploy?wait=true", map[string]string{
		"owner": owner,
	})
	require.Equal(t, http.StatusOK, status, res)
	registry := res["address"].(string)

	status, _ = srv.do(http.MethodPost, "/v1/registry/deploy?wait=true", map[string]string{
		"owner": owner,
	})
	require.Equal(t, http.StatusConflict, status)

	status, res = srv.do(http.MethodPost, "/v1/factory/deploy?wait=true", map[string]string{
		"owner":    owner,
		"registry": registry,
	})
	require.Equal(t, http.StatusOK, status, res)
	factory := res["address"].(string)

	status, res = srv.do(http.MethodGet, "/v1/factory/"+factory, nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Equal(t, owner, res["owner"])
	require.Equal(t, registry, res["registry"])
	require.Equal(t, float64(domain.DefaultRoyaltyFee), res["royalty_fee"])
	require.Equal(t, float64(0), res["wallets_created"])
	require.NotEmpty(t, res["template_hash"])

	status, res = srv.do(http.MethodGet, "/v1/registry/"+registry, nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Equal(t, owner, res["owner"])
	require.Equal(t, float64(0), res["total_wallets"])

	query := fmt.Sprintf(
		"owner=%s&recipient=%s&issuer=%s&total=1000&start=100&duration=1000&period=100&cliff=0&cancel=2",
		owner, randomAddress(), randomAddress(),
	)
	status, res = srv.do(http.MethodGet, "/v1/factory/"+factory+"/wallet-address?"+query, nil)
	require.Equal(t, http.StatusOK, status, res)
	_, err := domain.ParseAddress(res["address"].(string))
	require.NoError(t, err)

	status, again := srv.do(http.MethodGet, "/v1/factory/"+factory+"/wallet-address?"+query, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, res["address"], again["address"])

	badQuery := strings.Replace(query, "duration=1000", "duration=0", 1)
	status, _ = srv.do(http.MethodGet, "/v1/factory/"+factory+"/wallet-address?"+badQuery, nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = srv.do(http.MethodGet, "/v1/registry/"+registry+"/wallets?by=unknown&key="+owner, nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, res = srv.do(http.MethodGet, "/v1/registry/"+registry+"/wallets?by=owner&key="+owner, nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Empty(t, res["wallets"])

	status, res = srv.do(http.MethodGet, "/v1/contracts?kind=factory", nil)
	require.Equal(t, http.StatusOK, status, res)
	contracts := res["contracts"].([]interface{})
	require.Len(t, contracts, 1)
	require.Equal(t, factory, contracts[0].(map[string]interface{})["address"])

	status, res = srv.do(http.MethodGet, "/v1/contracts", nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Len(t, res["contracts"], 2)

	status, _ = srv.do(http.MethodGet, "/v1/contracts?kind=unknown", nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = srv.do(http.MethodGet, "/v1/factory/"+randomAddress(), nil)
	require.Equal(t, http.StatusNotFound, status)

	status, _ = srv.do(http.MethodGet, "/v1/accounts/"+randomAddress(), nil)
	require.Equal(t, http.StatusNotFound, status)

	status, res = srv.do(http.MethodGet, "/v1/accounts?owner="+owner+"&at=1500", nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Empty(t, res["accounts"])

	status, res = srv.do(http.MethodGet, "/v1/accounts?page=1&size=10", nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Empty(t, res["accounts"])

	status, _ = srv.do(http.MethodGet, "/v1/accounts?owner=0:abc", nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = srv.do(http.MethodGet, "/v1/accounts?at=soon", nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = srv.do(http.MethodGet, "/v1/factory/not-an-address", nil)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestMintAndBalance(t *testing.T) {
	srv := newTestServer(t, false)
	issuer, holder := randomAddress(), randomAddress()

	status, res := srv.do(http.MethodPost, "/v1/assets/mint?wait=true", map[string]string{
		"issuer": issuer,
		"holder": holder,
		"amount": "1000",
	})
	require.Equal(t, http.StatusOK, status, res)
	wallet := res["address"].(string)

	status, res = srv.do(http.MethodGet, fmt.Sprintf("/v1/assets/%s/%s", issuer, holder), nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Equal(t, "1000", res["balance"])

	status, res = srv.do(http.MethodGet, "/v1/transactions/"+wallet, nil)
	require.Equal(t, http.StatusOK, status, res)
	txs := res["transactions"].([]interface{})
	require.Len(t, txs, 1)
	tx := txs[0].(map[string]interface{})
	require.Equal(t, true, tx["deployed"])
	require.Equal(t, float64(domain.ExitCodeSuccess), tx["exit_code"])

	status, res = srv.do(http.MethodGet, "/v1/transactions?page=1&size=10", nil)
	require.Equal(t, http.StatusOK, status, res)
	require.Len(t, res["transactions"], 1)

	for _, amount := range []string{"-1", "0", "1.5", "abc"} {
		status, _ = srv.do(http.MethodPost, "/v1/assets/mint", map[string]string{
			"issuer": issuer,
			"holder": holder,
			"amount": amount,
		})
		require.Equal(t, http.StatusBadRequest, status, amount)
	}
}

func TestSendMessage(t *testing.T) {
	srv := newTestServer(t, false)
	dest := randomAddress()

	status, res := srv.do(http.MethodPost, "/v1/messages?wait=true", map[string]interface{}{
		"destination": dest,
		"external":    true,
		"body":        "",
	})
	require.Equal(t, http.StatusOK, status, res)
	require.NotEmpty(t, res["message_id"])
	tx := res["transaction"].(map[string]interface{})
	require.Equal(t, true, tx["skipped"])
	require.Equal(t, res["message_id"], tx["message_id"])

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "invalid body",
			body: map[string]interface{}{
				"sender":      randomAddress(),
				"destination": dest,
				"body":        "zz",
			},
		},
		{
			name: "missing sender",
			body: map[string]interface{}{
				"destination": dest,
			},
		},
		{
			name: "invalid destination",
			body: map[string]interface{}{
				"sender":      randomAddress(),
				"destination": "0:abc",
			},
		},
		{
			name: "state init not matching destination",
			body: map[string]interface{}{
				"destination": dest,
				"external":    true,
				"state_init": map[string]string{
					"code": "00",
					"data": "00",
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := srv.do(http.MethodPost, "/v1/messages", tt.body)
			require.Equal(t, http.StatusBadRequest, status)
		})
	}
}

func TestWebhooks(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		srv := newTestServer(t, true)

		status, res := srv.do(http.MethodPost, "/v1/webhooks", map[string]string{
			"event":    "TRANSACTION",
			"endpoint": "http://localhost:8000/hook",
			"secret":   "secret",
		})
		require.Equal(t, http.StatusOK, status, res)
		id := res["id"].(string)

		status, res = srv.do(http.MethodGet, "/v1/webhooks", nil)
		require.Equal(t, http.StatusOK, status, res)
		hooks := res["webhooks"].([]interface{})
		require.Len(t, hooks, 1)
		hook := hooks[0].(map[string]interface{})
		require.Equal(t, id, hook["id"])
		require.Equal(t, "TRANSACTION", hook["event"])
		require.Equal(t, true, hook["is_secured"])

		status, _ = srv.do(http.MethodDelete, "/v1/webhooks/"+id, nil)
		require.Equal(t, http.StatusNoContent, status)

		status, _ = srv.do(http.MethodDelete, "/v1/webhooks/"+id, nil)
		require.Equal(t, http.StatusNotFound, status)

		status, _ = srv.do(http.MethodPost, "/v1/webhooks", map[string]string{
			"event":    "UNKNOWN",
			"endpoint": "http://localhost:8000/hook",
		})
		require.Equal(t, http.StatusBadRequest, status)

		status, _ = srv.do(http.MethodPost, "/v1/webhooks", map[string]string{
			"event":    "ANY",
			"endpoint": "not a url",
		})
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("disabled", func(t *testing.T) {
		srv := newTestServer(t, false)

		status, _ := srv.do(http.MethodGet, "/v1/webhooks", nil)
		require.Equal(t, http.StatusNotImplemented, status)
	})
}

func TestTransactionStream(t *testing.T) {
	srv := newTestServer(t, false)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	status, res := srv.do(http.MethodPost, "/v1/assets/mint?wait=true", map[string]string{
		"issuer": randomAddress(),
		"holder": randomAddress(),
		"amount": "10",
	})
	require.Equal(t, http.StatusOK, status, res)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	tx := map[string]interface{}{}
	require.NoError(t, conn.ReadJSON(&tx))
	require.Equal(t, res["address"], tx["destination"])
	require.Equal(t, res["message_id"], tx["message_id"])
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, false)

	res, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	buf, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Contains(t, string(buf), "vesting_messages_in_flight")
}
