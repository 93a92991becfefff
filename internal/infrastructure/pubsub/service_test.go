package pubsub_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
	"github.com/vesting-network/vesting-daemon/internal/core/ports"
	"github.com/vesting-network/vesting-daemon/internal/infrastructure/pubsub"
)

const (
	testTopic   = "TRANSACTION"
	testMessage = `{"event":"TRANSACTION","exit_code":0}`
	testSecret  = "secret"
)

type received struct {
	path   string
	body   string
	bearer string
}

type testServer struct {
	*httptest.Server
	lock     sync.Mutex
	requests []received
}

func newTestServer(t *testing.T) *testServer {
	s := &testServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.lock.Lock()
		s.requests = append(s.requests, received{
			path:   r.URL.Path,
			body:   string(body),
			bearer: strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "),
		})
		s.lock.Unlock()
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *testServer) received() []received {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]received{}, s.requests...)
}

func TestPubSubService(t *testing.T) {
	server := newTestServer(t)
	svc, err := pubsub.NewService("", nil, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		svc.Close()
	})

	topicID, err := svc.Subscribe(testTopic, server.URL+"/topic", testSecret)
	require.NoError(t, err)
	anyID, err := svc.Subscribe(ports.AnyTopic, server.URL+"/any", "")
	require.NoError(t, err)
	_, err = svc.Subscribe("OTHER", server.URL+"/other", "")
	require.NoError(t, err)

	_, err = svc.Subscribe(testTopic, "not an url", "")
	require.Error(t, err)

	subs := svc.ListSubscriptionsForTopic(testTopic)
	require.Len(t, subs, 2)
	require.Len(t, svc.ListSubscriptionsForTopic(ports.UnspecifiedTopic), 3)

	require.NoError(t, svc.Publish(testTopic, testMessage))

	reqs := server.received()
	require.Len(t, reqs, 2)
	paths := []string{reqs[0].path, reqs[1].path}
	require.ElementsMatch(t, []string{"/topic", "/any"}, paths)
	for _, r := range reqs {
		require.Equal(t, testMessage, r.body)
		if r.path != "/topic" {
			require.Empty(t, r.bearer)
			continue
		}
		token, err := jwt.Parse(r.bearer, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		require.True(t, token.Valid)
	}

	require.NoError(t, svc.Unsubscribe("", topicID))
	require.ErrorIs(t, svc.Unsubscribe("", topicID), pubsub.ErrSubscriptionNotFound)

	subs = svc.ListSubscriptionsForTopic(testTopic)
	require.Len(t, subs, 1)
	require.Equal(t, anyID, subs[0].Id())
	require.False(t, subs[0].IsSecured())
}

func TestPubSubServiceFailingEndpoint(t *testing.T) {
	server := newTestServer(t)
	svc, err := pubsub.NewService("", nil, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		svc.Close()
	})

	_, err = svc.Subscribe(testTopic, server.URL+"/fail", "")
	require.NoError(t, err)

	err = svc.Publish(testTopic, testMessage)
	require.Error(t, err)
	require.Len(t, server.received(), 1)
}

func TestPubSubServicePersistence(t *testing.T) {
	datadir := t.TempDir()

	svc, err := pubsub.NewService(datadir, nil, 0)
	require.NoError(t, err)
	id, err := svc.SubscribeWithID("my-hook", testTopic, "http://localhost:9999", "")
	require.NoError(t, err)
	require.Equal(t, "my-hook", id)
	require.NoError(t, svc.Close())

	svc, err = pubsub.NewService(datadir, nil, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		//nolint
		svc.Close()
	})

	subs := svc.ListSubscriptionsForTopic(testTopic)
	require.Len(t, subs, 1)
	require.Equal(t, "my-hook", subs[0].Id())
	require.Equal(t, "http://localhost:9999", subs[0].NotifyAt())
}
