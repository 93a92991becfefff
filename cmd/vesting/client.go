package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/pkg/mathutil"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

const defaultGas = 50_000_000

type daemonClient struct {
	baseURL string
	http    *http.Client
}

func getClient() (*daemonClient, error) {
	baseURL, err := getDaemonURL()
	if err != nil {
		return nil, err
	}
	return &daemonClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: time.Minute},
	}, nil
}

func (d *daemonClient) do(method, path string, in interface{}) (interface{}, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, d.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %w", err)
	}
	defer res.Body.Close()

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if len(buf) > 0 {
		if err := json.Unmarshal(buf, &out); err != nil {
			return nil, fmt.Errorf("unable to decode response: %w", err)
		}
	}
	if res.StatusCode >= http.StatusMultipleChoices {
		if m, ok := out.(map[string]interface{}); ok && m["error"] != nil {
			return nil, fmt.Errorf("%v (status %d)", m["error"], res.StatusCode)
		}
		return nil, fmt.Errorf("request failed with status %d", res.StatusCode)
	}
	return out, nil
}

// getAndPrint is the action of every read only command.
func getAndPrint(path string) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	res, err := client.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	printRespJSON(res)
	return nil
}

func postAndPrint(path string, in interface{}) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	res, err := client.do(http.MethodPost, path, in)
	if err != nil {
		return err
	}
	printRespJSON(res)
	return nil
}

func messageFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:  "sender",
			Usage: "the address sending the message, defaults to the configured one",
		},
		&cli.Uint64Flag{
			Name:  "value",
			Usage: "the native amount attached to the message, in nano units",
			Value: defaultGas,
		},
		&cli.Uint64Flag{
			Name:  "query-id",
			Usage: "the query id of the message, defaults to the current time",
		},
		&cli.BoolFlag{
			Name:  "wait",
			Usage: "wait for the message and its consequences to be processed",
			Value: true,
		},
	}, extra...)
}

func getSender(c *cli.Context) (string, error) {
	if sender := c.String("sender"); sender != "" {
		return parseAddress("sender", sender)
	}
	state, err := getState()
	if err != nil {
		return "", err
	}
	sender, ok := state[addressKey]
	if !ok || sender == "" {
		return "", fmt.Errorf("set sender with --sender or `config set address`")
	}
	return sender, nil
}

func queryID(c *cli.Context) uint64 {
	if id := c.Uint64("query-id"); id > 0 {
		return id
	}
	return uint64(time.Now().UnixNano())
}

func waitPath(c *cli.Context, path string) string {
	if c.Bool("wait") {
		return path + "?wait=true"
	}
	return path
}

// sendInternal submits body from the sender to dest.
func sendInternal(c *cli.Context, dest string, body vestingmsg.Body) error {
	return sendInternalWithValue(c, dest, c.Uint64("value"), body)
}

func sendInternalWithValue(
	c *cli.Context, dest string, value uint64, body vestingmsg.Body,
) error {
	sender, err := getSender(c)
	if err != nil {
		return err
	}
	raw, err := vestingmsg.Encode(queryID(c), body)
	if err != nil {
		return err
	}
	return postAndPrint(waitPath(c, "/v1/messages"), map[string]interface{}{
		"sender":      sender,
		"destination": dest,
		"value":       value,
		"body":        hex.EncodeToString(raw),
	})
}

func sendExternal(c *cli.Context, dest string, raw []byte) error {
	return postAndPrint(waitPath(c, "/v1/messages"), map[string]interface{}{
		"destination": dest,
		"external":    true,
		"body":        hex.EncodeToString(raw),
	})
}

func parseAddress(name, s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	addr, err := domain.ParseAddress(s)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return addr.String(), nil
}

// parseOptionalAddress returns the null address if s is empty.
func parseOptionalAddress(name, s string) (string, error) {
	if s == "" {
		return domain.NullAddress.String(), nil
	}
	return parseAddress(name, s)
}

// parseCoins parses a non negative integer amount in nano units.
func parseCoins(name, s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid number", name)
	}
	if amount.IsNegative() || !amount.Equal(amount.Truncate(0)) {
		return nil, fmt.Errorf("%s must be a non negative integer", name)
	}
	return mathutil.ToBigInt(amount), nil
}
