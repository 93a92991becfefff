package main

import (
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

var accountFlag = &cli.StringFlag{
	Name:     "account",
	Usage:    "the address of the vesting account",
	Required: true,
}

func payoutFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		accountFlag,
		&cli.StringFlag{Name: "forward-fee", Usage: "native amount forwarded with the funds, in nano units"},
		&cli.StringFlag{Name: "asset-wallet", Usage: "the asset wallet of the account, derived if empty"},
	}, extra...)
}

var accountCmd = cli.Command{
	Name:  "account",
	Usage: "inspect and operate a vesting account",
	Subcommands: []*cli.Command{
		{
			Name:      "info",
			Usage:     "get the state of an account and its balances at a given time",
			ArgsUsage: "<address>",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "at", Usage: "unix time, defaults to now"},
				&cli.StringFlag{Name: "sender", Usage: "evaluate permissions for this address"},
			},
			Action: accountInfoAction,
		},
		{
			Name:  "list",
			Usage: "list the accounts of an owner, or all accounts page by page",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "owner", Usage: "only accounts owned by this address"},
				&cli.Int64Flag{Name: "at", Usage: "unix time, defaults to now"},
				&cli.IntFlag{Name: "page", Value: 1},
				&cli.IntFlag{Name: "size", Value: 20},
			},
			Action: accountListAction,
		},
		{
			Name:  "claim",
			Usage: "send the claimable funds to the recipient",
			Flags: messageFlags(payoutFlags()...),
			Action: func(c *cli.Context) error {
				account, fwdFee, wallet, err := parsePayout(c)
				if err != nil {
					return err
				}
				return sendInternal(c, account, &vestingmsg.ClaimUnlocked{
					ForwardFee: fwdFee, AssetWallet: wallet,
				})
			},
		},
		{
			Name:  "claim-external",
			Usage: "claim with an external message guarded by the account seqno",
			Flags: payoutFlags(
				&cli.UintFlag{Name: "seqno", Usage: "the current seqno of the account"},
				&cli.DurationFlag{Name: "ttl", Usage: "validity of the message", Value: time.Minute},
				&cli.BoolFlag{Name: "wait", Value: true},
				&cli.Uint64Flag{Name: "query-id"},
			),
			Action: claimExternalAction,
		},
		{
			Name:  "cancel",
			Usage: "cancel the vesting and return the locked funds to the owner",
			Flags: messageFlags(payoutFlags()...),
			Action: func(c *cli.Context) error {
				account, fwdFee, wallet, err := parsePayout(c)
				if err != nil {
					return err
				}
				return sendInternal(c, account, &vestingmsg.CancelVesting{
					ForwardFee: fwdFee, AssetWallet: wallet,
				})
			},
		},
		{
			Name:  "change-recipient",
			Usage: "change the recipient of the vested funds",
			Flags: messageFlags(accountFlag,
				&cli.StringFlag{Name: "new-recipient", Required: true},
			),
			Action: func(c *cli.Context) error {
				recipient, err := parseAddress("new-recipient", c.String("new-recipient"))
				if err != nil {
					return err
				}
				return sendInternal(c, c.String("account"), &vestingmsg.ChangeRecipient{
					NewRecipient: recipient,
				})
			},
		},
		{
			Name:  "change-owner",
			Usage: "transfer the ownership of an account",
			Flags: messageFlags(accountFlag,
				&cli.StringFlag{Name: "new-owner", Required: true},
			),
			Action: func(c *cli.Context) error {
				owner, err := parseAddress("new-owner", c.String("new-owner"))
				if err != nil {
					return err
				}
				return sendInternal(c, c.String("account"), &vestingmsg.UpdateOwner{
					NewOwner: owner,
				})
			},
		},
		{
			Name:  "relock",
			Usage: "extend the vesting duration",
			Flags: messageFlags(accountFlag,
				&cli.UintFlag{Name: "extra", Usage: "seconds added to the duration", Required: true},
			),
			Action: func(c *cli.Context) error {
				return sendInternal(c, c.String("account"), &vestingmsg.Relock{
					ExtraDuration: uint32(c.Uint("extra")),
				})
			},
		},
		{
			Name:  "split",
			Usage: "move part of the grant to a new account with the same schedule",
			Flags: messageFlags(payoutFlags(
				&cli.StringFlag{Name: "amount", Usage: "amount in nano units", Required: true},
				&cli.StringFlag{Name: "new-owner", Required: true},
				&cli.StringFlag{Name: "new-recipient", Required: true},
			)...),
			Action: accountSplitAction,
		},
		{
			Name:  "update-max-splits",
			Usage: "change the number of splits an account can issue",
			Flags: messageFlags(accountFlag,
				&cli.UintFlag{Name: "max", Required: true},
			),
			Action: func(c *cli.Context) error {
				return sendInternal(c, c.String("account"), &vestingmsg.UpdateMaxSplits{
					NewMaxSplits: uint32(c.Uint("max")),
				})
			},
		},
		{
			Name:   "withdraw-jettons",
			Usage:  "withdraw all the unclaimed funds to the owner",
			Flags:  messageFlags(withdrawJettonsFlags(accountFlag)...),
			Action: withdrawJettonsAction("account"),
		},
	},
}

func accountInfoAction(c *cli.Context) error {
	addr, err := parseAddress("address", c.Args().First())
	if err != nil {
		return err
	}
	q := url.Values{}
	if at := c.Int64("at"); at > 0 {
		q.Set("at", fmt.Sprint(at))
	}
	if sender := c.String("sender"); sender != "" {
		q.Set("sender", sender)
	}
	path := "/v1/accounts/" + addr
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return getAndPrint(path)
}

func accountListAction(c *cli.Context) error {
	q := url.Values{}
	if owner := c.String("owner"); owner != "" {
		owner, err := parseAddress("owner", owner)
		if err != nil {
			return err
		}
		q.Set("owner", owner)
	} else {
		q.Set("page", fmt.Sprint(c.Int("page")))
		q.Set("size", fmt.Sprint(c.Int("size")))
	}
	if at := c.Int64("at"); at > 0 {
		q.Set("at", fmt.Sprint(at))
	}
	return getAndPrint("/v1/accounts?" + q.Encode())
}

func parsePayout(c *cli.Context) (string, *big.Int, string, error) {
	account, err := parseAddress("account", c.String("account"))
	if err != nil {
		return "", nil, "", err
	}
	fwdFee, err := parseCoins("forward-fee", c.String("forward-fee"))
	if err != nil {
		return "", nil, "", err
	}
	wallet, err := parseOptionalAddress("asset-wallet", c.String("asset-wallet"))
	if err != nil {
		return "", nil, "", err
	}
	return account, fwdFee, wallet, nil
}

func claimExternalAction(c *cli.Context) error {
	account, fwdFee, wallet, err := parsePayout(c)
	if err != nil {
		return err
	}
	raw, err := vestingmsg.EncodeExternal(vestingmsg.ExternalHeader{
		Seqno:      uint32(c.Uint("seqno")),
		ValidUntil: uint32(time.Now().Add(c.Duration("ttl")).Unix()),
	}, queryID(c), &vestingmsg.ClaimUnlocked{
		ForwardFee: fwdFee, AssetWallet: wallet,
	})
	if err != nil {
		return err
	}
	return sendExternal(c, account, raw)
}

func accountSplitAction(c *cli.Context) error {
	account, fwdFee, wallet, err := parsePayout(c)
	if err != nil {
		return err
	}
	amount, err := parseCoins("amount", c.String("amount"))
	if err != nil {
		return err
	}
	owner, err := parseAddress("new-owner", c.String("new-owner"))
	if err != nil {
		return err
	}
	recipient, err := parseAddress("new-recipient", c.String("new-recipient"))
	if err != nil {
		return err
	}
	return sendInternal(c, account, &vestingmsg.SplitVesting{
		Amount:       amount,
		NewOwner:     owner,
		NewRecipient: recipient,
		ForwardFee:   fwdFee,
		AssetWallet:  wallet,
	})
}
