package main

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
	"github.com/vesting-network/vesting-daemon/internal/core/domain"
	"github.com/vesting-network/vesting-daemon/pkg/vestingmsg"
)

var factoryFlag = &cli.StringFlag{
	Name:     "factory",
	Usage:    "the address of the factory",
	Required: true,
}

func grantFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "owner", Usage: "the owner of the grant", Required: true},
		&cli.StringFlag{Name: "recipient", Usage: "the recipient of the grant", Required: true},
		&cli.StringFlag{Name: "issuer", Usage: "the issuer of the vested asset", Required: true},
		&cli.StringFlag{Name: "total", Usage: "the vested amount, in nano units", Required: true},
		&cli.UintFlag{Name: "start", Usage: "unix time the vesting starts at", Required: true},
		&cli.UintFlag{Name: "duration", Usage: "total duration in seconds", Required: true},
		&cli.UintFlag{Name: "period", Usage: "unlock period in seconds", Required: true},
		&cli.UintFlag{Name: "cliff", Usage: "cliff duration in seconds"},
		&cli.BoolFlag{Name: "auto-claim", Usage: "whether unlocked funds are claimable by anyone"},
		&cli.UintFlag{Name: "cancel", Usage: "cancel permission: 0 none, 1 recipient, 2 owner, 3 both"},
		&cli.UintFlag{Name: "change-recipient", Usage: "change recipient permission: 0 none, 1 recipient, 2 owner, 3 both"},
	}, extra...)
}

var factoryCmd = cli.Command{
	Name:  "factory",
	Usage: "deploy, inspect and operate a vesting factory",
	Subcommands: []*cli.Command{
		{
			Name:  "deploy",
			Usage: "deploy a new factory",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "owner", Usage: "the owner of the factory", Required: true},
				&cli.StringFlag{Name: "registry", Usage: "the registry new grants are registered with"},
				&cli.Uint64Flag{Name: "royalty-fee", Usage: "royalty fee in nano units, defaults to the daemon's one"},
				&cli.Uint64Flag{Name: "min-create-cost", Usage: "min create cost in nano units, defaults to the daemon's one"},
				&cli.StringFlag{Name: "template", Usage: "hex encoded account code, defaults to the built-in one"},
			},
			Action: factoryDeployAction,
		},
		{
			Name:      "info",
			Usage:     "get the state of a factory",
			ArgsUsage: "<address>",
			Action:    factoryInfoAction,
		},
		{
			Name:   "address",
			Usage:  "get the address of the account of a grant",
			Flags:  grantFlags(factoryFlag),
			Action: factoryAddressAction,
		},
		{
			Name:  "create",
			Usage: "create a grant by depositing its total amount to the factory",
			Flags: messageFlags(grantFlags(
				factoryFlag,
				&cli.Uint64Flag{
					Name:  "create-value",
					Usage: "native amount forwarded to the factory, defaults to its royalty fee plus min create cost",
				},
			)...),
			Action: factoryCreateAction,
		},
		{
			Name:  "change-owner",
			Usage: "transfer the ownership of a factory",
			Flags: messageFlags(factoryFlag,
				&cli.StringFlag{Name: "new-owner", Required: true},
			),
			Action: func(c *cli.Context) error {
				owner, err := parseAddress("new-owner", c.String("new-owner"))
				if err != nil {
					return err
				}
				return sendInternal(c, c.String("factory"), &vestingmsg.ChangeFactoryOwner{
					NewOwner: owner,
				})
			},
		},
		{
			Name:  "change-royalty",
			Usage: "change the royalty fee of a factory",
			Flags: messageFlags(factoryFlag,
				&cli.Uint64Flag{Name: "fee", Usage: "royalty fee in nano units", Required: true},
			),
			Action: func(c *cli.Context) error {
				return sendInternal(c, c.String("factory"), &vestingmsg.ChangeRoyaltyFee{
					RoyaltyFee: c.Uint64("fee"),
				})
			},
		},
		{
			Name:  "set-registry",
			Usage: "change the registry new grants are registered with",
			Flags: messageFlags(factoryFlag,
				&cli.StringFlag{Name: "registry", Usage: "empty to unset"},
			),
			Action: func(c *cli.Context) error {
				registry, err := parseOptionalAddress("registry", c.String("registry"))
				if err != nil {
					return err
				}
				return sendInternal(c, c.String("factory"), &vestingmsg.SetRegistry{
					Registry: registry,
				})
			},
		},
		{
			Name:  "update-template",
			Usage: "change the code of the accounts of new grants",
			Flags: messageFlags(factoryFlag,
				&cli.StringFlag{Name: "code", Usage: "hex encoded account code", Required: true},
			),
			Action: func(c *cli.Context) error {
				code, err := hex.DecodeString(c.String("code"))
				if err != nil {
					return fmt.Errorf("code must be hex encoded")
				}
				return sendInternal(c, c.String("factory"), &vestingmsg.UpdateTemplate{
					Code: code,
				})
			},
		},
		{
			Name:  "withdraw-royalty",
			Usage: "withdraw collected royalties to the owner",
			Flags: messageFlags(factoryFlag,
				&cli.Uint64Flag{Name: "amount", Usage: "amount in nano units, 0 for everything"},
			),
			Action: func(c *cli.Context) error {
				return sendInternal(c, c.String("factory"), &vestingmsg.WithdrawRoyalty{
					Amount: c.Uint64("amount"),
				})
			},
		},
		{
			Name:   "withdraw-jettons",
			Usage:  "recover assets held by the factory",
			Flags:  messageFlags(withdrawJettonsFlags(factoryFlag)...),
			Action: withdrawJettonsAction("factory"),
		},
	},
}

func factoryDeployAction(c *cli.Context) error {
	owner, err := parseAddress("owner", c.String("owner"))
	if err != nil {
		return err
	}
	req := map[string]interface{}{
		"owner":    owner,
		"template": c.String("template"),
	}
	if registry := c.String("registry"); registry != "" {
		if req["registry"], err = parseAddress("registry", registry); err != nil {
			return err
		}
	}
	if c.IsSet("royalty-fee") {
		req["royalty_fee"] = c.Uint64("royalty-fee")
	}
	if c.IsSet("min-create-cost") {
		req["min_create_cost"] = c.Uint64("min-create-cost")
	}
	return postAndPrint("/v1/factory/deploy?wait=true", req)
}

func factoryInfoAction(c *cli.Context) error {
	addr, err := parseAddress("address", c.Args().First())
	if err != nil {
		return err
	}
	return getAndPrint("/v1/factory/" + addr)
}

func grantQuery(c *cli.Context) url.Values {
	q := url.Values{}
	for _, key := range []string{"owner", "recipient", "issuer", "total"} {
		q.Set(key, c.String(key))
	}
	for _, key := range []string{
		"start", "duration", "period", "cliff", "cancel", "change-recipient",
	} {
		name := key
		if key == "change-recipient" {
			name = "change_recipient"
		}
		q.Set(name, fmt.Sprint(c.Uint(key)))
	}
	q.Set("auto_claim", fmt.Sprint(c.Bool("auto-claim")))
	return q
}

func factoryAddressAction(c *cli.Context) error {
	factory, err := parseAddress("factory", c.String("factory"))
	if err != nil {
		return err
	}
	return getAndPrint(
		fmt.Sprintf("/v1/factory/%s/wallet-address?%s", factory, grantQuery(c).Encode()),
	)
}

func factoryCreateAction(c *cli.Context) error {
	factory, err := parseAddress("factory", c.String("factory"))
	if err != nil {
		return err
	}
	sender, err := getSender(c)
	if err != nil {
		return err
	}
	owner, err := parseAddress("owner", c.String("owner"))
	if err != nil {
		return err
	}
	recipient, err := parseAddress("recipient", c.String("recipient"))
	if err != nil {
		return err
	}
	issuer, err := parseAddress("issuer", c.String("issuer"))
	if err != nil {
		return err
	}
	total, err := parseCoins("total", c.String("total"))
	if err != nil {
		return err
	}

	createValue := c.Uint64("create-value")
	if createValue == 0 {
		if createValue, err = factoryCreateCost(factory); err != nil {
			return err
		}
	}

	factoryWallet, err := domain.AssetWalletAddress(
		domain.Address(issuer), domain.Address(factory),
	)
	if err != nil {
		return err
	}
	senderWallet, err := domain.AssetWalletAddress(
		domain.Address(issuer), domain.Address(sender),
	)
	if err != nil {
		return err
	}
	payload, err := vestingmsg.EncodeGrantPayload(vestingmsg.GrantPayload{
		Owner:                     owner,
		Recipient:                 recipient,
		AssetIssuer:               issuer,
		SourceAssetWallet:         factoryWallet.String(),
		StartTime:                 uint32(c.Uint("start")),
		TotalDuration:             uint32(c.Uint("duration")),
		UnlockPeriod:              uint32(c.Uint("period")),
		CliffDuration:             uint32(c.Uint("cliff")),
		AutoClaim:                 c.Bool("auto-claim"),
		CancelPermission:          uint8(c.Uint("cancel")),
		ChangeRecipientPermission: uint8(c.Uint("change-recipient")),
	})
	if err != nil {
		return err
	}

	return sendInternalWithValue(
		c, senderWallet.String(), createValue+c.Uint64("value"),
		&vestingmsg.Transfer{
			Amount:              total,
			Destination:         factory,
			ResponseDestination: sender,
			ForwardAmount:       createValue,
			ForwardPayload:      payload,
		},
	)
}

// factoryCreateCost returns the min native amount a grant creation must
// forward to the factory.
func factoryCreateCost(factory string) (uint64, error) {
	client, err := getClient()
	if err != nil {
		return 0, err
	}
	res, err := client.do(http.MethodGet, "/v1/factory/"+factory, nil)
	if err != nil {
		return 0, err
	}
	info, ok := res.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected factory info")
	}
	fee, _ := info["royalty_fee"].(float64)
	cost, _ := info["min_create_cost"].(float64)
	return uint64(fee) + uint64(cost), nil
}

func withdrawJettonsFlags(extra ...cli.Flag) []cli.Flag {
	return append(extra,
		&cli.StringFlag{Name: "to", Usage: "the address receiving the funds", Required: true},
		&cli.StringFlag{Name: "amount", Usage: "amount in nano units"},
		&cli.StringFlag{Name: "forward-fee", Usage: "native amount forwarded with the funds, in nano units"},
		&cli.StringFlag{Name: "asset-wallet", Usage: "the asset wallet holding the funds"},
	)
}

// withdrawJettonsAction returns the action moving assets out of the
// contract whose address is set by the given flag.
func withdrawJettonsAction(contractFlag string) cli.ActionFunc {
	return func(c *cli.Context) error {
		contract, err := parseAddress(contractFlag, c.String(contractFlag))
		if err != nil {
			return err
		}
		to, err := parseAddress("to", c.String("to"))
		if err != nil {
			return err
		}
		amount, err := parseCoins("amount", c.String("amount"))
		if err != nil {
			return err
		}
		fwdFee, err := parseCoins("forward-fee", c.String("forward-fee"))
		if err != nil {
			return err
		}
		wallet, err := parseOptionalAddress("asset-wallet", c.String("asset-wallet"))
		if err != nil {
			return err
		}
		return sendInternal(c, contract, &vestingmsg.WithdrawJettons{
			To:          to,
			Amount:      amount,
			ForwardFee:  fwdFee,
			AssetWallet: wallet,
		})
	}
}
