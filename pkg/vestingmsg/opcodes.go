package vestingmsg

// Asset ledger opcodes.
const (
	OpTransfer             uint32 = 0x0f8a7ea5
	OpInternalTransfer     uint32 = 0x178d4519
	OpTransferNotification uint32 = 0x7362d09c
)

// Vesting account opcodes.
const (
	OpWithdrawJettons uint32 = 0x7777
	OpClaimUnlocked   uint32 = 0x8888
	OpCancelVesting   uint32 = 0x9999
	OpChangeRecipient uint32 = 0xaaaa
	OpRelock          uint32 = 0xbbbb
	OpSplitVesting    uint32 = 0x7890
	OpUpdateMaxSplits uint32 = 0x7891
	OpUpdateOwner     uint32 = 0xd3d3d3d3
)

// Registry opcodes. OpUpdateOwner is shared with the vesting account but the
// registry variant carries the wallet and both owners.
const (
	OpRegisterWallet  uint32 = 0xd1d1d1d1
	OpUpdateRecipient uint32 = 0xd2d2d2d2
	OpSetMaxWallets   uint32 = 0xd4d4d4d4
)

// Factory admin opcodes.
const (
	OpChangeFactoryOwner uint32 = 0x1f1f0001
	OpChangeRoyaltyFee   uint32 = 0x1f1f0002
	OpSetRegistry        uint32 = 0x1f1f0003
	OpUpdateTemplate     uint32 = 0x1f1f0004
	OpWithdrawRoyalty    uint32 = 0x1f1f0005
)

var opNames = map[uint32]string{
	OpTransfer:             "transfer",
	OpInternalTransfer:     "internal_transfer",
	OpTransferNotification: "transfer_notification",
	OpWithdrawJettons:      "withdraw_jettons",
	OpClaimUnlocked:        "claim_unlocked",
	OpCancelVesting:        "cancel_vesting",
	OpChangeRecipient:      "change_recipient",
	OpRelock:               "relock",
	OpSplitVesting:         "split_vesting",
	OpUpdateMaxSplits:      "update_max_splits",
	OpUpdateOwner:          "update_owner",
	OpRegisterWallet:       "register_wallet",
	OpUpdateRecipient:      "update_recipient",
	OpSetMaxWallets:        "set_max_wallets",
	OpChangeFactoryOwner:   "change_owner",
	OpChangeRoyaltyFee:     "change_royalty_fee",
	OpSetRegistry:          "set_registry",
	OpUpdateTemplate:       "update_template",
	OpWithdrawRoyalty:      "withdraw_royalty",
}

// OpName returns a human readable label for op, or its hex form if unknown.
func OpName(op uint32) string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return formatOp(op)
}
