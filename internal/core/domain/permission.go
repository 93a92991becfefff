package domain

// Permission is a 2-bit flag set telling who may perform a guarded
// operation on a vesting account.
type Permission uint8

const (
	PermissionNone      Permission = 0
	PermissionRecipient Permission = 1
	PermissionOwner     Permission = 2
	PermissionBoth      Permission = PermissionRecipient | PermissionOwner
)

func (p Permission) Validate() error {
	if p > PermissionBoth {
		return ErrInvalidPermission
	}
	return nil
}

// Allows returns whether sender may act given the current owner and
// recipient. If owner and recipient coincide either bit grants access.
func (p Permission) Allows(sender, owner, recipient Address) bool {
	if p&PermissionRecipient != 0 && sender == recipient {
		return true
	}
	if p&PermissionOwner != 0 && sender == owner {
		return true
	}
	return false
}

func (p Permission) String() string {
	switch p {
	case PermissionNone:
		return "none"
	case PermissionRecipient:
		return "recipient"
	case PermissionOwner:
		return "owner"
	case PermissionBoth:
		return "both"
	default:
		return "invalid"
	}
}
