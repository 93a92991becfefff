package application

import "errors"

var (
	// ErrMissingRepoManager ...
	ErrMissingRepoManager = errors.New("missing repository manager")
	// ErrMissingNetwork ...
	ErrMissingNetwork = errors.New("missing network")
	// ErrMissingPubSub ...
	ErrMissingPubSub = errors.New("missing pubsub service")
	// ErrUnknownDBType ...
	ErrUnknownDBType = errors.New("unknown db type")
	// ErrUnknownContractKind is returned when a deployed address has no
	// handler for its kind.
	ErrUnknownContractKind = errors.New("unknown contract kind")
	// ErrAlreadyDeployed is returned when deploying a singleton twice.
	ErrAlreadyDeployed = errors.New("contract already deployed")
	// ErrInvalidBody is returned for message bodies that are not hex
	// encoded.
	ErrInvalidBody = errors.New("message body must be hex encoded")
	// ErrWebhookManagerNotInitialized is returned when attempting to use
	// webhook methods without having a pubsub service.
	ErrWebhookManagerNotInitialized = errors.New("webhook manager is not initialized")
)
