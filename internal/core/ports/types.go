package ports

type Webhook interface {
	GetEvent() WebhookEvent
	GetEndpoint() string
	GetSecret() string
}

type WebhookInfo interface {
	GetId() string
	GetEvent() WebhookEvent
	GetEndpoint() string
	IsSecured() bool
}

type WebhookEvent interface {
	IsUnspecified() bool
	IsTransaction() bool
	IsTransactionFailed() bool
	IsAny() bool
}
