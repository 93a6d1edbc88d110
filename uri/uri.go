package uri

const (
	API = "/api"

	// Webhook receives handshake validations and change notifications from
	// the provider.
	Webhook = API + "/TeamsWebhook"

	Subscriptions = API + "/v1/subscriptions"
	Subscription  = Subscriptions + "/{subscriptionID}"
	RenewSuffix   = "/renew"
)
