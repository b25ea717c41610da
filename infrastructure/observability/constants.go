package observability

// Metric name prefixes
const (
	MetricPrefix = "poolpay"
)

// Metric names
const (
	// Payout metrics
	PayoutsCreatedTotal  = MetricPrefix + ".payouts.created_total"
	PayoutsResolvedTotal = MetricPrefix + ".payouts.resolved_total"
	PayoutsVotingActive  = MetricPrefix + ".payouts.voting_active"

	// Voting metrics
	VotesCastTotal = MetricPrefix + ".votes.cast_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Ledger metrics
	LedgerTransactionsTotal = MetricPrefix + ".ledger.transactions_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	// Common labels
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelStatus    = "status"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)
