package domain

// Intent is the routing label assigned to an incoming message.
type Intent string

const (
	// IntentRecord marks a message describing a financial fact to store.
	IntentRecord Intent = "record"

	// IntentQuestion marks a message requesting a report, aggregate or a
	// deletion over stored transactions.
	IntentQuestion Intent = "question"

	// IntentUnknown means the classifier could not commit to either label.
	IntentUnknown Intent = "unknown"

	// IntentGenerationFailure means the generator call itself failed.
	IntentGenerationFailure Intent = "generation_failure"
)
