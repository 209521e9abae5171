package messagebus

import "context"

// MessageBus is the thin publish abstraction every producer in the pipeline
// uses. A destination is the logical name of a broker topic, resolved from
// configuration by the caller, never hard-coded. The key selects the
// partition so messages for the same entity stay ordered.
//
// Publish serializes the message before handing it to the broker and
// returns any broker error to the caller; producers decide how to react.
type MessageBus interface {
	Publish(ctx context.Context, destination, key string, message any) error
	Close() error
}
