package domain

import "encoding/json"

// QueueEntryTypeTransaction marks queue entries that carry a transaction.
const QueueEntryTypeTransaction = "TRANSACTION"

// QueueEntry is a single item of a Safe transaction queue. Label and
// conflict header entries have no Transaction.
type QueueEntry struct {
	Type        string
	Transaction *QueuedTransaction
}

// QueuedTransaction is a proposed multisig transaction that has not executed yet.
type QueuedTransaction struct {
	ID         string
	Nonce      int64
	MethodName string
	To         string
}

// DecodedCall is the decoded calldata of a queued transaction.
type DecodedCall struct {
	Method     string
	Parameters []Parameter
}

// Parameter is one decoded call argument. Value is kept raw because its
// shape depends on the ABI type.
type Parameter struct {
	Name  string
	Value json.RawMessage
}
