package domain

// CandidateKey is a validator public key proposed by a queued transaction.
type CandidateKey struct {
	Key   string
	Nonce int64
}

// KeyStatus joins a candidate key with its status in the validator API.
// Found is false when the API does not know the key.
type KeyStatus struct {
	Key    string
	Status string
	Found  bool
	Nonce  int64
}
