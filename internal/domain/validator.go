package domain

// Validator is a beacon-chain validator as reported by the frxETH validator API.
type Validator struct {
	PublicKey  string
	StatusCode string
}
