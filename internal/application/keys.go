package application

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"msigcheck/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMalformedCall is returned when a decoded call does not have the shape of
// a validator array call.
var ErrMalformedCall = errors.New("malformed validator array call")

// CountTransactions counts the queue entries of type TRANSACTION.
func CountTransactions(entries []domain.QueueEntry) int {
	count := 0
	for _, entry := range entries {
		if entry.Type == domain.QueueEntryTypeTransaction {
			count++
		}
	}
	return count
}

// FilterByMethod keeps the queued transactions calling method, in queue order.
func FilterByMethod(entries []domain.QueueEntry, method string) []domain.QueuedTransaction {
	var out []domain.QueuedTransaction
	for _, entry := range entries {
		if entry.Transaction == nil || entry.Transaction.MethodName != method {
			continue
		}
		out = append(out, *entry.Transaction)
	}
	return out
}

// ExtractKeys returns the first field of every element of the call's validator
// array, tagged with nonce. ok is false when the call is not a method call
// with arrayParam as its first parameter.
func ExtractKeys(call domain.DecodedCall, method, arrayParam string, nonce int64) (keys []domain.CandidateKey, ok bool, err error) {
	if call.Method != method {
		return nil, false, nil
	}
	if len(call.Parameters) == 0 {
		return nil, false, fmt.Errorf("%w: %s has no parameters", ErrMalformedCall, method)
	}
	param := call.Parameters[0]
	if param.Name != arrayParam {
		return nil, false, nil
	}

	var elements []jsoniter.RawMessage
	if err := json.Unmarshal(param.Value, &elements); err != nil {
		return nil, false, fmt.Errorf("%w: %s is not an array: %v", ErrMalformedCall, arrayParam, err)
	}
	keys = make([]domain.CandidateKey, 0, len(elements))
	for i, element := range elements {
		var fields []jsoniter.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil || len(fields) == 0 {
			return nil, false, fmt.Errorf("%w: %s[%d] is not a tuple", ErrMalformedCall, arrayParam, i)
		}
		var key string
		if err := json.Unmarshal(fields[0], &key); err != nil {
			return nil, false, fmt.Errorf("%w: %s[%d][0] is not a string", ErrMalformedCall, arrayParam, i)
		}
		keys = append(keys, domain.CandidateKey{Key: key, Nonce: nonce})
	}
	return keys, true, nil
}

// UniqueKeys drops repeated keys, keeping the first occurrence.
func UniqueKeys(keys []domain.CandidateKey) []domain.CandidateKey {
	seen := make(map[string]struct{}, len(keys))
	out := make([]domain.CandidateKey, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key.Key]; ok {
			continue
		}
		seen[key.Key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func HasDuplicates(keys []domain.CandidateKey) bool {
	return len(UniqueKeys(keys)) != len(keys)
}

// JoinStatuses looks every key up in validators. The first validator with an
// equal public key wins.
func JoinStatuses(keys []domain.CandidateKey, validators []domain.Validator) []domain.KeyStatus {
	index := make(map[string]string, len(validators))
	for _, v := range validators {
		if _, ok := index[v.PublicKey]; !ok {
			index[v.PublicKey] = v.StatusCode
		}
	}
	out := make([]domain.KeyStatus, 0, len(keys))
	for _, key := range keys {
		status, found := index[key.Key]
		out = append(out, domain.KeyStatus{
			Key:    key.Key,
			Status: status,
			Found:  found,
			Nonce:  key.Nonce,
		})
	}
	return out
}

// Issues returns the statuses that are not expected, in input order.
func Issues(statuses []domain.KeyStatus, expected string) []domain.KeyStatus {
	var out []domain.KeyStatus
	for _, s := range statuses {
		if s.Found && s.Status == expected {
			continue
		}
		out = append(out, s)
	}
	return out
}

func describeIssue(s domain.KeyStatus) string {
	if !s.Found || s.Status == "" {
		return fmt.Sprintf("[#%d] %s is missing from the API", s.Nonce, s.Key)
	}
	return fmt.Sprintf("[#%d] %s has status %s", s.Nonce, s.Key, s.Status)
}
