package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixVerdict is the prefix for cached identity-check verdicts
	KeyPrefixVerdict = "tm:verdict:"
	// KeySearchHits is the sorted set of search hits per channel
	KeySearchHits = "tm:search:hits"
	// KeyPurchases is the hash of completed purchases per channel
	KeyPurchases = "tm:purchases"
)

// VerdictKey returns the Redis key for a handle's verdict.
// Handles are case-insensitive so the key is folded.
func VerdictKey(handle string) string {
	return KeyPrefixVerdict + strings.ToLower(handle)
}

// SearchHitsKey returns the key of the search-hit sorted set
func SearchHitsKey() string {
	return KeySearchHits
}

// PurchasesKey returns the key of the purchase counter hash
func PurchasesKey() string {
	return KeyPurchases
}

// ExtractHandle extracts the handle from a verdict key
func ExtractHandle(key string) (string, error) {
	if len(key) <= len(KeyPrefixVerdict) || !strings.HasPrefix(key, KeyPrefixVerdict) {
		return "", fmt.Errorf("invalid verdict key: %s", key)
	}
	return key[len(KeyPrefixVerdict):], nil
}
