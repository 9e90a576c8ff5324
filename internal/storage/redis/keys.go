package redis

import (
	"fmt"

	"github.com/tabsplit/tabsplit/internal/model"
)

// Key prefix for all bill-splitting data
const keyPrefix = "tabsplit"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// billKey returns the Redis key for a Bill
func billKey(id model.BillID) string {
	return fmt.Sprintf("%s:bill:%s", keyPrefix, id)
}

// billIndexKey returns the Redis key for the sorted set of bill ids,
// scored by creation time for newest-first listing
func billIndexKey() string {
	return fmt.Sprintf("%s:idx:bills", keyPrefix)
}
