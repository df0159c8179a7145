package dana

import (
	"sort"
	"strings"
)

// FallbackClientID is the client id the portal itself derives its key from
// when none is configured. It must stay byte-for-byte identical.
const FallbackClientID = "ligb4vl6-yxqup1ql-uw5by2ae-79f39sg5-90ni9hwp"

const (
	clientIDSeparator   = "-"
	derivedKeySeparator = "%"
)

// DeriveKey splits clientID on "-", sorts the segments and joins them with
// "%". An empty clientID derives from fallback instead.
func DeriveKey(clientID, fallback string) string {
	id := clientID
	if id == "" {
		id = fallback
	}

	segments := strings.Split(id, clientIDSeparator)
	sort.Strings(segments)
	return strings.Join(segments, derivedKeySeparator)
}
