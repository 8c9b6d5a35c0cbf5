package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// credentialParams never participate in key derivation: two callers hitting
// the same operation with different API keys share one cache line, and no
// secret material leaks into key names.
var credentialParams = map[string]struct{}{
	"apikey":  {},
	"api_key": {},
	"token":   {},
}

// Key derives the cache key for an operation. Parameters are canonicalized
// (sorted, credential fields stripped) so that equivalent requests map to
// the same key regardless of map iteration order or call site.
func Key(capability string, params map[string]any) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		if _, ok := credentialParams[strings.ToLower(k)]; ok {
			continue
		}
		pairs = append(pairs, k+"="+fmt.Sprintf("%v", v))
	}
	sort.Strings(pairs)

	sum := sha256.Sum256([]byte(strings.Join(pairs, "&")))
	return capability + ":" + hex.EncodeToString(sum[:])[:16]
}
