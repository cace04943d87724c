package podcastindex

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// Signer computes the Authorization header value for a request made at
// unix time ts.
type Signer func(apiKey, apiSecret string, ts int64) string

// calculateSignature generates the SHA-1 signature for Podcast Index API
// requests.
//
// The signature is the hex encoded SHA-1 of the API key, the API secret
// and the X-Auth-Date unix timestamp concatenated in that order.
func calculateSignature(apiKey, apiSecret string, ts int64) string {
	hasher := sha1.New()
	hasher.Write([]byte(apiKey + apiSecret + strconv.FormatInt(ts, 10)))
	return hex.EncodeToString(hasher.Sum(nil))
}
