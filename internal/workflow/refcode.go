package workflow

import (
    "crypto/rand"
    "strconv"
    "strings"
    "time"
)

// refPrefix is the fixed prefix on every reference code.
const refPrefix = "CBF"

const refAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReferenceCode builds a human-shareable code of the form
// CBF-<base36 millis>-<4 random chars>, uppercase.  It exists for
// display continuity on confirmation screens; the booking store's row
// ids remain authoritative for lookup.
func NewReferenceCode() string {
    ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
    buf := make([]byte, 4)
    if _, err := rand.Read(buf); err != nil {
        // crypto/rand failing means the platform is broken; fall back to
        // the timestamp bits rather than returning an error nobody can act on.
        for i := range buf {
            buf[i] = byte(time.Now().UnixNano() >> (i * 8))
        }
    }
    suffix := make([]byte, 4)
    for i, b := range buf {
        suffix[i] = refAlphabet[int(b)%len(refAlphabet)]
    }
    return refPrefix + "-" + ts + "-" + string(suffix)
}
