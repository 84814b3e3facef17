// Package initdata verifies the signed launch parameters ("init data") a
// Telegram mini-app receives from its host and extracts the user behind them.
//
// Verification follows the host's documented scheme: every field except
// hash is sorted by key, joined as key=value lines and signed with
// HMAC-SHA256 under a key derived from the bot token.
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/totegamma/funnelbuilder/internal/utils"
)

const (
	hashField     = "hash"
	authDateField = "auth_date"

	keyDerivationConstant = "WebAppData"
)

// Fields is the decoded payload in the order the host sent it.
type Fields = utils.OrderedKVMap[string]

// Parse decodes a query-string payload. Undecodable segments and repeated
// keys are rejected as MalformedPayload.
func Parse(payload string) (Fields, error) {
	fields := Fields{}
	for _, segment := range strings.Split(payload, "&") {
		if segment == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, &RejectedError{Reason: MalformedPayload, Detail: fmt.Sprintf("invalid key encoding %q", rawKey)}
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, &RejectedError{Reason: MalformedPayload, Detail: fmt.Sprintf("invalid value encoding for %q", key)}
		}
		if _, dup := fields.Get(key); dup {
			return nil, &RejectedError{Reason: MalformedPayload, Detail: fmt.Sprintf("duplicate field %q", key)}
		}
		fields.Set(key, value)
	}
	return fields, nil
}

// DataCheckString builds the canonical string the signature is computed
// over: all fields except hash, sorted byte-wise by key, as key=value lines.
func DataCheckString(fields Fields) string {
	var sb strings.Builder
	first := true
	for _, key := range fields.SortedKeys() {
		if key == hashField {
			continue
		}
		if !first {
			sb.WriteByte('\n')
		}
		first = false
		sb.WriteString(key)
		sb.WriteByte('=')
		sb.WriteString(fields[key].Value)
	}
	return sb.String()
}

// SecretKey derives the verification key from the bot token:
// HMAC-SHA256 keyed with "WebAppData" over the token.
func SecretKey(botToken []byte) []byte {
	mac := hmac.New(sha256.New, []byte(keyDerivationConstant))
	mac.Write(botToken)
	return mac.Sum(nil)
}

func signature(fields Fields, botToken []byte) []byte {
	mac := hmac.New(sha256.New, SecretKey(botToken))
	mac.Write([]byte(DataCheckString(fields)))
	return mac.Sum(nil)
}

// Sign returns the hex hash the host would attach to fields.
func Sign(fields Fields, botToken []byte) string {
	return hex.EncodeToString(signature(fields, botToken))
}

// Encode serializes fields in their original order and appends the hash.
func Encode(fields Fields, botToken []byte) string {
	var sb strings.Builder
	for _, key := range fields.Keys() {
		if key == hashField {
			continue
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(fields[key].Value))
		sb.WriteByte('&')
	}
	sb.WriteString(hashField)
	sb.WriteByte('=')
	sb.WriteString(Sign(fields, botToken))
	return sb.String()
}

// Verify decides whether payload was issued by the host for the bot owning
// secret, no longer than maxAge before now(). A maxAge of zero or less
// disables the age bound. Verify never panics on malformed input and has
// no side effects.
func Verify(payload string, secret []byte, maxAge time.Duration, now func() time.Time) Result {
	fields, err := Parse(payload)
	if err != nil {
		return rejectedWith(err)
	}

	hash, ok := fields.Pop(hashField)
	if !ok {
		return rejected(MissingSignature, "hash field absent")
	}

	given, err := hex.DecodeString(hash)
	if err != nil {
		return rejected(MalformedPayload, "hash is not hex encoded")
	}
	if !hmac.Equal(given, signature(fields, secret)) {
		return rejected(SignatureMismatch, "")
	}

	rawDate, ok := fields.Get(authDateField)
	if !ok {
		return rejected(MissingOrInvalidTimestamp, "auth_date absent")
	}
	unix, err := strconv.ParseInt(rawDate, 10, 64)
	if err != nil {
		return rejected(MissingOrInvalidTimestamp, fmt.Sprintf("auth_date %q is not a unix time", rawDate))
	}
	authDate := time.Unix(unix, 0).UTC()

	if now == nil {
		now = time.Now
	}
	if maxAge > 0 {
		if age := now().Sub(authDate); age > maxAge {
			return rejected(Stale, fmt.Sprintf("issued %s ago", age.Truncate(time.Second)))
		}
	}

	principal, err := extractPrincipal(fields)
	if err != nil {
		return rejectedWith(err)
	}

	return Result{
		principal: &principal,
		launch:    extractLaunch(fields, authDate),
	}
}
