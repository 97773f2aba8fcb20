package providers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"strconv"
)

const chargifySignatureHeader = "X-Chargify-Webhook-Signature-Hmac-Sha-256"

// ChargifyVerifier handles Chargify's form-encoded webhooks: HMAC-SHA256 of
// the raw body, hex-encoded in a dedicated header.
type ChargifyVerifier struct{}

func (v *ChargifyVerifier) Type() string        { return "chargify" }
func (v *ChargifyVerifier) DisplayName() string { return "Chargify" }

func (v *ChargifyVerifier) Validate(body []byte, headers http.Header, secret string) bool {
	signature := headers.Get(chargifySignatureHeader)
	if signature == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (v *ChargifyVerifier) Parse(body []byte) (*ParsedEvent, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}

	eventType := values.Get("event")
	// Chargify sends "test" endpoint checks with no payload worth keeping.
	if eventType == "" || eventType == "test" {
		return nil, nil
	}

	parsed := &ParsedEvent{
		Type:       normalizeChargifyType(eventType),
		Provider:   "chargify",
		ExternalID: values.Get("id"),
		CustomerID: firstNonEmpty(
			values.Get("payload[subscription][customer][reference]"),
			values.Get("payload[subscription][customer][id]"),
		),
		CustomerEmail: values.Get("payload[subscription][customer][email]"),
		Currency:      values.Get("payload[transaction][currency]"),
		Status:        values.Get("payload[subscription][state]"),
	}

	if cents := values.Get("payload[transaction][amount_in_cents]"); cents != "" {
		if n, err := strconv.ParseFloat(cents, 64); err == nil {
			parsed.Amount = n / 100
		}
	}

	metadata := map[string]any{}
	if plan := values.Get("payload[subscription][product][name]"); plan != "" {
		metadata["plan_name"] = plan
	}
	if sub := values.Get("payload[subscription][id]"); sub != "" {
		metadata["subscription_id"] = sub
	}
	if len(metadata) > 0 {
		parsed.Metadata = metadata
	}

	return parsed, nil
}

func normalizeChargifyType(eventType string) string {
	switch eventType {
	case "payment_success":
		return "payment_success"
	case "payment_failure":
		return "payment_failed"
	case "subscription_state_change":
		return "subscription_updated"
	case "signup_success":
		return "subscription_created"
	default:
		return eventType
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
