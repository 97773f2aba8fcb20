package providers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
)

const stripeSignatureHeader = "Stripe-Signature"

// StripeVerifier checks the Stripe-Signature header: HMAC-SHA256 over
// "{t}.{body}" with the endpoint secret, hex-encoded in the v1 scheme.
type StripeVerifier struct{}

func (v *StripeVerifier) Type() string        { return "stripe" }
func (v *StripeVerifier) DisplayName() string { return "Stripe" }

func (v *StripeVerifier) Validate(body []byte, headers http.Header, secret string) bool {
	header := headers.Get(stripeSignatureHeader)
	if header == "" || secret == "" {
		return false
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		k, val, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			timestamp = val
		case "v1":
			signatures = append(signatures, val)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object map[string]any `json:"object"`
	} `json:"data"`
}

func (v *StripeVerifier) Parse(body []byte) (*ParsedEvent, error) {
	var evt stripeEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, err
	}

	// Test pings carry no object to process.
	if evt.Type == "" || evt.Type == "test" || len(evt.Data.Object) == 0 {
		return nil, nil
	}

	obj := evt.Data.Object
	parsed := &ParsedEvent{
		Type:       normalizeStripeType(evt.Type),
		Provider:   "stripe",
		ExternalID: stringField(obj, "id"),
		CustomerID: stringField(obj, "customer"),
		Currency:   strings.ToUpper(stringField(obj, "currency")),
		Status:     stringField(obj, "status"),
	}

	// Stripe amounts are integer minor units.
	if cents, ok := numberField(obj, "amount"); ok {
		parsed.Amount = cents / 100
	} else if cents, ok := numberField(obj, "amount_paid"); ok {
		parsed.Amount = cents / 100
	}

	if email := stringField(obj, "customer_email"); email != "" {
		parsed.CustomerEmail = email
	}
	if meta, ok := obj["metadata"].(map[string]any); ok && len(meta) > 0 {
		parsed.Metadata = meta
	}

	return parsed, nil
}

func normalizeStripeType(eventType string) string {
	switch eventType {
	case "payment_intent.succeeded", "invoice.payment_succeeded", "charge.succeeded":
		return "payment_success"
	case "payment_intent.payment_failed", "invoice.payment_failed", "charge.failed":
		return "payment_failed"
	case "customer.subscription.deleted":
		return "subscription_canceled"
	case "customer.subscription.created":
		return "subscription_created"
	default:
		return eventType
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func numberField(obj map[string]any, key string) (float64, bool) {
	n, ok := obj[key].(float64)
	return n, ok
}
