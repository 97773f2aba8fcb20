package providers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"testing"
)

func shopifySign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestShopifyValidate(t *testing.T) {
	v := &ShopifyVerifier{}
	secret := "test-shopify-secret"
	body := []byte(`{"id":123}`)

	headers := http.Header{}
	headers.Set(shopifySignatureHeader, shopifySign(secret, body))

	if !v.Validate(body, headers, secret) {
		t.Error("Expected valid signature to pass")
	}
	if v.Validate(body, headers, "other-secret") {
		t.Error("Expected wrong secret to fail")
	}
	if v.Validate([]byte(`{"id":999}`), headers, secret) {
		t.Error("Expected tampered body to fail")
	}
}

func TestShopifyParse(t *testing.T) {
	v := &ShopifyVerifier{}

	body := []byte(`{
		"id": 820982911946154508,
		"email": "order@acme.com",
		"total_price": "299.00",
		"currency": "usd",
		"financial_status": "paid",
		"customer": {"id": 115310627314723954, "email": "billing@acme.com"}
	}`)

	event, err := v.Parse(body)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if event == nil {
		t.Fatal("Expected event, got nil")
	}
	if event.Type != "payment_success" {
		t.Errorf("Expected payment_success, got %s", event.Type)
	}
	if event.ExternalID != "820982911946154508" {
		t.Errorf("Unexpected external id %s", event.ExternalID)
	}
	if event.CustomerID != "115310627314723954" {
		t.Errorf("Unexpected customer id %s", event.CustomerID)
	}
	if event.CustomerEmail != "billing@acme.com" {
		t.Errorf("Expected customer email preferred over order email, got %s", event.CustomerEmail)
	}
	if event.Amount != 299.00 {
		t.Errorf("Expected 299.00, got %f", event.Amount)
	}
	if event.Currency != "USD" {
		t.Errorf("Expected USD, got %s", event.Currency)
	}
}

func TestShopifyParsePing(t *testing.T) {
	v := &ShopifyVerifier{}

	event, err := v.Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if event != nil {
		t.Error("Expected nil event for empty verification payload")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, providerType := range []string{"stripe", "chargify", "shopify"} {
		v, ok := r.Get(providerType)
		if !ok {
			t.Errorf("Expected %s to be registered", providerType)
			continue
		}
		if v.Type() != providerType {
			t.Errorf("Expected type %s, got %s", providerType, v.Type())
		}
	}

	if _, ok := r.Get("paypal"); ok {
		t.Error("Expected unknown provider to be absent")
	}

	types := r.Types()
	if len(types) != 3 {
		t.Errorf("Expected 3 provider types, got %d", len(types))
	}
}
