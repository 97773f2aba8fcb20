package enrichment

import (
	"context"
	"errors"
	"testing"

	"revpulse/internal/engine/providers"
)

type fakeCustomers struct {
	records map[string]*CustomerRecord
	err     error
}

func (f *fakeCustomers) CustomerByExternalID(ctx context.Context, provider, externalID string) (*CustomerRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[externalID], nil
}

type fakeCompanies struct {
	records map[string]*CompanyRecord
	err     error
}

func (f *fakeCompanies) CompanyByDomain(ctx context.Context, domain string) (*CompanyRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[domain], nil
}

func paymentEvent() *providers.ParsedEvent {
	return &providers.ParsedEvent{
		Type:       "payment_success",
		Provider:   "stripe",
		ExternalID: "pi_1",
		CustomerID: "cus_1",
		Amount:     299.00,
		Currency:   "USD",
		Metadata: map[string]any{
			"plan_name":      "Pro Plan",
			"payment_method": "visa",
			"card_last4":     "4242",
		},
	}
}

func TestEnrichFullContext(t *testing.T) {
	customers := &fakeCustomers{records: map[string]*CustomerRecord{
		"cus_1": {
			Email:       "billing@acme.com",
			Name:        "John Doe",
			CompanyName: "Acme Corp",
			OrdersCount: 5,
		},
	}}
	companies := &fakeCompanies{records: map[string]*CompanyRecord{
		"acme.com": {Name: "Acme Corporation", Domain: "acme.com", Industry: "Technology"},
	}}

	n := NewEnricher(customers, companies).Enrich(context.Background(), paymentEvent())

	if n.Severity != SeveritySuccess {
		t.Errorf("Expected success severity, got %s", n.Severity)
	}
	if n.Headline != "$299.00 from Acme Corporation" {
		t.Errorf("Unexpected headline: %s", n.Headline)
	}
	if n.ProviderDisplay != "Stripe" {
		t.Errorf("Expected Stripe, got %s", n.ProviderDisplay)
	}
	if n.Customer == nil || n.Customer.Email != "billing@acme.com" {
		t.Errorf("Expected customer section, got %+v", n.Customer)
	}
	if n.Company == nil || n.Company.Name != "Acme Corporation" {
		t.Errorf("Expected company section, got %+v", n.Company)
	}
	if n.Payment == nil || n.Payment.PlanName != "Pro Plan" || n.Payment.CardLast4 != "4242" {
		t.Errorf("Expected payment section, got %+v", n.Payment)
	}
}

func TestEnrichUnknownCustomerOmitsSections(t *testing.T) {
	enricher := NewEnricher(&fakeCustomers{}, &fakeCompanies{})

	event := paymentEvent()
	event.CustomerEmail = ""
	n := enricher.Enrich(context.Background(), event)

	if n.Customer != nil {
		t.Error("Expected customer section to be omitted")
	}
	if n.Company != nil {
		t.Error("Expected company section to be omitted")
	}
	if n.Headline != "$299.00 from a customer" {
		t.Errorf("Unexpected fallback headline: %s", n.Headline)
	}
	if n.Payment == nil {
		t.Error("Payment section does not depend on directory lookups")
	}
}

func TestEnrichLookupErrorsDegrade(t *testing.T) {
	enricher := NewEnricher(
		&fakeCustomers{err: errors.New("db down")},
		&fakeCompanies{err: errors.New("db down")},
	)

	n := enricher.Enrich(context.Background(), paymentEvent())

	if n == nil {
		t.Fatal("Enrichment must never fail outright")
	}
	if n.Customer != nil || n.Company != nil {
		t.Error("Failed lookups must omit sections, not populate them")
	}
}

func TestEnrichFirstPaymentInsight(t *testing.T) {
	customers := &fakeCustomers{records: map[string]*CustomerRecord{
		"cus_1": {Email: "new@startup.io", OrdersCount: 1},
	}}
	enricher := NewEnricher(customers, &fakeCompanies{})

	n := enricher.Enrich(context.Background(), paymentEvent())

	if n.Insight == nil || n.Insight.Text != "First payment - Welcome aboard!" {
		t.Errorf("Expected first-payment insight, got %+v", n.Insight)
	}
	if n.Insight.Icon != "celebration" {
		t.Errorf("Expected celebration icon, got %s", n.Insight.Icon)
	}
}

func TestEnrichVIPInsight(t *testing.T) {
	customers := &fakeCustomers{records: map[string]*CustomerRecord{
		"cus_1": {Email: "big@corp.com", OrdersCount: 50, StatusFlags: []string{"vip"}},
	}}
	enricher := NewEnricher(customers, &fakeCompanies{})

	n := enricher.Enrich(context.Background(), paymentEvent())

	if n.Insight == nil || n.Insight.Text != "VIP customer" {
		t.Errorf("Expected VIP insight, got %+v", n.Insight)
	}
}

func TestEnrichSeverityMapping(t *testing.T) {
	enricher := NewEnricher(&fakeCustomers{}, &fakeCompanies{})

	cases := map[string]Severity{
		"payment_success":       SeveritySuccess,
		"payment_failed":        SeverityError,
		"subscription_canceled": SeverityWarning,
		"order_updated":         SeverityInfo,
	}
	for eventType, want := range cases {
		event := paymentEvent()
		event.Type = eventType
		if got := enricher.Enrich(context.Background(), event).Severity; got != want {
			t.Errorf("%s: expected %s, got %s", eventType, want, got)
		}
	}
}
