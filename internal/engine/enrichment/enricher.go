package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"revpulse/internal/engine/providers"
)

// CustomerRecord is what a customer directory knows about one customer.
type CustomerRecord struct {
	Email         string
	Name          string
	CompanyName   string
	TenureDisplay string
	LTVDisplay    string
	OrdersCount   int
	TotalSpent    float64
	StatusFlags   []string
}

// CompanyRecord is firmographic context keyed by email domain.
type CompanyRecord struct {
	Name        string
	Domain      string
	Industry    string
	LogoURL     string
	LinkedInURL string
}

type CustomerDirectory interface {
	CustomerByExternalID(ctx context.Context, provider, externalID string) (*CustomerRecord, error)
}

type CompanyDirectory interface {
	CompanyByDomain(ctx context.Context, domain string) (*CompanyRecord, error)
}

// Enricher turns a parsed event into a RichNotification. Lookup failures are
// degradations, never errors: a section that cannot be resolved is omitted
// and the notification still ships.
type Enricher struct {
	customers CustomerDirectory
	companies CompanyDirectory
}

func NewEnricher(customers CustomerDirectory, companies CompanyDirectory) *Enricher {
	return &Enricher{customers: customers, companies: companies}
}

func (e *Enricher) Enrich(ctx context.Context, event *providers.ParsedEvent) *RichNotification {
	n := &RichNotification{
		Type:            event.Type,
		Severity:        severityFor(event.Type),
		Provider:        event.Provider,
		ProviderDisplay: displayNameFor(event.Provider),
	}

	customer := e.lookupCustomer(ctx, event)
	if customer != nil {
		n.Customer = &CustomerInfo{
			Email:         customer.Email,
			Name:          customer.Name,
			CompanyName:   customer.CompanyName,
			TenureDisplay: customer.TenureDisplay,
			LTVDisplay:    customer.LTVDisplay,
			OrdersCount:   customer.OrdersCount,
			TotalSpent:    customer.TotalSpent,
			StatusFlags:   customer.StatusFlags,
		}
	}

	email := event.CustomerEmail
	if email == "" && customer != nil {
		email = customer.Email
	}
	if company := e.lookupCompany(ctx, email); company != nil {
		n.Company = &CompanyInfo{
			Name:        company.Name,
			Domain:      company.Domain,
			Industry:    company.Industry,
			LogoURL:     company.LogoURL,
			LinkedInURL: company.LinkedInURL,
		}
	}

	if event.Amount > 0 {
		n.Payment = &PaymentInfo{
			Amount:         event.Amount,
			Currency:       event.Currency,
			Interval:       metaString(event, "interval"),
			PlanName:       metaString(event, "plan_name"),
			SubscriptionID: metaString(event, "subscription_id"),
			PaymentMethod:  metaString(event, "payment_method"),
			CardLast4:      metaString(event, "card_last4"),
		}
	}

	n.Headline, n.HeadlineIcon = headlineFor(event, n)
	n.Insight = insightFor(event, customer)

	return n
}

func (e *Enricher) lookupCustomer(ctx context.Context, event *providers.ParsedEvent) *CustomerRecord {
	if e.customers == nil || event.CustomerID == "" {
		return nil
	}
	customer, err := e.customers.CustomerByExternalID(ctx, event.Provider, event.CustomerID)
	if err != nil {
		log.Warn().Err(err).
			Str("provider", event.Provider).
			Str("customer_id", event.CustomerID).
			Msg("customer lookup failed, omitting section")
		return nil
	}
	return customer
}

func (e *Enricher) lookupCompany(ctx context.Context, email string) *CompanyRecord {
	if e.companies == nil {
		return nil
	}
	_, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return nil
	}
	company, err := e.companies.CompanyByDomain(ctx, strings.ToLower(domain))
	if err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("company lookup failed, omitting section")
		return nil
	}
	return company
}

func severityFor(eventType string) Severity {
	switch eventType {
	case "payment_success", "subscription_created":
		return SeveritySuccess
	case "payment_failed":
		return SeverityError
	case "subscription_canceled", "payment_refunded":
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func displayNameFor(provider string) string {
	switch provider {
	case "stripe":
		return "Stripe"
	case "chargify":
		return "Chargify"
	case "shopify":
		return "Shopify"
	default:
		return provider
	}
}

func headlineFor(event *providers.ParsedEvent, n *RichNotification) (string, string) {
	who := "a customer"
	switch {
	case n.Company != nil:
		who = n.Company.Name
	case n.Customer != nil && n.Customer.CompanyName != "":
		who = n.Customer.CompanyName
	case n.Customer != nil && n.Customer.Name != "":
		who = n.Customer.Name
	}

	switch event.Type {
	case "payment_success":
		return fmt.Sprintf("$%.2f from %s", event.Amount, who), "money"
	case "payment_failed":
		return fmt.Sprintf("Payment failed for %s", who), "alert"
	case "payment_refunded":
		return fmt.Sprintf("$%.2f refunded to %s", event.Amount, who), "undo"
	case "subscription_created":
		return fmt.Sprintf("%s subscribed", who), "star"
	case "subscription_canceled":
		return fmt.Sprintf("%s canceled their subscription", who), "warning"
	default:
		return fmt.Sprintf("%s event from %s", event.Type, who), "bell"
	}
}

func insightFor(event *providers.ParsedEvent, customer *CustomerRecord) *InsightInfo {
	if customer == nil {
		return nil
	}
	if event.Type == "payment_success" && customer.OrdersCount <= 1 {
		return &InsightInfo{Icon: "celebration", Text: "First payment - Welcome aboard!"}
	}
	for _, flag := range customer.StatusFlags {
		if flag == "vip" {
			return &InsightInfo{Icon: "diamond", Text: "VIP customer"}
		}
	}
	return nil
}

func metaString(event *providers.ParsedEvent, key string) string {
	if event.Metadata == nil {
		return ""
	}
	s, _ := event.Metadata[key].(string)
	return s
}
