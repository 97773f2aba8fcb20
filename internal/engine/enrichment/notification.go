package enrichment

// Severity values serialize as their lowercase string form.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// RichNotification is the display-ready projection of one webhook event.
// Every nested section is optional; a nil section means its fields are
// omitted entirely downstream, not stored as nulls.
type RichNotification struct {
	Type            string        `json:"type"`
	Severity        Severity      `json:"severity"`
	Headline        string        `json:"headline"`
	HeadlineIcon    string        `json:"headline_icon"`
	Provider        string        `json:"provider"`
	ProviderDisplay string        `json:"provider_display"`
	Customer        *CustomerInfo `json:"customer,omitempty"`
	Company         *CompanyInfo  `json:"company,omitempty"`
	Insight         *InsightInfo  `json:"insight,omitempty"`
	Payment         *PaymentInfo  `json:"payment,omitempty"`
}

type CustomerInfo struct {
	Email         string   `json:"email"`
	Name          string   `json:"name,omitempty"`
	CompanyName   string   `json:"company_name,omitempty"`
	TenureDisplay string   `json:"tenure_display,omitempty"`
	LTVDisplay    string   `json:"ltv_display,omitempty"`
	OrdersCount   int      `json:"orders_count"`
	TotalSpent    float64  `json:"total_spent"`
	StatusFlags   []string `json:"status_flags,omitempty"`
}

type CompanyInfo struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Industry    string `json:"industry,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
}

type InsightInfo struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

type PaymentInfo struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Interval       string  `json:"interval,omitempty"`
	PlanName       string  `json:"plan_name,omitempty"`
	SubscriptionID string  `json:"subscription_id,omitempty"`
	PaymentMethod  string  `json:"payment_method,omitempty"`
	CardLast4      string  `json:"card_last4,omitempty"`
}
