package enrichment

import (
	"context"
	"database/sql"
	"encoding/json"
)

// Repository backs both directories with the sqlite customer/company tables.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CustomerByExternalID(ctx context.Context, provider, externalID string) (*CustomerRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT email, name, company_name, tenure_display, ltv_display, orders_count, total_spent, status_flags
		 FROM customers WHERE provider = ? AND external_id = ?`,
		provider, externalID,
	)

	var rec CustomerRecord
	var name, companyName, tenure, ltv, flags sql.NullString
	err := row.Scan(&rec.Email, &name, &companyName, &tenure, &ltv, &rec.OrdersCount, &rec.TotalSpent, &flags)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Name = name.String
	rec.CompanyName = companyName.String
	rec.TenureDisplay = tenure.String
	rec.LTVDisplay = ltv.String
	if flags.Valid && flags.String != "" {
		json.Unmarshal([]byte(flags.String), &rec.StatusFlags)
	}

	return &rec, nil
}

func (r *Repository) CompanyByDomain(ctx context.Context, domain string) (*CompanyRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT name, domain, industry, logo_url, linkedin_url FROM companies WHERE domain = ?`,
		domain,
	)

	var rec CompanyRecord
	var industry, logoURL, linkedinURL sql.NullString
	err := row.Scan(&rec.Name, &rec.Domain, &industry, &logoURL, &linkedinURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Industry = industry.String
	rec.LogoURL = logoURL.String
	rec.LinkedInURL = linkedinURL.String

	return &rec, nil
}
