package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice_server/internal/model"

	"github.com/jackc/pgx/v5"
)

// CompanyRepository stores the single company profile row.
type CompanyRepository interface {
	Get(ctx context.Context) (*model.CompanyDetails, error)
	Save(ctx context.Context, c *model.CompanyDetails) error
}

type companyRepository struct {
	db DB
}

func NewCompanyRepository(db DB) CompanyRepository {
	return &companyRepository{db: db}
}

var companyWritable = []string{
	"name", "address", "phone", "email", "gstin", "tagline", "logo_url", "return_address",
	"jurisdiction", "upi_id", "bank_name", "account_no", "ifsc", "branch",
}

// Get returns ErrNotFound until a profile has been saved.
func (r *companyRepository) Get(ctx context.Context) (*model.CompanyDetails, error) {
	c := &model.CompanyDetails{}
	var createdAt, updatedAt time.Time
	sql := `SELECT ` + strings.Join(companyWritable, ", ") + `, created_at, updated_at FROM company_details WHERE id = 1`
	err := r.db.QueryRow(ctx, sql).Scan(
		&c.Name, &c.Address, &c.Phone, &c.Email, &c.GSTIN, &c.Tagline, &c.LogoURL, &c.ReturnAddress,
		&c.Jurisdiction, &c.UPIID, &c.BankName, &c.AccountNo, &c.IFSC, &c.Branch,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load company details: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = &createdAt, &updatedAt
	return c, nil
}

// Save upserts the profile.
func (r *companyRepository) Save(ctx context.Context, c *model.CompanyDetails) error {
	updates := make([]string, len(companyWritable))
	for i, col := range companyWritable {
		updates[i] = col + " = EXCLUDED." + col
	}
	sql := fmt.Sprintf(`INSERT INTO company_details (id, %s) VALUES (1, %s)
            ON CONFLICT (id) DO UPDATE SET %s RETURNING created_at, updated_at`,
		strings.Join(companyWritable, ", "), placeholders(len(companyWritable), 1), strings.Join(updates, ", "))

	var createdAt, updatedAt time.Time
	err := r.db.QueryRow(ctx, sql,
		c.Name, c.Address, c.Phone, c.Email, c.GSTIN, c.Tagline, c.LogoURL, c.ReturnAddress,
		c.Jurisdiction, c.UPIID, c.BankName, c.AccountNo, c.IFSC, c.Branch,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save company details: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = &createdAt, &updatedAt
	return nil
}
