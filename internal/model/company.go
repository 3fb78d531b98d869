package model

import "time"

const DefaultCompanyName = "Janvi Priya Enterprise"

// CompanyDetails is the single company profile printed on invoices.
type CompanyDetails struct {
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email"`
	GSTIN         string     `json:"gstin"`
	Tagline       string     `json:"tagline"`
	LogoURL       string     `json:"logoUrl,omitempty"`
	ReturnAddress string     `json:"returnAddress,omitempty"`
	Jurisdiction  string     `json:"jurisdiction,omitempty"`
	UPIID         string     `json:"upiId,omitempty"`
	BankName      string     `json:"bankName,omitempty"`
	AccountNo     string     `json:"accountNo,omitempty"`
	IFSC          string     `json:"ifsc,omitempty"`
	Branch        string     `json:"branch,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// DefaultCompanyDetails is served until a profile has been saved.
func DefaultCompanyDetails() CompanyDetails {
	return CompanyDetails{Name: DefaultCompanyName}
}

type UpdateCompanyRequest struct {
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	GSTIN         *string `json:"gstin,omitempty"`
	Tagline       *string `json:"tagline,omitempty"`
	LogoURL       *string `json:"logoUrl,omitempty"`
	ReturnAddress *string `json:"returnAddress,omitempty"`
	Jurisdiction  *string `json:"jurisdiction,omitempty"`
	UPIID         *string `json:"upiId,omitempty"`
	BankName      *string `json:"bankName,omitempty"`
	AccountNo     *string `json:"accountNo,omitempty"`
	IFSC          *string `json:"ifsc,omitempty"`
	Branch        *string `json:"branch,omitempty"`
}

func (r UpdateCompanyRequest) Apply(c *CompanyDetails) {
	setString(&c.Name, r.Name)
	setString(&c.Address, r.Address)
	setString(&c.Phone, r.Phone)
	setString(&c.Email, r.Email)
	setString(&c.GSTIN, r.GSTIN)
	setString(&c.Tagline, r.Tagline)
	setString(&c.LogoURL, r.LogoURL)
	setString(&c.ReturnAddress, r.ReturnAddress)
	setString(&c.Jurisdiction, r.Jurisdiction)
	setString(&c.UPIID, r.UPIID)
	setString(&c.BankName, r.BankName)
	setString(&c.AccountNo, r.AccountNo)
	setString(&c.IFSC, r.IFSC)
	setString(&c.Branch, r.Branch)
}
