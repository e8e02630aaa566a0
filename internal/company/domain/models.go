package domain

import "gorm.io/datatypes"

type Company struct {
	Code        string `gorm:"primaryKey;type:varchar(255)" json:"code"`
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:varchar(1000);not null;default:''" json:"description"`
}

func (Company) TableName() string { return "companies" }

// CompanySummary is the list projection of a company.
type CompanySummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Invoice is an invoice row as embedded in a company response.
type Invoice struct {
	ID       int64           `json:"id"`
	CompCode string          `json:"comp_code"`
	Amt      float64         `json:"amt"`
	Paid     bool            `json:"paid"`
	AddDate  datatypes.Date  `json:"add_date"`
	PaidDate *datatypes.Date `json:"paid_date"`
}

type CompanyDetail struct {
	Company
	Invoices []Invoice `json:"invoices"`
}
