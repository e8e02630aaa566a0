package domain

import (
	companydomain "github.com/smallbiznis/biztime/internal/company/domain"
	"gorm.io/datatypes"
)

type Invoice struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CompCode string          `gorm:"type:varchar(255);not null;index" json:"comp_code"`
	Amt      float64         `gorm:"type:decimal(12,2);not null;check:chk_invoices_amt,amt > 0" json:"amt"`
	Paid     bool            `gorm:"not null;default:false" json:"paid"`
	AddDate  datatypes.Date  `gorm:"not null" json:"add_date"`
	PaidDate *datatypes.Date `json:"paid_date"`

	Company *companydomain.Company `gorm:"foreignKey:CompCode;references:Code;constraint:OnDelete:CASCADE" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceSummary is the list projection of an invoice.
type InvoiceSummary struct {
	ID       int64  `json:"id"`
	CompCode string `json:"comp_code"`
}

// InvoiceDetail replaces comp_code with the owning company.
type InvoiceDetail struct {
	ID       int64                 `json:"id"`
	Amt      float64               `json:"amt"`
	Paid     bool                  `json:"paid"`
	AddDate  datatypes.Date        `json:"add_date"`
	PaidDate *datatypes.Date       `json:"paid_date"`
	Company  companydomain.Company `json:"company"`
}
