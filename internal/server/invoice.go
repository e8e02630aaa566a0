package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/biztime/internal/invoice/domain"
	invoiceservice "github.com/smallbiznis/biztime/internal/invoice/service"
)

type createInvoiceRequest struct {
	CompCode string   `json:"comp_code" binding:"required"`
	Amt      *float64 `json:"amt" binding:"required,gt=0"`
}

type updateInvoiceRequest struct {
	Amt *float64 `json:"amt" binding:"required,gt=0"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

// GetInvoice responds with the invoice itself rather than an envelope.
func (s *Server) GetInvoice(c *gin.Context) {
	invoice, err := s.invoiceSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		CompCode: strings.TrimSpace(req.CompCode),
		Amt:      *req.Amt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := invoiceservice.ParseID(id); err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	invoice, err := s.invoiceSvc.Update(c.Request.Context(), invoicedomain.UpdateInvoiceRequest{
		ID:  id,
		Amt: *req.Amt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidAmount,
		invoicedomain.ErrInvalidCompany:
		return true
	default:
		return false
	}
}
