package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	companydomain "github.com/smallbiznis/biztime/internal/company/domain"
)

type createCompanyRequest struct {
	Code        string `json:"code" binding:"max=255"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type updateCompanyRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

func (s *Server) ListCompanies(c *gin.Context) {
	companies, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (s *Server) GetCompany(c *gin.Context) {
	company, err := s.companySvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("code")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	company, err := s.companySvc.Create(c.Request.Context(), companydomain.CreateCompanyRequest{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"company": company})
}

func (s *Server) UpdateCompany(c *gin.Context) {
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindingError(err))
		return
	}

	company, err := s.companySvc.Update(c.Request.Context(), companydomain.UpdateCompanyRequest{
		Code:        strings.TrimSpace(c.Param("code")),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (s *Server) DeleteCompany(c *gin.Context) {
	if err := s.companySvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("code"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func isCompanyValidationError(err error) bool {
	switch err {
	case companydomain.ErrInvalidCode,
		companydomain.ErrInvalidName:
		return true
	default:
		return false
	}
}
