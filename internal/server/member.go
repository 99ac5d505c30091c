package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	memberdomain "github.com/fitstack/gymdesk/internal/member/domain"
	paymentdomain "github.com/fitstack/gymdesk/internal/payment/domain"
	"github.com/fitstack/gymdesk/pkg/db/pagination"
)

type createMemberRequest struct {
	FullName    string          `json:"full_name"`
	PhoneNumber string          `json:"phone_number"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
	Metadata    map[string]any  `json:"metadata"`
}

func (s *Server) CreateMember(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.Create(c.Request.Context(), memberdomain.CreateMemberRequest{
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		MonthlyFee:  req.MonthlyFee,
		Metadata:    req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListMembers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.memberSvc.List(c.Request.Context(), memberdomain.ListMemberRequest{
		Status:    strings.TrimSpace(query.Status),
		Search:    strings.TrimSpace(query.Search),
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMustPayMembers(c *gin.Context) {
	members, err := s.memberSvc.MustPay(c.Request.Context(), memberdomain.MustPayRequest{
		Search: strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"members": members}})
}

// GetMemberProfile serves the member detail together with its payment
// history, newest first. Soft-deleted members stay reachable here.
func (s *Server) GetMemberProfile(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	member, err := s.memberSvc.Get(c.Request.Context(), memberdomain.GetMemberRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payments, err := s.paymentSvc.ListByMember(c.Request.Context(), paymentdomain.ListMemberPaymentsRequest{MemberID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"member":   member,
		"payments": payments,
	}})
}

func (s *Server) DeleteMember(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.memberSvc.Delete(c.Request.Context(), memberdomain.DeleteMemberRequest{ID: id}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
