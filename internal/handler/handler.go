package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fitledger/internal/config"
	"fitledger/internal/model"
	"fitledger/internal/repository"
	"fitledger/internal/service"
	"fitledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler bundles all service dependencies behind the HTTP routes.
type Handler struct {
	checkinService *service.CheckinService
	grantService   *service.GrantService
	ledgerService  *service.LedgerService
}

func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		checkinService: service.NewCheckinService(db, rdb, cfg),
		grantService:   service.NewGrantService(db, cfg),
		ledgerService:  service.NewLedgerService(db),
	}
}

// statusForCode maps business outcome codes onto conventional HTTP
// statuses. The code in the body is what clients branch on.
func statusForCode(code string) int {
	switch code {
	case service.CodeUnauthorized, service.CodeUnauthorizedFranchise:
		return http.StatusForbidden
	case service.CodeAlreadyCompleted, service.CodeInvalidStatus:
		return http.StatusConflict
	case service.CodeUserNotFound:
		return http.StatusNotFound
	case service.CodeValidationError, service.CodeConfirmationRequired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(c *gin.Context, err error) bool {
	var domainErr *service.DomainError
	if errors.As(err, &domainErr) {
		response.BusinessError(c, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message)
		return true
	}
	return false
}

// ============================================================
// Check-in
// ============================================================

// CheckinRequest is the body of the check-in endpoint.
type CheckinRequest struct {
	Method string `json:"method" binding:"required,oneof=QRCODE MANUAL"`
}

// Checkin performs the booking check-in.
// POST /api/v1/bookings/:id/checkin
func (h *Handler) Checkin(c *gin.Context) {
	bookingID := c.Param("id")

	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Parâmetros inválidos: "+err.Error())
		return
	}

	claims := claimsFrom(c)
	caller := service.Caller{UserID: claims.Sub, Role: claims.Role}

	result, err := h.checkinService.AttemptCheckin(c.Request.Context(), bookingID, caller, req.Method)
	if err != nil {
		if writeDomainError(c, err) {
			return
		}
		if errors.Is(err, repository.ErrBookingNotFound) {
			response.BusinessError(c, http.StatusNotFound, "BOOKING_NOT_FOUND", err.Error())
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"booking":     result.Booking,
		"transaction": result.Transaction,
		"balance":     result.Balance,
	})
}

// ============================================================
// Admin credits
// ============================================================

// GrantCreditRequest is the body of the grant endpoint.
type GrantCreditRequest struct {
	UserEmail           string `json:"userEmail" binding:"required,email"`
	CreditType          string `json:"creditType" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required"`
	Reason              string `json:"reason" binding:"required"`
	ConfirmHighQuantity bool   `json:"confirmHighQuantity"`
}

// GrantCredit grants credits to a student or professor.
// POST /api/v1/admin/credits/grant
func (h *Handler) GrantCredit(c *gin.Context) {
	var req GrantCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Parâmetros inválidos: "+err.Error())
		return
	}

	admin := adminContextFrom(c)

	result, err := h.grantService.GrantCredit(c.Request.Context(), admin, &service.GrantRequest{
		UserEmail:           req.UserEmail,
		CreditType:          req.CreditType,
		Quantity:            req.Quantity,
		Reason:              req.Reason,
		ConfirmHighQuantity: req.ConfirmHighQuantity,
	})
	if err != nil {
		if writeDomainError(c, err) {
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	body := gin.H{"grantId": result.GrantID}
	if result.StudentTransaction != nil {
		body["transaction"] = result.StudentTransaction
		body["balance"] = result.StudentBalance
	} else {
		body["transaction"] = result.HourTransaction
		body["balance"] = result.ProfessorBalance
	}
	response.Success(c, body)
}

// SearchUser resolves a user for the admin credit screen.
// GET /api/v1/admin/credits/search-user?email=
//
// Denial and not-found keep the result shape but with every field
// null/empty, so a scoped admin cannot probe other franchises.
func (h *Handler) SearchUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.ParamError(c, "O parâmetro email é obrigatório")
		return
	}

	admin := adminContextFrom(c)

	result, err := h.grantService.SearchUser(c.Request.Context(), admin, email)
	if err != nil {
		var domainErr *service.DomainError
		if errors.As(err, &domainErr) {
			c.JSON(statusForCode(domainErr.Code), gin.H{
				"success":          false,
				"code":             domainErr.Code,
				"message":          domainErr.Message,
				"user":             nil,
				"studentBalance":   nil,
				"professorBalance": nil,
				"franchises":       []string{},
			})
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"user":             result.User,
		"studentBalance":   result.StudentBalance,
		"professorBalance": result.ProfessorBalance,
		"franchises":       result.Franchises,
	})
}

// ============================================================
// Balances and ledger views
// ============================================================

// GetProfessorBalance returns the caller's own hour balance.
// GET /api/v1/account/professor/balance
func (h *Handler) GetProfessorBalance(c *gin.Context) {
	claims := claimsFrom(c)

	balance, err := h.ledgerService.GetProfessorBalance(c.Request.Context(), claims.Sub, claims.FranqueadoraID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"balance": balance})
}

// GetStudentBalance returns the caller's own class-credit balance.
// GET /api/v1/account/student/balance
func (h *Handler) GetStudentBalance(c *gin.Context) {
	claims := claimsFrom(c)

	balance, err := h.ledgerService.GetStudentBalance(c.Request.Context(), claims.Sub, claims.FranqueadoraID)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"balance": balance})
}

// ListTransactions lists the caller's own ledger, newest first.
// GET /api/v1/ledger/transactions?page=1&page_size=10
func (h *Handler) ListTransactions(c *gin.Context) {
	claims := claimsFrom(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	if claims.Role == model.RoleProfessor {
		transactions, total, err := h.ledgerService.ListProfessorTransactions(c.Request.Context(), claims.Sub, page, pageSize)
		if err != nil {
			response.ServerError(c, err.Error())
			return
		}
		response.Success(c, gin.H{"list": transactions, "total": total, "page": page, "page_size": pageSize})
		return
	}

	transactions, total, err := h.ledgerService.ListStudentTransactions(c.Request.Context(), claims.Sub, page, pageSize)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"list": transactions, "total": total, "page": page, "page_size": pageSize})
}
