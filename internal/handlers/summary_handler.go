package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "gastos/internal/errors"
	"gastos/internal/money"
	"gastos/internal/services"
)

// SummaryHandler handles aggregated views over the ledger.
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// MonthlySummaryItem represents one month's totals in the summary response
type MonthlySummaryItem struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// BalanceResponse represents a user's lifetime totals
type BalanceResponse struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// GetMonthlySummary handles the per-month income/expense summary
// @Summary     Monthly summary
// @Description Get income and expense totals per month in ascending order. A month with data on only one side reports the other as zero. Without user_id a standard caller gets their own ledger and an admin gets totals across every ledger; user_id=all requests the system-wide view explicitly (admin only).
// @Tags        summary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       user_id query string false "Target user ID, or 'all' for every ledger (admin only; an admin's default is already every ledger)"
// @Success     200 {array} MonthlySummaryItem "Monthly buckets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not allowed to read that ledger"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary/monthly [get]
func (h *SummaryHandler) GetMonthlySummary(c *gin.Context) {
	caller, err := currentCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var target services.SummaryTarget
	if v := c.Query("user_id"); v != "" {
		if v == "all" {
			target.AllUsers = true
		} else {
			id, parseErr := strconv.ParseUint(v, 10, 32)
			if parseErr != nil {
				respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid user_id"))
				return
			}
			target.UserID = uint(id)
		}
	}

	buckets, err := h.summaryService.GetMonthlySummary(caller, target)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items := make([]MonthlySummaryItem, len(buckets))
	for i, b := range buckets {
		items[i] = MonthlySummaryItem{
			Year:    b.Year,
			Month:   b.Month,
			Income:  money.Format(b.IncomeCents),
			Expense: money.Format(b.ExpenseCents),
		}
	}

	c.JSON(http.StatusOK, gin.H{"summary": items})
}

// GetBalance handles the lifetime balance view
// @Summary     User balance
// @Description Get lifetime income, expense, and balance totals. Expenses count at their full committed amount regardless of installment payment state. user_id reads another ledger (admin only).
// @Tags        summary
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       user_id query int false "Target user's ledger (admin only)"
// @Success     200 {object} BalanceResponse "Balance totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not allowed to read that ledger"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary/balance [get]
func (h *SummaryHandler) GetBalance(c *gin.Context) {
	caller, err := currentCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	targetUserID, err := parseTargetUser(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	balance, err := h.summaryService.GetUserBalance(caller, targetUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"income":  money.Format(balance.IncomeCents),
		"expense": money.Format(balance.ExpenseCents),
		"balance": money.Format(balance.BalanceCents),
	})
}
