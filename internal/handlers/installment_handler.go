package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gastos/internal/money"
	"gastos/internal/scope"
	"gastos/internal/services"
)

// InstallmentHandler handles installment payment and monthly views.
type InstallmentHandler struct {
	installmentService services.InstallmentServicer
}

// NewInstallmentHandler creates a new InstallmentHandler.
func NewInstallmentHandler(installmentService services.InstallmentServicer) *InstallmentHandler {
	return &InstallmentHandler{installmentService: installmentService}
}

// InstallmentViewItem represents one installment in a monthly view,
// annotated with its parent expense and plan progress.
type InstallmentViewItem struct {
	ID                 uint   `json:"id"`
	ExpenseID          uint   `json:"expense_id"`
	Number             int    `json:"number"`
	Amount             string `json:"amount"`
	DueDate            string `json:"due_date"`
	Status             string `json:"status"`
	ExpenseDescription string `json:"expense_description"`
	CategoryName       string `json:"category_name"`
	PaidCount          int    `json:"paid_count"`
	TotalCount         int    `json:"total_count"`
	RemainingCount     int    `json:"remaining_count"`
}

// PayInstallment handles marking an installment as paid
// @Summary     Pay an installment
// @Description Mark a pending installment as paid. Paying an already-paid installment is a successful no-op, so retries are safe.
// @Tags        installments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Installment ID"
// @Success     200 {object} models.Installment "Installment in paid state"
// @Failure     400 {object} ErrorResponse "Invalid installment ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the owner of the parent expense"
// @Failure     404 {object} ErrorResponse "Installment not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /installments/{id}/pay [post]
func (h *InstallmentHandler) PayInstallment(c *gin.Context) {
	caller, err := currentCaller(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	installmentID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	installment, err := h.installmentService.PayInstallment(caller, installmentID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"installment": installment})
}

// GetPendingInstallments handles the monthly pending-installments view
// @Summary     Pending installments for a month
// @Description List pending installments due in the given month, with parent expense context and plan progress. user_id reads another ledger (admin only).
// @Tags        installments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year    query int true  "Year"
// @Param       month   query int true  "Month 1-12"
// @Param       user_id query int false "Target user's ledger (admin only)"
// @Success     200 {array} InstallmentViewItem "Pending installments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not allowed to read that ledger"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /installments/pending [get]
func (h *InstallmentHandler) GetPendingInstallments(c *gin.Context) {
	h.installmentView(c, h.installmentService.GetPendingInstallments)
}

// GetPaidInstallments handles the monthly paid-installments view
// @Summary     Paid installments for a month
// @Description List paid installments due in the given month, with parent expense context and plan progress. user_id reads another ledger (admin only).
// @Tags        installments
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       year    query int true  "Year"
// @Param       month   query int true  "Month 1-12"
// @Param       user_id query int false "Target user's ledger (admin only)"
// @Success     200 {array} InstallmentViewItem "Paid installments"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not allowed to read that ledger"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /installments/paid [get]
func (h *InstallmentHandler) GetPaidInstallments(c *gin.Context) {
	h.installmentView(c, h.installmentService.GetPaidInstallments)
}

func (h *InstallmentHandler) installmentView(c *gin.Context, fetch func(scope.Caller, uint, services.Period) ([]services.InstallmentDetail, error)) {
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

	period, err := requirePeriod(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	details, err := fetch(caller, targetUserID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	items := make([]InstallmentViewItem, len(details))
	for i, d := range details {
		items[i] = InstallmentViewItem{
			ID:                 d.Installment.ID,
			ExpenseID:          d.Installment.ExpenseID,
			Number:             d.Installment.Number,
			Amount:             money.Format(d.Installment.AmountCents),
			DueDate:            d.Installment.DueDate.Format("2006-01-02"),
			Status:             string(d.Installment.Status),
			ExpenseDescription: d.ExpenseDescription,
			CategoryName:       d.CategoryName,
			PaidCount:          d.PaidCount,
			TotalCount:         d.TotalCount,
			RemainingCount:     d.RemainingCount,
		}
	}

	c.JSON(http.StatusOK, gin.H{"installments": items})
}
