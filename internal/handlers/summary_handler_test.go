package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "gastos/internal/errors"
	"gastos/internal/models"
	"gastos/internal/scope"
	"gastos/internal/services"
)

// --- mock summary service ---

type mockSummaryService struct {
	getMonthlySummaryFn func(caller scope.Caller, target services.SummaryTarget) ([]services.MonthBucket, error)
	getUserBalanceFn    func(caller scope.Caller, targetUserID uint) (*services.BalanceSummary, error)
}

func (m *mockSummaryService) GetMonthlySummary(caller scope.Caller, target services.SummaryTarget) ([]services.MonthBucket, error) {
	if m.getMonthlySummaryFn != nil {
		return m.getMonthlySummaryFn(caller, target)
	}
	return []services.MonthBucket{}, nil
}

func (m *mockSummaryService) GetUserBalance(caller scope.Caller, targetUserID uint) (*services.BalanceSummary, error) {
	if m.getUserBalanceFn != nil {
		return m.getUserBalanceFn(caller, targetUserID)
	}
	return &services.BalanceSummary{}, nil
}

var _ services.SummaryServicer = (*mockSummaryService)(nil)

func setupSummaryRouter(handler *SummaryHandler, role models.UserRole) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectCaller(1, role))
	auth.GET("/summary/monthly", handler.GetMonthlySummary)
	auth.GET("/summary/balance", handler.GetBalance)
	return r
}

func TestSummaryHandler_GetMonthlySummary(t *testing.T) {
	t.Run("renders formatted buckets in order", func(t *testing.T) {
		svc := &mockSummaryService{
			getMonthlySummaryFn: func(_ scope.Caller, _ services.SummaryTarget) ([]services.MonthBucket, error) {
				return []services.MonthBucket{
					{Year: 2025, Month: 1, IncomeCents: 500000, ExpenseCents: 0},
					{Year: 2025, Month: 2, IncomeCents: 0, ExpenseCents: 120000},
				}, nil
			},
		}
		handler := NewSummaryHandler(svc)
		r := setupSummaryRouter(handler, models.RoleStandard)

		rec := doRequest(r, "GET", "/summary/monthly", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		items := parseJSON(t, rec)["summary"].([]interface{})
		if len(items) != 2 {
			t.Fatalf("expected 2 buckets, got %d", len(items))
		}
		first := items[0].(map[string]interface{})
		if first["income"] != "5000.00" || first["expense"] != "0.00" {
			t.Errorf("first bucket = %v", first)
		}
	})

	t.Run("user_id=all targets every ledger", func(t *testing.T) {
		var captured services.SummaryTarget
		svc := &mockSummaryService{
			getMonthlySummaryFn: func(_ scope.Caller, target services.SummaryTarget) ([]services.MonthBucket, error) {
				captured = target
				return []services.MonthBucket{}, nil
			},
		}
		handler := NewSummaryHandler(svc)
		r := setupSummaryRouter(handler, models.RoleAdmin)

		rec := doRequest(r, "GET", "/summary/monthly?user_id=all", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !captured.AllUsers {
			t.Error("expected AllUsers target")
		}
	})

	t.Run("numeric user_id targets that ledger", func(t *testing.T) {
		var captured services.SummaryTarget
		svc := &mockSummaryService{
			getMonthlySummaryFn: func(_ scope.Caller, target services.SummaryTarget) ([]services.MonthBucket, error) {
				captured = target
				return []services.MonthBucket{}, nil
			},
		}
		handler := NewSummaryHandler(svc)
		r := setupSummaryRouter(handler, models.RoleAdmin)

		doRequest(r, "GET", "/summary/monthly?user_id=7", "")

		if captured.UserID != 7 || captured.AllUsers {
			t.Errorf("target = %+v; want UserID 7", captured)
		}
	})

	t.Run("returns 403 when scope denies", func(t *testing.T) {
		svc := &mockSummaryService{
			getMonthlySummaryFn: func(_ scope.Caller, _ services.SummaryTarget) ([]services.MonthBucket, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		handler := NewSummaryHandler(svc)
		r := setupSummaryRouter(handler, models.RoleStandard)

		rec := doRequest(r, "GET", "/summary/monthly?user_id=all", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on garbage user_id", func(t *testing.T) {
		handler := NewSummaryHandler(&mockSummaryService{})
		r := setupSummaryRouter(handler, models.RoleStandard)

		rec := doRequest(r, "GET", "/summary/monthly?user_id=everyone", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSummaryHandler_GetBalance(t *testing.T) {
	t.Run("renders formatted totals", func(t *testing.T) {
		svc := &mockSummaryService{
			getUserBalanceFn: func(_ scope.Caller, _ uint) (*services.BalanceSummary, error) {
				return &services.BalanceSummary{
					IncomeCents:  500000,
					ExpenseCents: 100000,
					BalanceCents: 400000,
				}, nil
			},
		}
		handler := NewSummaryHandler(svc)
		r := setupSummaryRouter(handler, models.RoleStandard)

		rec := doRequest(r, "GET", "/summary/balance", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["income"] != "5000.00" || result["expense"] != "1000.00" || result["balance"] != "4000.00" {
			t.Errorf("unexpected totals: %v", result)
		}
	})

	t.Run("returns 403 on another ledger", func(t *testing.T) {
		svc := &mockSummaryService{
			getUserBalanceFn: func(_ scope.Caller, _ uint) (*services.BalanceSummary, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		handler := NewSummaryHandler(svc)
		r := setupSummaryRouter(handler, models.RoleStandard)

		rec := doRequest(r, "GET", "/summary/balance?user_id=9", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}
