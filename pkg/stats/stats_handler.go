package stats

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

type KindTotalsDTO struct {
	Projected decimal.Decimal `json:"projected"`
	Actual    decimal.Decimal `json:"actual"`
}

type AccountHoldDTO struct {
	AccountId   int             `json:"accountId"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
	Required    decimal.Decimal `json:"required"`
}

type SummaryDTO struct {
	Month             string            `json:"month"`
	Monthly           KindTotalsDTO     `json:"monthly"`
	Annual            KindTotalsDTO     `json:"annual"`
	WeeklyIncome      []decimal.Decimal `json:"weeklyIncome"`
	WeeklyExpenses    []decimal.Decimal `json:"weeklyExpenses"`
	WeeklyCashFlow    []decimal.Decimal `json:"weeklyCashFlow"`
	MonthlyCashFlow   decimal.Decimal   `json:"monthlyCashFlow"`
	RequiredToHold    decimal.Decimal   `json:"requiredToHold"`
	RequiredByAccount []AccountHoldDTO  `json:"requiredByAccount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, err := h.service.MonthlySummary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(SummaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func SummaryToDTO(summary Summary) SummaryDTO {
	dto := SummaryDTO{
		Month:           summary.Month.String(),
		Monthly:         KindTotalsDTO{Projected: summary.Monthly.Projected, Actual: summary.Monthly.Actual},
		Annual:          KindTotalsDTO{Projected: summary.Annual.Projected, Actual: summary.Annual.Actual},
		WeeklyIncome:    summary.WeeklyIncome[:],
		WeeklyExpenses:  summary.WeeklyExpenses[:],
		WeeklyCashFlow:  summary.CashFlow.Weekly[:],
		MonthlyCashFlow: summary.CashFlow.Monthly,
		RequiredToHold:  summary.RequiredToHold,
	}
	for _, hold := range summary.RequiredByAccount {
		dto.RequiredByAccount = append(dto.RequiredByAccount, AccountHoldDTO{
			AccountId:   hold.AccountId,
			AccountName: hold.AccountName,
			Balance:     hold.Balance,
			Required:    hold.Required,
		})
	}
	return dto
}
