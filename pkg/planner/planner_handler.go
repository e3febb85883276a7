package planner

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	Weeks       []decimal.Decimal `json:"weeks"`
	Paid        []bool            `json:"paid"`
	Transferred []bool            `json:"transferred"`
}

type WeekAmountDTO struct {
	// A missing amount clears the slot.
	Amount *decimal.Decimal `json:"amount"`
}

type WeekStatusDTO struct {
	Kind  string `json:"kind" validate:"required,oneof=paid transferred"`
	Value bool   `json:"value"`
}

type CashFlowDTO struct {
	Weekly  []decimal.Decimal `json:"weekly"`
	Monthly decimal.Decimal   `json:"monthly"`
}

type GridRowDTO struct {
	Name          string          `json:"name"`
	CategoryKey   string          `json:"categoryKey"`
	CategoryName  string          `json:"categoryName"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	IsAnnual      bool            `json:"isAnnual"`
	Entry         EntryDTO        `json:"entry"`
	Remaining     decimal.Decimal `json:"remaining"`
}

type GridDTO struct {
	Month         string            `json:"month"`
	Income        []decimal.Decimal `json:"income"`
	IncomeTotal   decimal.Decimal   `json:"incomeTotal"`
	ExpenseTotals []decimal.Decimal `json:"expenseTotals"`
	CashFlow      CashFlowDTO       `json:"cashFlow"`
	Rows          []GridRowDTO      `json:"rows"`
}

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	grid, err := h.service.Grid(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(GridToDTO(grid)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	name := mux.Vars(r)["name"]

	entry, err := h.service.GetEntry(r.Context(), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(EntryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SetWeekAmount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	name := vars["name"]
	week, err := strconv.Atoi(vars["week"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto WeekAmountDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	amount := decimal.Zero
	if dto.Amount != nil {
		amount = *dto.Amount
	}

	entry, err := h.service.SetWeekAmount(r.Context(), name, week, amount)
	if err != nil {
		if errors.Is(err, ErrInvalidWeekIndex) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(EntryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	name := vars["name"]
	week, err := strconv.Atoi(vars["week"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto WeekStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := h.service.SetStatus(r.Context(), name, week, StatusKind(dto.Kind), dto.Value)
	if err != nil {
		if errors.Is(err, ErrInvalidWeekIndex) || errors.Is(err, ErrInvalidStatusKind) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(EntryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) AutoPopulate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Auto populating planner entries")
	w.Header().Set("Content-Type", "application/json")

	created, err := h.service.AutoPopulate(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if created == nil {
		created = []string{}
	}
	response := struct {
		Created []string `json:"created"`
	}{Created: created}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func EntryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		Weeks:       entry.Weeks[:],
		Paid:        entry.Paid[:],
		Transferred: entry.Transferred[:],
	}
}

func GridToDTO(grid Grid) GridDTO {
	dto := GridDTO{
		Month:         grid.Month.String(),
		Income:        grid.Income[:],
		IncomeTotal:   grid.Income.Total(),
		ExpenseTotals: grid.ExpenseTotals[:],
		CashFlow: CashFlowDTO{
			Weekly:  grid.CashFlow.Weekly[:],
			Monthly: grid.CashFlow.Monthly,
		},
		Rows: make([]GridRowDTO, 0, len(grid.Rows)),
	}
	for _, row := range grid.Rows {
		dto.Rows = append(dto.Rows, GridRowDTO{
			Name:          row.Name,
			CategoryKey:   row.CategoryKey,
			CategoryName:  row.CategoryName,
			MonthlyAmount: row.MonthlyAmount,
			IsAnnual:      row.IsAnnual,
			Entry:         EntryToDTO(row.Entry),
			Remaining:     row.Remaining,
		})
	}
	return dto
}
