package calculator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CalculationRequestDTO struct {
	Expression string `json:"expression" validate:"required,max=1000"`
}

type CalculationResultDTO struct {
	Expression string          `json:"expression"`
	Result     decimal.Decimal `json:"result"`
}

type Handler struct {
	validate *validator.Validate
}

func NewHandler() *Handler {
	return &Handler{validate: validator.New()}
}

func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto CalculationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := Evaluate(dto.Expression)
	if err != nil {
		if errors.Is(err, ErrInvalidExpression) || errors.Is(err, ErrDivisionByZero) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := CalculationResultDTO{Expression: dto.Expression, Result: result}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
