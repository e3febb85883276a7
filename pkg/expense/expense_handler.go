package expense

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

type ExpenseDTO struct {
	Id             string           `json:"id"`
	Name           string           `json:"name" validate:"max=200"`
	Projected      decimal.Decimal  `json:"projected"`
	Actual         *decimal.Decimal `json:"actual,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Date           string           `json:"date,omitempty"`
	AccountId      int              `json:"accountId,omitempty"`
	Paid           bool             `json:"paid"`
	Transferred    bool             `json:"transferred"`
	TransferStatus string           `json:"transferStatus,omitempty" validate:"omitempty,oneof=none quarter half full actual"`
}

type CategoryDTO struct {
	Id       int          `json:"id"`
	Key      string       `json:"key" validate:"required,max=100"`
	Name     string       `json:"name" validate:"required,max=200"`
	Kind     string       `json:"kind,omitempty"`
	Expenses []ExpenseDTO `json:"expenses"`
}

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	kind := Kind(mux.Vars(r)["kind"])

	categories, err := h.service.GetCategories(r.Context(), kind)
	if err != nil {
		if errors.Is(err, ErrInvalidKind) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, CategoryToDTO(category))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new expense category")
	w.Header().Set("Content-Type", "application/json")
	kind := Kind(mux.Vars(r)["kind"])

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateCategory(r.Context(), Category{Key: dto.Key, Name: dto.Name, Kind: kind})
	if err != nil {
		if errors.Is(err, ErrInvalidKind) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(CategoryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.UpdateCategory(r.Context(), Category{Id: id, Key: dto.Key, Name: dto.Name})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.DeleteCategory(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding expense to category")
	w.Header().Set("Content-Type", "application/json")
	categoryId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.AddExpense(r.Context(), categoryId, DTOToExpense(dto))
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrInvalidTransferStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ExpenseToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["id"]

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id == "" {
		dto.Id = id
	}
	if dto.Id != id {
		http.Error(w, "Invalid expense id in request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateExpense(r.Context(), DTOToExpense(dto))
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			http.Error(w, "Expense not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrInvalidTransferStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(ExpenseToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ok, err := h.service.DeleteExpense(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Expense not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func CategoryToDTO(category Category) CategoryDTO {
	dto := CategoryDTO{
		Id:       category.Id,
		Key:      category.Key,
		Name:     category.Name,
		Kind:     string(category.Kind),
		Expenses: make([]ExpenseDTO, 0, len(category.Expenses)),
	}
	for _, e := range category.Expenses {
		dto.Expenses = append(dto.Expenses, ExpenseToDTO(e))
	}
	return dto
}

func ExpenseToDTO(e Expense) ExpenseDTO {
	dto := ExpenseDTO{
		Id:             e.Id,
		Name:           e.Name,
		Projected:      e.Projected,
		Date:           e.DueDate,
		AccountId:      e.AccountId,
		Paid:           e.Paid,
		Transferred:    e.Transferred,
		TransferStatus: string(e.TransferStatus),
	}
	if e.Actual.Valid {
		actual := e.Actual.Decimal
		dto.Actual = &actual
	}
	if e.Amount.Valid {
		amount := e.Amount.Decimal
		dto.Amount = &amount
	}
	return dto
}

func DTOToExpense(dto ExpenseDTO) Expense {
	e := Expense{
		Id:             dto.Id,
		Name:           dto.Name,
		Projected:      dto.Projected,
		DueDate:        dto.Date,
		AccountId:      dto.AccountId,
		Paid:           dto.Paid,
		Transferred:    dto.Transferred,
		TransferStatus: TransferStatus(dto.TransferStatus),
	}
	if dto.Actual != nil {
		e.Actual = decimal.NullDecimal{Decimal: *dto.Actual, Valid: true}
	}
	if dto.Amount != nil {
		e.Amount = decimal.NullDecimal{Decimal: *dto.Amount, Valid: true}
	}
	return e
}
