package income

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cashplan/cashplan/pkg/budget"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type SourceDTO struct {
	ID              int                   `json:"id"`
	Name            string                `json:"name" validate:"required,max=200"`
	Frequency       string                `json:"frequency" validate:"required,oneof=weekly bi-weekly monthly quarterly semi-annual annual one-time"`
	ProjectedAmount decimal.Decimal       `json:"projectedAmount"`
	ActualAmount    *decimal.Decimal      `json:"actualAmount,omitempty"`
	ActualMode      string                `json:"actualMode,omitempty" validate:"omitempty,oneof=monthly-total"`
	PayDates        []string              `json:"payDates,omitempty"`
	PayActuals      []*decimal.Decimal    `json:"payActuals,omitempty"`
	LegacyWeeks     []decimal.Decimal     `json:"weeks,omitempty"`
}

type ProjectionDTO struct {
	Month string            `json:"month"`
	Weeks []decimal.Decimal `json:"weeks"`
	Total decimal.Decimal   `json:"total"`
}

type Handler struct {
	service  Service
	validate *validator.Validate
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new income source")
	w.Header().Set("Content-Type", "application/json")

	var dto SourceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), DTOToSource(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidFrequency) || errors.Is(err, ErrTooManyPayDates) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SourceToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	sources, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]SourceDTO, 0, len(sources))
	for _, source := range sources {
		dtos = append(dtos, SourceToDTO(source))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto SourceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.ID == 0 || dto.ID != int(id) {
		http.Error(w, "Invalid income source id in request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Update(r.Context(), DTOToSource(dto))
	if err != nil {
		if errors.Is(err, ErrInvalidFrequency) || errors.Is(err, ErrTooManyPayDates) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Income source not found", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), int(id))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Income source not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, weekly, err := h.service.WeeklyProjection(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := ProjectionDTO{
		Month: month.String(),
		Weeks: make([]decimal.Decimal, budget.WeeksPerMonth),
		Total: weekly.Total(),
	}
	copy(dto.Weeks, weekly[:])

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func SourceToDTO(source Source) SourceDTO {
	dto := SourceDTO{
		ID:              source.ID,
		Name:            source.Name,
		Frequency:       string(source.Frequency),
		ProjectedAmount: source.ProjectedAmount,
		ActualMode:      string(source.ActualMode),
		PayDates:        source.PayDates,
		LegacyWeeks:     source.LegacyWeeks,
	}
	if source.ActualAmount.Valid {
		amount := source.ActualAmount.Decimal
		dto.ActualAmount = &amount
	}
	if len(source.PayActuals) > 0 {
		dto.PayActuals = make([]*decimal.Decimal, len(source.PayActuals))
		for i, actual := range source.PayActuals {
			if actual.Valid {
				value := actual.Decimal
				dto.PayActuals[i] = &value
			}
		}
	}
	return dto
}

func DTOToSource(dto SourceDTO) Source {
	source := Source{
		ID:              dto.ID,
		Name:            dto.Name,
		Frequency:       Frequency(dto.Frequency),
		ProjectedAmount: dto.ProjectedAmount,
		ActualMode:      ActualMode(dto.ActualMode),
		PayDates:        dto.PayDates,
		LegacyWeeks:     dto.LegacyWeeks,
	}
	if dto.ActualAmount != nil {
		source.ActualAmount = decimal.NullDecimal{Decimal: *dto.ActualAmount, Valid: true}
	}
	if len(dto.PayActuals) > 0 {
		source.PayActuals = make([]decimal.NullDecimal, len(dto.PayActuals))
		for i, actual := range dto.PayActuals {
			if actual != nil {
				source.PayActuals[i] = decimal.NullDecimal{Decimal: *actual, Valid: true}
			}
		}
	}
	return source
}
