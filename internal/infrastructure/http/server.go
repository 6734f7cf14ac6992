package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"txboundary/internal/application"
	"txboundary/internal/domain"
	"txboundary/internal/txpolicy"

	"github.com/go-chi/chi/v5"
)

const idempotencyHeader = "X-Idempotency-Key"

type Server struct {
	orders *application.OrderService
	demo   *application.RollbackDemo
	ping   func(ctx context.Context) error
}

func NewServer(orders *application.OrderService, demo *application.RollbackDemo) *Server {
	return &Server{orders: orders, demo: demo}
}

// SetReadyCheck installs the storage ping used by /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type placeOrderRequest struct {
	Username string `json:"username"`
}

type orderJSON struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	PayStatus string    `json:"pay_status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type failureJSON struct {
	Code           string `json:"code,omitempty"`
	Message        string `json:"message"`
	Classification string `json:"classification"`
}

type placeOrderResponse struct {
	Outcome string       `json:"outcome"`
	Order   *orderJSON   `json:"order,omitempty"`
	Error   *failureJSON `json:"error,omitempty"`
}

type demoResponse struct {
	Scenario  string       `json:"scenario"`
	Outcome   string       `json:"outcome"`
	OrderID   string       `json:"order_id"`
	Persisted bool         `json:"persisted"`
	Error     *failureJSON `json:"error,omitempty"`
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var body placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	var idem *string
	if k := r.Header.Get(idempotencyHeader); k != "" {
		idem = &k
	}

	res, err := s.orders.PlaceOrder(r.Context(), body.Username, idem)
	switch {
	case errors.Is(err, application.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, application.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate request")
		return
	case err != nil && res.Outcome.Decision == 0:
		// failed before a boundary ran
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	resp := placeOrderResponse{Outcome: res.Outcome.Decision.String()}
	if res.Outcome.Committed() && res.Outcome.ResolveErr == nil {
		o := toOrderJSON(res.Order)
		resp.Order = &o
	}
	if err != nil {
		resp.Error = toFailureJSON(err)
	}
	writeJSON(w, placeOrderStatus(res.Outcome, err), resp)
}

// placeOrderStatus maps a boundary result to an HTTP status. A committed
// recoverable failure is 202: the order exists but is waiting for payment.
func placeOrderStatus(out txpolicy.Outcome, err error) int {
	switch {
	case out.ResolveErr != nil:
		return http.StatusInternalServerError
	case out.Committed() && err == nil:
		return http.StatusCreated
	case out.Committed():
		return http.StatusAccepted
	case txpolicy.Classify(err) == txpolicy.Recoverable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
			return
		}
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(o))
}

func (s *Server) RunDemo(w http.ResponseWriter, r *http.Request) {
	res, err := s.demo.Run(r.Context(), chi.URLParam(r, "scenario"))
	if errors.Is(err, application.ErrUnknownScenario) {
		writeError(w, http.StatusBadRequest, "unknown scenario")
		return
	}
	if res.Outcome.Decision == 0 {
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	resp := demoResponse{
		Scenario:  res.Scenario,
		Outcome:   res.Outcome.Decision.String(),
		OrderID:   res.OrderID,
		Persisted: res.Persisted,
	}
	if err != nil {
		resp.Error = toFailureJSON(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func toOrderJSON(o domain.Order) orderJSON {
	return orderJSON{
		ID:        o.ID,
		Username:  o.Username,
		PayStatus: string(o.PayStatus),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toFailureJSON(err error) *failureJSON {
	f := &failureJSON{
		Message:        err.Error(),
		Classification: txpolicy.Classify(err).String(),
	}
	var c txpolicy.Coded
	if errors.As(err, &c) {
		f.Code = c.FailureCode()
	}
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Code: status, Message: msg})
}
