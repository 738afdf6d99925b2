package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/clobcore/matching-engine/internal/order"
	"github.com/clobcore/matching-engine/internal/tick"
)

// wireSubmitRequest is the external, string-typed request shape (§9
// "Dynamic request shapes") decoded at the HTTP boundary and converted into
// the core's typed order.SubmitRequest. No untyped string ever reaches
// internal/matching.
type wireSubmitRequest struct {
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`         // "bid" or "ask"
	Price       uint64 `json:"price"`        // in price ticks
	Quantity    uint64 `json:"quantity"`
	TimeInForce string `json:"time_in_force"` // "GTC", "IOC", or "FOK"
	SubmitterID uint64 `json:"submitter_id"`
}

func decodeSubmitRequest(r *http.Request) (order.SubmitRequest, error) {
	var wire wireSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		return order.SubmitRequest{}, fmt.Errorf("decoding request body: %w", err)
	}

	side, err := parseSide(wire.Side)
	if err != nil {
		return order.SubmitRequest{}, err
	}
	tif, err := parseTimeInForce(wire.TimeInForce)
	if err != nil {
		return order.SubmitRequest{}, err
	}

	return order.SubmitRequest{
		Symbol:      wire.Symbol,
		Side:        side,
		Price:       tick.PriceTick(wire.Price),
		Quantity:    wire.Quantity,
		TimeInForce: tif,
		SubmitterID: wire.SubmitterID,
	}, nil
}

func parseSide(s string) (tick.Side, error) {
	switch s {
	case "bid":
		return tick.Bid, nil
	case "ask":
		return tick.Ask, nil
	default:
		return 0, fmt.Errorf("invalid side %q: must be \"bid\" or \"ask\"", s)
	}
}

func parseTimeInForce(s string) (order.TimeInForce, error) {
	switch s {
	case "GTC":
		return order.GTC, nil
	case "IOC":
		return order.IOC, nil
	case "FOK":
		return order.FOK, nil
	default:
		return 0, fmt.Errorf("invalid time_in_force %q: must be GTC, IOC, or FOK", s)
	}
}

// wireSubmitResult is the response-side counterpart of wireSubmitRequest,
// carrying the submit status as a string. Depth snapshots have no wire type
// of their own: writeDepthSnapshot encodes order.DepthSnapshot directly.
type wireSubmitResult struct {
	OrderID *uint64      `json:"order_id,omitempty"`
	Status  string       `json:"status"`
	Trades  []order.Trade `json:"trades,omitempty"`
}

func writeSubmitResult(w http.ResponseWriter, result order.SubmitResult) {
	wire := wireSubmitResult{Status: result.Status.String(), Trades: result.Trades}
	if result.OrderID != nil {
		id := uint64(*result.OrderID)
		wire.OrderID = &id
	}
	writeJSON(w, http.StatusOK, wire)
}

func writeDepthSnapshot(w http.ResponseWriter, snap order.DepthSnapshot) {
	writeJSON(w, http.StatusOK, snap)
}

func writeRejection(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, order.ErrUnknownSymbol), errors.Is(err, order.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrRejectedFOK):
		status = http.StatusUnprocessableEntity
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
