package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/billing"
	"github.com/jonathan/autoapply/internal/db"
	"github.com/jonathan/autoapply/internal/types"
)

const orderHistoryLimit = 50

// handlePlans returns the public catalog. Coupons are never serialized.
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.billing.Catalog())
}

// handleQuote prices an order without creating it. Per-user coupon reuse is
// only enforced at order creation.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req types.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	quote, err := s.billing.Quote(r.Context(), uuid.Nil, billing.QuoteInput{
		PlanID:          req.PlanID,
		CouponCode:      req.CouponCode,
		WalletDeduction: req.WalletDeduction,
		SelectedAddOns:  req.SelectedAddOns,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, quote)
}

// handleCreateOrder reconciles the client's totals and opens a gateway order.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req types.CreateOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	resp, err := s.billing.Reconcile(r.Context(), mustUserID(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, resp)
}

// handleVerifyPayment checks the gateway signature and completes the order.
func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, validationError(err))
		return
	}

	txn, err := s.billing.VerifyPayment(r.Context(), mustUserID(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"verified": true, "transaction": txn})
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	txns, err := s.store.ListTransactions(r.Context(), mustUserID(r), orderHistoryLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if txns == nil {
		txns = []db.PaymentTransaction{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"orders": txns, "count": len(txns)})
}

func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	balance, err := s.store.WalletBalance(r.Context(), mustUserID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"balance": balance, "currency": s.billing.Catalog().Currency})
}
