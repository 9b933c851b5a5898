package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the API under /api/v1 and the health check at /health.
// Every route also matches OPTIONS so router middleware can answer CORS
// preflights; mux skips middleware for unmatched methods.
func RegisterRoutes(r *mux.Router, accounts *AccountHandler, payments *PaymentHandler) {
	r.HandleFunc("/health", HealthCheck).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api/v1").Subrouter()
	get := func(path string, h http.HandlerFunc) {
		api.HandleFunc(path, h).Methods(http.MethodGet, http.MethodOptions)
	}
	post := func(path string, h http.HandlerFunc) {
		api.HandleFunc(path, h).Methods(http.MethodPost, http.MethodOptions)
	}

	get("/iban/validate", accounts.ValidateIBAN)
	get("/bic/validate", accounts.ValidateBIC)
	get("/card/validate", accounts.ValidateCard)
	get("/ccc/convert", accounts.ConvertCCC)
	get("/identifiers", accounts.GenerateIdentifiers)

	post("/credit-transfers", payments.GenerateCreditTransfer)
	post("/credit-transfers/parse", payments.ParseCreditTransfer)
	post("/direct-debits", payments.GenerateDirectDebit)
	post("/direct-debits/parse", payments.ParseDirectDebit)
}
