package handler

import (
	"net/http"

	"sepakit/pkg/bic"
	"sepakit/pkg/card"
	"sepakit/pkg/ccc"
	"sepakit/pkg/iban"
	"sepakit/pkg/identifier"
	"sepakit/pkg/validator"
)

// AccountHandler exposes the identifier validators, the CCC converter and
// the reference generator.
type AccountHandler struct {
	ibans     *iban.Validator
	bics      *bic.Validator
	cards     *card.Validator
	cccs      *ccc.Converter
	ids       *identifier.Generator
	validator *validator.Validator
	metrics   Recorder
	logger    Logger
}

func NewAccountHandler(ibans *iban.Validator, bics *bic.Validator, cards *card.Validator, cccs *ccc.Converter,
	ids *identifier.Generator, val *validator.Validator, metrics Recorder, log Logger) *AccountHandler {
	return &AccountHandler{
		ibans:     ibans,
		bics:      bics,
		cards:     cards,
		cccs:      cccs,
		ids:       ids,
		validator: val,
		metrics:   metrics,
		logger:    log,
	}
}

type ibanQuery struct {
	IBAN string `json:"iban" validate:"required,max=64"`
}

type IBANResponse struct {
	Input       string `json:"input"`
	Normalized  string `json:"normalized"`
	Valid       bool   `json:"valid"`
	Error       string `json:"error,omitempty"`
	Formatted   string `json:"formatted,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	CheckDigits string `json:"checkDigits,omitempty"`
	BBAN        string `json:"bban,omitempty"`
}

// ValidateIBAN handles GET /api/v1/iban/validate?iban=...
func (h *AccountHandler) ValidateIBAN(w http.ResponseWriter, r *http.Request) {
	q := ibanQuery{IBAN: r.URL.Query().Get("iban")}
	if errs := h.validator.ValidateStructured(&q); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	resp := IBANResponse{Input: validator.Sanitize(q.IBAN), Normalized: h.ibans.Normalize(q.IBAN)}
	if err := h.ibans.Validate(q.IBAN); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Valid = true
		resp.Formatted = h.ibans.Format(q.IBAN)
		resp.CountryCode = h.ibans.CountryCode(q.IBAN)
		resp.CheckDigits = h.ibans.CheckDigits(q.IBAN)
		resp.BBAN = h.ibans.BBAN(q.IBAN)
	}
	h.record("iban", resp.Valid)
	respondJSON(w, http.StatusOK, resp)
}

type bicQuery struct {
	BIC string `json:"bic" validate:"required,max=32"`
}

type BICResponse struct {
	Input        string  `json:"input"`
	Normalized   string  `json:"normalized"`
	Valid        bool    `json:"valid"`
	Error        string  `json:"error,omitempty"`
	BankCode     string  `json:"bankCode,omitempty"`
	CountryCode  string  `json:"countryCode,omitempty"`
	LocationCode string  `json:"locationCode,omitempty"`
	BranchCode   *string `json:"branchCode"`
}

// ValidateBIC handles GET /api/v1/bic/validate?bic=...
func (h *AccountHandler) ValidateBIC(w http.ResponseWriter, r *http.Request) {
	q := bicQuery{BIC: r.URL.Query().Get("bic")}
	if errs := h.validator.ValidateStructured(&q); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	resp := BICResponse{Input: validator.Sanitize(q.BIC), Normalized: h.bics.Normalize(q.BIC)}
	if err := h.bics.Validate(q.BIC); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Valid = true
		resp.BankCode = h.bics.BankCode(q.BIC)
		resp.CountryCode = h.bics.CountryCode(q.BIC)
		resp.LocationCode = h.bics.LocationCode(q.BIC)
		if branch, ok := h.bics.BranchCode(q.BIC); ok {
			resp.BranchCode = &branch
		}
	}
	h.record("bic", resp.Valid)
	respondJSON(w, http.StatusOK, resp)
}

type cardQuery struct {
	Card string `json:"card" validate:"required,max=32"`
}

// CardResponse never carries the full number.
type CardResponse struct {
	Valid    bool   `json:"valid"`
	Error    string `json:"error,omitempty"`
	Type     string `json:"type"`
	BIN      string `json:"bin,omitempty"`
	LastFour string `json:"lastFour,omitempty"`
	Masked   string `json:"masked"`
}

// ValidateCard handles GET /api/v1/card/validate?card=...
func (h *AccountHandler) ValidateCard(w http.ResponseWriter, r *http.Request) {
	q := cardQuery{Card: r.URL.Query().Get("card")}
	if errs := h.validator.ValidateStructured(&q); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	resp := CardResponse{
		Type:   string(h.cards.Type(q.Card)),
		Masked: h.cards.Mask(q.Card, 0),
	}
	if err := h.cards.Validate(q.Card); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Valid = true
		resp.BIN = h.cards.BIN(q.Card)
		resp.LastFour = h.cards.LastFour(q.Card)
	}
	h.record("card", resp.Valid)
	respondJSON(w, http.StatusOK, resp)
}

type cccQuery struct {
	CCC string `json:"ccc" validate:"required,max=32,ccc"`
}

type CCCResponse struct {
	CCC           string `json:"ccc"`
	IBAN          string `json:"iban"`
	FormattedIBAN string `json:"formattedIban"`
	ValidCCC      bool   `json:"validCcc"`
	BankCode      string `json:"bankCode"`
	BranchCode    string `json:"branchCode"`
	CheckDigits   string `json:"checkDigits"`
	AccountNumber string `json:"accountNumber"`
}

// ConvertCCC handles GET /api/v1/ccc/convert?ccc=...
func (h *AccountHandler) ConvertCCC(w http.ResponseWriter, r *http.Request) {
	q := cccQuery{CCC: r.URL.Query().Get("ccc")}
	if errs := h.validator.ValidateStructured(&q); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	converted, err := h.cccs.ToIBAN(q.CCC)
	if err != nil {
		respondDomainError(w, r, h.logger, "convert_ccc", err)
		return
	}
	resp := CCCResponse{
		CCC:           h.cccs.Normalize(q.CCC),
		IBAN:          converted,
		FormattedIBAN: h.ibans.Format(converted),
		ValidCCC:      h.cccs.IsValidCCC(q.CCC),
		BankCode:      h.cccs.BankCode(q.CCC),
		BranchCode:    h.cccs.BranchCode(q.CCC),
		CheckDigits:   h.cccs.CheckDigits(q.CCC),
		AccountNumber: h.cccs.AccountNumber(q.CCC),
	}
	h.record("ccc", resp.ValidCCC)
	respondJSON(w, http.StatusOK, resp)
}

type IdentifiersResponse struct {
	MessageID     string `json:"messageId"`
	PaymentInfoID string `json:"paymentInfoId"`
	EndToEndID    string `json:"endToEndId"`
	MandateID     string `json:"mandateId"`
}

// GenerateIdentifiers handles GET /api/v1/identifiers. An optional prefix
// query parameter replaces every default prefix.
func (h *AccountHandler) GenerateIdentifiers(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix != "" {
		if err := h.validator.Var(prefix, "alphanum,max=16"); err != nil {
			respondValidationErrors(w, map[string]string{"prefix": "Must be at most 16 letters or digits"})
			return
		}
	}
	respondJSON(w, http.StatusOK, IdentifiersResponse{
		MessageID:     h.ids.MessageID(prefix),
		PaymentInfoID: h.ids.PaymentInfoID(prefix),
		EndToEndID:    h.ids.EndToEndID(prefix),
		MandateID:     h.ids.MandateID(prefix),
	})
}

func (h *AccountHandler) record(kind string, valid bool) {
	if h.metrics != nil {
		h.metrics.IncValidation(kind, valid)
	}
}
