package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"sepakit/internal/middleware"
	"sepakit/pkg/iso20022"
	"sepakit/pkg/sepa"
	"sepakit/pkg/validator"
)

// PaymentHandler generates and parses SEPA documents.
type PaymentHandler struct {
	builder   *sepa.Builder
	parser    *sepa.Parser
	validator *validator.Validator
	metrics   Recorder
	logger    Logger
}

func NewPaymentHandler(builder *sepa.Builder, parser *sepa.Parser, val *validator.Validator,
	metrics Recorder, log Logger) *PaymentHandler {
	return &PaymentHandler{builder: builder, parser: parser, validator: val, metrics: metrics, logger: log}
}

// agentCodes holds the BICs of a payment map. The builder only enforces
// IBANs, so malformed BICs are rejected here before they reach a document.
type agentCodes struct {
	CreditorBIC  string             `json:"creditorBic" validate:"omitempty,bic"`
	Transactions []transactionAgent `json:"transactions" validate:"dive"`
}

type transactionAgent struct {
	DebtorBIC string `json:"debtorBic" validate:"omitempty,bic"`
}

func agentCodesOf(payload map[string]interface{}) agentCodes {
	data := sepa.NormalizePayment(payload)
	codes := agentCodes{}
	codes.CreditorBIC, _ = data[sepa.KeyCreditorBIC].(string)
	if txs, ok := data[sepa.KeyTransactions].([]interface{}); ok {
		for _, tx := range txs {
			var agent transactionAgent
			if m, ok := tx.(map[string]interface{}); ok {
				agent.DebtorBIC, _ = m[sepa.KeyDebtorBIC].(string)
			}
			codes.Transactions = append(codes.Transactions, agent)
		}
	}
	return codes
}

// GenerateCreditTransfer handles POST /api/v1/credit-transfers. The body is
// the map form of a credit transfer; the response is the pain.001 document.
func (h *PaymentHandler) GenerateCreditTransfer(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, iso20022.Pain001, h.builder.GenerateCreditTransferFromMap)
}

// GenerateDirectDebit handles POST /api/v1/direct-debits.
func (h *PaymentHandler) GenerateDirectDebit(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, iso20022.Pain008, h.builder.GenerateDirectDebitFromMap)
}

func (h *PaymentHandler) generate(w http.ResponseWriter, r *http.Request, msgType iso20022.MessageType,
	build func(map[string]interface{}) (string, error)) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	if errs := h.validator.ValidateStructured(agentCodesOf(payload)); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	doc, err := build(payload)
	if err != nil {
		respondDomainError(w, r, h.logger, "generate_"+string(msgType), err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncDocument(string(msgType))
	}

	reference, _ := sepa.NormalizePayment(payload)[sepa.KeyReference].(string)
	h.logger.Info("SEPA document generated", map[string]interface{}{
		"request_id":   middleware.RequestID(r.Context()),
		"message_type": string(msgType),
		"message_id":   reference,
	})

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+attachmentName(msgType, reference)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

func (h *PaymentHandler) decodePayload(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": middleware.RequestID(r.Context()),
			"error":      err.Error(),
		})
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if payload == nil {
		respondError(w, http.StatusBadRequest, "Request body must be a JSON object")
		return nil, false
	}
	return payload, true
}

// ParseCreditTransfer handles POST /api/v1/credit-transfers/parse.
func (h *PaymentHandler) ParseCreditTransfer(w http.ResponseWriter, r *http.Request) {
	h.parse(w, r, "parse_credit_transfer", h.parser.ParseCreditTransfer)
}

// ParseDirectDebit handles POST /api/v1/direct-debits/parse.
func (h *PaymentHandler) ParseDirectDebit(w http.ResponseWriter, r *http.Request) {
	h.parse(w, r, "parse_direct_debit", h.parser.ParseDirectDebit)
}

func (h *PaymentHandler) parse(w http.ResponseWriter, r *http.Request, operation string,
	parse func(string) (*sepa.ParsedMessage, error)) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unable to read request body")
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		respondError(w, http.StatusBadRequest, "Request body is empty")
		return
	}

	msg, err := parse(string(body))
	if err != nil {
		respondDomainError(w, r, h.logger, operation, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}

func attachmentName(msgType iso20022.MessageType, reference string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return -1
		}
	}, reference)
	if clean == "" {
		clean = "message"
	}
	return string(msgType) + "-" + clean + ".xml"
}
