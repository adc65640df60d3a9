// internal/handlers/session_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/handlers"
	"github.com/caissepos/caisse-be/test/helpers"
	"github.com/caissepos/caisse-be/test/mocks"
)

func emptySessionView(cashierID string) *ports.SessionView {
	return &ports.SessionView{
		SessionID:       uuid.New(),
		CashierID:       cashierID,
		GrossTotal:      decimal.Zero,
		DiscountPercent: decimal.Zero,
		Target:          decimal.Zero,
		Tendered:        decimal.Zero,
		Remaining:       decimal.Zero,
		State:           domain.SettlementOpen,
	}
}

func TestSessionHandler_OpenSession(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSessionService)
		expectedStatus int
	}{
		{
			name: "opens_session_for_cashier",
			body: `{"cashier_id":"till-01"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Open(gomock.Any(), "till-01").
					Return(emptySessionView("till-01"), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing_cashier_id",
			body:           `{}`,
			setupMocks:     func(m *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid_body",
			body:           `{`,
			setupMocks:     func(m *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSessionService(ctrl)
			handler := handlers.NewSessionHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/sessions", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.OpenSession(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSessionHandler_Scan(t *testing.T) {
	sessionID := uuid.New()
	view := emptySessionView("till-01")
	view.SessionID = sessionID

	tests := []struct {
		name           string
		sessionID      string
		body           string
		setupMocks     func(*mocks.MockSessionService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:      "accepts_standard_barcode",
			sessionID: sessionID.String(),
			body:      `{"barcode":"3560070048786"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Scan(gomock.Any(), sessionID, "3560070048786").
					Return(&ports.ScanOutcome{
						Line: domain.CartLine{
							ProductID: uuid.New(),
							Code:      "3560070048786",
							Label:     "Camembert au lait cru",
							Quantity:  decimal.NewFromInt(1),
						},
						View: view,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var outcome ports.ScanOutcome
				require.NoError(t, json.Unmarshal(body, &outcome))
				assert.Equal(t, "3560070048786", outcome.Line.Code)
				assert.Nil(t, outcome.Clamp)
			},
		},
		{
			name:      "unknown_product_maps_to_404",
			sessionID: sessionID.String(),
			body:      `{"barcode":"9999999999999"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Scan(gomock.Any(), sessionID, "9999999999999").
					Return(nil, domain.Reject(domain.RejectUnknownProduct, "no product for barcode 9999999999999"))
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response handlers.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, string(domain.RejectUnknownProduct), response.Code)
			},
		},
		{
			name:      "short_barcode_maps_to_422",
			sessionID: sessionID.String(),
			body:      `{"barcode":"123"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Scan(gomock.Any(), sessionID, "123").
					Return(nil, domain.Reject(domain.RejectBarcodeTooShort, "barcode 123 shorter than any scale layout"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:      "catalog_outage_maps_to_503",
			sessionID: sessionID.String(),
			body:      `{"barcode":"3560070048786"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Scan(gomock.Any(), sessionID, "3560070048786").
					Return(nil, domain.Retryable("resolve product", errors.New("connection refused")))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "missing_barcode",
			sessionID:      sessionID.String(),
			body:           `{}`,
			setupMocks:     func(m *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid_session_id",
			sessionID:      "not-a-uuid",
			body:           `{"barcode":"3560070048786"}`,
			setupMocks:     func(m *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSessionService(ctrl)
			handler := handlers.NewSessionHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/sessions/"+tt.sessionID+"/scan", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", tt.sessionID)
			w := httptest.NewRecorder()

			handler.Scan(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestSessionHandler_ApplyTender(t *testing.T) {
	sessionID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSessionService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "cash_with_change",
			body: `{"kind":"cash","amount":"50"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					ApplyTender(gomock.Any(), sessionID, domain.TenderCash, decimal.NewFromInt(50)).
					Return(&ports.TenderView{
						Outcome: domain.TenderOutcome{
							Accepted:  decimal.RequireFromString("34.850"),
							ChangeDue: decimal.RequireFromString("15.150"),
							Remaining: decimal.Zero,
							Settled:   true,
						},
						View: emptySessionView("till-01"),
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var view ports.TenderView
				require.NoError(t, json.Unmarshal(body, &view))
				assert.True(t, view.Outcome.Settled)
				assert.Equal(t, "15.15", view.Outcome.ChangeDue.String())
			},
		},
		{
			name: "card_over_remaining_rejected",
			body: `{"kind":"card","amount":"100"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					ApplyTender(gomock.Any(), sessionID, domain.TenderCard, decimal.NewFromInt(100)).
					Return(nil, domain.Reject(domain.RejectNonPositiveAmount, "card cannot exceed the remaining balance"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "voucher_kind_refused_here",
			body:           `{"kind":"voucher","amount":"9.250"}`,
			setupMocks:     func(m *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown_kind",
			body:           `{"kind":"crypto","amount":"10"}`,
			setupMocks:     func(m *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSessionService(ctrl)
			handler := handlers.NewSessionHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/sessions/"+sessionID.String()+"/tenders", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", sessionID.String())
			w := httptest.NewRecorder()

			handler.ApplyTender(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestSessionHandler_Commit(t *testing.T) {
	sessionID := uuid.New()
	transactionID := uuid.New()

	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockSessionService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "commits_settled_session",
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Commit(gomock.Any(), sessionID).
					Return(&ports.CommitView{
						TransactionID: transactionID,
						Status:        ports.TransactionStatusPaid,
						NetTotal:      decimal.RequireFromString("34.850"),
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				var view ports.CommitView
				require.NoError(t, json.Unmarshal(body, &view))
				assert.Equal(t, transactionID, view.TransactionID)
				assert.Equal(t, ports.TransactionStatusPaid, view.Status)
			},
		},
		{
			name: "unsettled_session_maps_to_422",
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Commit(gomock.Any(), sessionID).
					Return(nil, domain.Reject(domain.RejectNotSettled, "balance of 14.850 still due"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "concurrent_commit_maps_to_409",
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Commit(gomock.Any(), sessionID).
					Return(nil, domain.Reject(domain.RejectSubmissionInProgress, "commit already in flight"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "database_outage_maps_to_503",
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Commit(gomock.Any(), sessionID).
					Return(nil, domain.Retryable("persist transaction", errors.New("connection reset")))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSessionService(ctrl)
			handler := handlers.NewSessionHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/sessions/"+sessionID.String()+"/commit", nil)
			req.SetPathValue("id", sessionID.String())
			w := httptest.NewRecorder()

			handler.Commit(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestSessionHandler_Resume(t *testing.T) {
	transactionID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSessionService)
		expectedStatus int
	}{
		{
			name: "resumes_parked_transaction",
			body: `{"transaction_id":"` + transactionID.String() + `","cashier_id":"till-02"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Resume(gomock.Any(), transactionID, "till-02").
					Return(emptySessionView("till-02"), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "paid_transaction_maps_to_409",
			body: `{"transaction_id":"` + transactionID.String() + `","cashier_id":"till-02"}`,
			setupMocks: func(m *mocks.MockSessionService) {
				m.EXPECT().
					Resume(gomock.Any(), transactionID, "till-02").
					Return(nil, domain.Reject(domain.RejectNotParked, "transaction is paid, not parked"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "missing_cashier_id",
			body:           `{"transaction_id":"` + transactionID.String() + `"}`,
			setupMocks:     func(m *mocks.MockSessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSessionService(ctrl)
			handler := handlers.NewSessionHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/sessions/resume", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Resume(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSessionHandler_SetQuantity(t *testing.T) {
	sessionID := uuid.New()
	productID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockSessionService(ctrl)
	handler := handlers.NewSessionHandler(mockService, helpers.TestLogger())

	mockService.EXPECT().
		SetQuantity(gomock.Any(), sessionID, productID, decimal.NewFromInt(3)).
		Return(emptySessionView("till-01"), nil)

	req := httptest.NewRequest("PUT",
		"/api/v1/sessions/"+sessionID.String()+"/items/"+productID.String(),
		bytes.NewBufferString(`{"quantity":"3"}`))
	req.SetPathValue("id", sessionID.String())
	req.SetPathValue("productId", productID.String())
	w := httptest.NewRecorder()

	handler.SetQuantity(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
