// internal/handlers/returns_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/handlers"
	"github.com/caissepos/caisse-be/test/helpers"
	"github.com/caissepos/caisse-be/test/mocks"
)

func TestReturnHandler_RequestReturn(t *testing.T) {
	orderID := uuid.New()
	lineID := uuid.New()

	acceptedRecord := &domain.ReturnRecord{
		ID:      uuid.New(),
		OrderID: orderID,
		Lines: []domain.ReturnLine{
			{
				LineID:   lineID,
				Quantity: decimal.NewFromInt(1),
				Refund:   decimal.NewFromInt(10),
			},
		},
		TotalRefund: decimal.NewFromInt(10),
		CreatedAt:   time.Now(),
	}

	tests := []struct {
		name           string
		orderID        string
		body           string
		setupMocks     func(*mocks.MockReturnService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:    "accepts_return_within_limits",
			orderID: orderID.String(),
			body:    `{"lines":[{"line_id":"` + lineID.String() + `","quantity":"1"}]}`,
			setupMocks: func(m *mocks.MockReturnService) {
				m.EXPECT().
					RequestReturn(gomock.Any(), orderID, gomock.Any()).
					Return(acceptedRecord, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				var record domain.ReturnRecord
				require.NoError(t, json.Unmarshal(body, &record))
				assert.Equal(t, orderID, record.OrderID)
				assert.Equal(t, "10", record.TotalRefund.String())
			},
		},
		{
			name:    "over_return_maps_to_422",
			orderID: orderID.String(),
			body:    `{"lines":[{"line_id":"` + lineID.String() + `","quantity":"5"}]}`,
			setupMocks: func(m *mocks.MockReturnService) {
				m.EXPECT().
					RequestReturn(gomock.Any(), orderID, gomock.Any()).
					Return(nil, domain.Reject(domain.RejectQuantityOutOfRange, "line can only give back 2"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body []byte) {
				var response handlers.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, string(domain.RejectQuantityOutOfRange), response.Code)
			},
		},
		{
			name:    "concurrent_submission_maps_to_409",
			orderID: orderID.String(),
			body:    `{"lines":[{"line_id":"` + lineID.String() + `","quantity":"1"}]}`,
			setupMocks: func(m *mocks.MockReturnService) {
				m.EXPECT().
					RequestReturn(gomock.Any(), orderID, gomock.Any()).
					Return(nil, domain.Reject(domain.RejectSubmissionInProgress, "a return is already being processed"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "empty_lines",
			orderID:        orderID.String(),
			body:           `{"lines":[]}`,
			setupMocks:     func(m *mocks.MockReturnService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "duplicate_line_ids",
			orderID:        orderID.String(),
			body:           `{"lines":[{"line_id":"` + lineID.String() + `","quantity":"1"},{"line_id":"` + lineID.String() + `","quantity":"1"}]}`,
			setupMocks:     func(m *mocks.MockReturnService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid_transaction_id",
			orderID:        "not-a-uuid",
			body:           `{"lines":[{"line_id":"` + lineID.String() + `","quantity":"1"}]}`,
			setupMocks:     func(m *mocks.MockReturnService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockReturnService(ctrl)
			handler := handlers.NewReturnHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/transactions/"+tt.orderID+"/returns", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", tt.orderID)
			w := httptest.NewRecorder()

			handler.RequestReturn(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestReturnHandler_SaleLines(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockReturnService)
		expectedStatus int
	}{
		{
			name: "returns_sale_lines",
			setupMocks: func(m *mocks.MockReturnService) {
				m.EXPECT().
					SaleLines(gomock.Any(), orderID).
					Return([]domain.SaleLine{
						{
							LineID:       uuid.New(),
							ProductID:    uuid.New(),
							Label:        "Camembert au lait cru",
							QuantitySold: decimal.NewFromInt(2),
							UnitTotal:    decimal.NewFromInt(20),
						},
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown_transaction_maps_to_404",
			setupMocks: func(m *mocks.MockReturnService) {
				m.EXPECT().
					SaleLines(gomock.Any(), orderID).
					Return(nil, domain.Reject(domain.RejectUnknownTransaction, "no transaction"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "parked_transaction_maps_to_422",
			setupMocks: func(m *mocks.MockReturnService) {
				m.EXPECT().
					SaleLines(gomock.Any(), orderID).
					Return(nil, domain.Reject(domain.RejectNotSettled, "only paid transactions can be returned"))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockReturnService(ctrl)
			handler := handlers.NewReturnHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/transactions/"+orderID.String()+"/sale-lines", nil)
			req.SetPathValue("id", orderID.String())
			w := httptest.NewRecorder()

			handler.SaleLines(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestReturnHandler_CancelReturn(t *testing.T) {
	returnID := uuid.New()

	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockReturnService)
		expectedStatus int
	}{
		{
			name: "cancels_return",
			setupMocks: func(m *mocks.MockReturnService) {
				m.EXPECT().
					CancelReturn(gomock.Any(), returnID).
					Return(&domain.ReturnRecord{
						ID:        returnID,
						OrderID:   uuid.New(),
						Cancelled: true,
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "already_cancelled_maps_to_409",
			setupMocks: func(m *mocks.MockReturnService) {
				m.EXPECT().
					CancelReturn(gomock.Any(), returnID).
					Return(nil, domain.Reject(domain.RejectReturnAlreadyCancelled, "return already cancelled"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockReturnService(ctrl)
			handler := handlers.NewReturnHandler(mockService, helpers.TestLogger())
			tt.setupMocks(mockService)

			req := httptest.NewRequest("DELETE", "/api/v1/returns/"+returnID.String(), nil)
			req.SetPathValue("id", returnID.String())
			w := httptest.NewRecorder()

			handler.CancelReturn(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
