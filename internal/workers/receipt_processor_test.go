// internal/workers/receipt_processor_test.go
package workers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/internal/pkg/config"
	"github.com/caissepos/caisse-be/internal/workers"
	"github.com/caissepos/caisse-be/test/helpers"
	"github.com/caissepos/caisse-be/test/mocks"
)

// capturingStorage records uploads so tests can inspect the rendered output.
type capturingStorage struct {
	key  string
	body string
}

func (s *capturingStorage) Upload(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.key = key
	s.body = string(b)
	return "s3://test/" + key, nil
}

func (s *capturingStorage) GetPresignedURL(context.Context, string, time.Duration) (string, error) {
	return "", nil
}
func (s *capturingStorage) Exists(context.Context, string) (bool, error) { return false, nil }

func testPosConfig() *config.Config {
	return &config.Config{
		Pos: config.PosConfig{
			ReceiptHeader: "Caisse POS",
			ReceiptFooter: "Merci de votre visite",
		},
		Export: config.ExportConfig{
			ExportTimeout: time.Minute,
		},
	}
}

func settledRecord() *ports.TransactionRecord {
	return &ports.TransactionRecord{
		ID:     uuid.New(),
		Status: ports.TransactionStatusPaid,
		Lines: []ports.TransactionLine{
			{
				LineID:     uuid.New(),
				ProductID:  uuid.New(),
				Code:       "3560070048786",
				Label:      "Camembert au lait cru",
				Quantity:   decimal.NewFromInt(2),
				UnitPrice:  decimal.NewFromInt(10),
				TotalPrice: decimal.NewFromInt(20),
			},
			{
				LineID:     uuid.New(),
				ProductID:  uuid.New(),
				Code:       "01234",
				Label:      "Tomates grappe",
				Quantity:   decimal.New(225, -3),
				UnitPrice:  decimal.NewFromInt(66),
				TotalPrice: decimal.New(14850, -3),
			},
		},
		GrossTotal: decimal.New(34850, -3),
		NetTotal:   decimal.New(34850, -3),
		Breakdown: domain.TenderBreakdown{
			Cash: decimal.NewFromInt(20),
			Card: decimal.New(14850, -3),
		},
		CashierID: "till-01",
		CreatedAt: time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC),
	}
}

func TestReceiptProcessor_ProcessReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	st := &capturingStorage{}

	record := settledRecord()
	orders.EXPECT().FindByID(gomock.Any(), record.ID).Return(record, nil)

	processor := workers.NewReceiptProcessor(orders, st, testPosConfig(), helpers.TestLogger())

	payload, err := json.Marshal(workers.ReceiptPayload{TransactionID: record.ID})
	require.NoError(t, err)

	err = processor.ProcessReceipt(context.Background(), asynq.NewTask(workers.TypeReceiptRender, payload))
	require.NoError(t, err)

	assert.Equal(t, "receipts/2026/08/27/"+record.ID.String()+".txt", st.key)
	assert.Contains(t, st.body, "Caisse POS")
	assert.Contains(t, st.body, "Camembert au lait cru")
	assert.Contains(t, st.body, "0.225 x 66.000")
	assert.Contains(t, st.body, "14.850")
	assert.Contains(t, st.body, "TOTAL")
	assert.Contains(t, st.body, "34.850")
	assert.Contains(t, st.body, "ESPECES")
	assert.Contains(t, st.body, "Merci de votre visite")
}

func TestReceiptProcessor_UnknownTransactionSkipsRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)

	id := uuid.New()
	orders.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

	processor := workers.NewReceiptProcessor(orders, &capturingStorage{}, testPosConfig(), helpers.TestLogger())

	payload, err := json.Marshal(workers.ReceiptPayload{TransactionID: id})
	require.NoError(t, err)

	err = processor.ProcessReceipt(context.Background(), asynq.NewTask(workers.TypeReceiptRender, payload))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestRenderReceipt_LinesUpWithinWidth(t *testing.T) {
	record := settledRecord()
	receipt := workers.RenderReceipt(record, "Caisse POS", "")

	for _, line := range strings.Split(receipt, "\n") {
		assert.LessOrEqual(t, len(line), 48, "line too wide: %q", line)
	}

	// Every amount line ends flush with the right edge.
	assert.Contains(t, receipt, "20.000")
	assert.NotContains(t, receipt, "CHEQUE", "zero tender kinds are omitted")
}
