//go:build integration
// +build integration

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/caissepos/caisse-be/internal/adapters/db"
	"github.com/caissepos/caisse-be/internal/core/domain"
	"github.com/caissepos/caisse-be/internal/core/ports"
	"github.com/caissepos/caisse-be/test/helpers"
)

type RepositorySuite struct {
	suite.Suite
	testDB  *helpers.TestDB
	catalog ports.CatalogRepository
	orders  ports.OrderRepository
	returns ports.ReturnRepository
	ctx     context.Context
}

func (s *RepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	logger := helpers.TestLogger()
	s.catalog = db.NewCatalogRepository(s.testDB.Database, logger)
	s.orders = db.NewOrderRepository(s.testDB.Database, logger)
	s.returns = db.NewReturnRepository(s.testDB.Database, logger)
	s.ctx = context.Background()
}

func (s *RepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *RepositorySuite) TestCatalogSaveAndLookups() {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.ScaleCode = "01234"
		p.LotTiers = []domain.LotTier{{Quantity: 6, Price: decimal.NewFromInt(50)}}
	})

	s.NoError(s.catalog.Save(s.ctx, product))

	byCode, err := s.catalog.FindByCode(s.ctx, product.Code)
	s.NoError(err)
	s.Require().NotNil(byCode)
	s.Equal(product.Label, byCode.Label)
	s.True(product.BasePrice.Equal(byCode.BasePrice))
	s.Len(byCode.LotTiers, 1)

	byScale, err := s.catalog.FindByScaleCode(s.ctx, "01234")
	s.NoError(err)
	s.Require().NotNil(byScale)
	s.Equal(product.ID, byScale.ID)

	missing, err := s.catalog.FindByCode(s.ctx, "0000000000000")
	s.NoError(err)
	s.Nil(missing)

	// Saving the same code again updates in place.
	product.Label = "Camembert AOP"
	s.NoError(s.catalog.Save(s.ctx, product))
	count, err := s.catalog.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *RepositorySuite) TestCatalogSaveBatch() {
	products := []domain.Product{
		*helpers.CreateTestProduct(func(p *domain.Product) { p.Code = "1000000000001" }),
		*helpers.CreateTestProduct(func(p *domain.Product) { p.Code = "1000000000002" }),
		*helpers.CreateTestProduct(func(p *domain.Product) { p.Code = "1000000000003" }),
	}

	s.NoError(s.catalog.SaveBatch(s.ctx, products))

	count, err := s.catalog.Count(s.ctx)
	s.NoError(err)
	s.Equal(int64(3), count)
}

func (s *RepositorySuite) TestScaleConfigs() {
	cfg := helpers.CreateTestScaleConfig()
	s.NoError(s.catalog.SaveScaleConfig(s.ctx, cfg))

	configs, err := s.catalog.ScaleConfigs(s.ctx)
	s.NoError(err)
	s.Require().Len(configs, 1)
	s.Equal(cfg.BalanceCode, configs[0].BalanceCode)
	s.Equal(cfg.Price, configs[0].Price)

	bad := helpers.CreateTestScaleConfig(func(c *domain.ScaleConfig) {
		c.Price.Length = 4
	})
	s.Error(s.catalog.SaveScaleConfig(s.ctx, bad))
}

func (s *RepositorySuite) seedProduct(stock int64) *domain.Product {
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Stock = decimal.NewFromInt(stock)
	})
	s.Require().NoError(s.catalog.Save(s.ctx, product))
	return product
}

func (s *RepositorySuite) TestCommitPaidDecrementsStock() {
	product := s.seedProduct(10)

	payload := helpers.CreateTestPayload(func(p *ports.TransactionPayload) {
		p.Lines[0].ProductID = product.ID
		p.Lines[0].Code = product.Code
	})

	s.NoError(s.orders.Commit(s.ctx, payload))

	record, err := s.orders.FindByID(s.ctx, payload.ID)
	s.NoError(err)
	s.Require().NotNil(record)
	s.Equal(ports.TransactionStatusPaid, record.Status)
	s.Require().Len(record.Lines, 1)
	s.True(decimal.NewFromInt(2).Equal(record.Lines[0].Quantity))
	s.True(payload.GrossTotal.Equal(record.GrossTotal))

	after, err := s.catalog.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.True(decimal.NewFromInt(8).Equal(after.Stock), "stock should drop by quantity sold, got %s", after.Stock)
}

func (s *RepositorySuite) TestParkThenPayViaUpdate() {
	product := s.seedProduct(10)

	parked := helpers.CreateTestPayload(func(p *ports.TransactionPayload) {
		p.Status = ports.TransactionStatusParked
		p.Breakdown = domain.TenderBreakdown{}
		p.Lines[0].ProductID = product.ID
	})
	s.NoError(s.orders.Commit(s.ctx, parked))

	// Parking moves no stock.
	after, err := s.catalog.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.True(decimal.NewFromInt(10).Equal(after.Stock))

	paid := *parked
	paid.Status = ports.TransactionStatusPaid
	paid.Breakdown = domain.TenderBreakdown{Cash: paid.NetTotal}
	s.NoError(s.orders.Update(s.ctx, &paid))

	record, err := s.orders.FindByID(s.ctx, parked.ID)
	s.NoError(err)
	s.Equal(ports.TransactionStatusPaid, record.Status)

	after, err = s.catalog.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.True(decimal.NewFromInt(8).Equal(after.Stock))
}

func (s *RepositorySuite) TestListFiltersAndPages() {
	product := s.seedProduct(100)

	for i := 0; i < 3; i++ {
		payload := helpers.CreateTestPayload(func(p *ports.TransactionPayload) {
			p.ID = uuid.New()
			p.Lines[0].ProductID = product.ID
		})
		s.Require().NoError(s.orders.Commit(s.ctx, payload))
	}
	parked := helpers.CreateTestPayload(func(p *ports.TransactionPayload) {
		p.ID = uuid.New()
		p.Status = ports.TransactionStatusParked
		p.Breakdown = domain.TenderBreakdown{}
		p.Lines[0].ProductID = product.ID
	})
	s.Require().NoError(s.orders.Commit(s.ctx, parked))

	result, err := s.orders.List(s.ctx, ports.ListParams{
		Status:   ports.TransactionStatusPaid,
		Page:     1,
		PageSize: 2,
	})
	s.NoError(err)
	s.Equal(int64(3), result.TotalCount)
	s.Equal(2, result.TotalPages)
	s.Len(result.Transactions, 2)

	all, err := s.orders.List(s.ctx, ports.ListParams{Page: 1, PageSize: 50})
	s.NoError(err)
	s.Equal(int64(4), all.TotalCount)
}

func (s *RepositorySuite) TestListByDay() {
	product := s.seedProduct(100)

	payload := helpers.CreateTestPayload(func(p *ports.TransactionPayload) {
		p.Lines[0].ProductID = product.ID
	})
	s.Require().NoError(s.orders.Commit(s.ctx, payload))

	today, err := s.orders.ListByDay(s.ctx, time.Now())
	s.NoError(err)
	s.Require().Len(today, 1)
	s.Len(today[0].Lines, 1)

	yesterday, err := s.orders.ListByDay(s.ctx, time.Now().AddDate(0, 0, -1))
	s.NoError(err)
	s.Empty(yesterday)
}

func (s *RepositorySuite) TestReturnRoundTrip() {
	product := s.seedProduct(10)

	payload := helpers.CreateTestPayload(func(p *ports.TransactionPayload) {
		p.Lines[0].ProductID = product.ID
	})
	s.Require().NoError(s.orders.Commit(s.ctx, payload))

	saleLines, err := s.returns.SaleLines(s.ctx, payload.ID)
	s.NoError(err)
	s.Require().Len(saleLines, 1)
	s.True(decimal.NewFromInt(2).Equal(saleLines[0].AvailableForReturn()))

	record, err := domain.BuildReturn(payload.ID, saleLines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
		saleLines[0].LineID: decimal.NewFromInt(1),
	})
	s.Require().NoError(err)

	s.NoError(s.returns.Submit(s.ctx, record))

	// Stock restored, returned quantity tracked.
	after, err := s.catalog.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.True(decimal.NewFromInt(9).Equal(after.Stock))

	saleLines, err = s.returns.SaleLines(s.ctx, payload.ID)
	s.NoError(err)
	s.True(decimal.NewFromInt(1).Equal(saleLines[0].AvailableForReturn()))

	listed, err := s.returns.ListByOrder(s.ctx, payload.ID)
	s.NoError(err)
	s.Require().Len(listed, 1)
	s.Len(listed[0].Lines, 1)

	// A second return for more than what is left must not go through.
	over, err := domain.BuildReturn(payload.ID, saleLines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
		saleLines[0].LineID: decimal.NewFromInt(2),
	})
	s.Nil(over)
	s.Error(err)
}

func (s *RepositorySuite) TestReturnCancelReverses() {
	product := s.seedProduct(10)

	payload := helpers.CreateTestPayload(func(p *ports.TransactionPayload) {
		p.Lines[0].ProductID = product.ID
	})
	s.Require().NoError(s.orders.Commit(s.ctx, payload))

	saleLines, err := s.returns.SaleLines(s.ctx, payload.ID)
	s.Require().NoError(err)

	record, err := domain.BuildReturn(payload.ID, saleLines, decimal.Zero, map[uuid.UUID]decimal.Decimal{
		saleLines[0].LineID: decimal.NewFromInt(2),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.returns.Submit(s.ctx, record))

	cancelled, err := s.returns.Cancel(s.ctx, record.ID)
	s.NoError(err)
	s.True(cancelled.Cancelled)

	// Returned quantities and stock are back where the sale left them.
	saleLines, err = s.returns.SaleLines(s.ctx, payload.ID)
	s.NoError(err)
	s.True(decimal.NewFromInt(2).Equal(saleLines[0].AvailableForReturn()))

	after, err := s.catalog.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.True(decimal.NewFromInt(8).Equal(after.Stock))

	// Cancelling twice fails.
	_, err = s.returns.Cancel(s.ctx, record.ID)
	s.Error(err)
}

func TestRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(RepositorySuite))
}
