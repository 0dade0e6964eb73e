package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hammametrides/transfer_booking_app/internal/apperrors"
	ports "github.com/hammametrides/transfer_booking_app/internal/core/ports/repositories"
	"github.com/hammametrides/transfer_booking_app/internal/core/services"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRates(ctx context.Context, base models.Currency) (map[models.Currency]decimal.Decimal, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Currency]decimal.Decimal), args.Error(1)
}

var _ ports.RateSource = (*MockRateSource)(nil)

// --- Mock SnapshotStore ---
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) LoadSnapshot(ctx context.Context, base models.Currency) (*models.RateSnapshot, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RateSnapshot), args.Error(1)
}

func (m *MockSnapshotStore) SaveSnapshot(ctx context.Context, snapshot *models.RateSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotStore) LoadDisplayCurrency(ctx context.Context) (models.Currency, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Currency), args.Error(1)
}

func (m *MockSnapshotStore) SaveDisplayCurrency(ctx context.Context, currency models.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

var _ ports.SnapshotStore = (*MockSnapshotStore)(nil)

func liveRates() map[models.Currency]decimal.Decimal {
	return map[models.Currency]decimal.Decimal{
		models.EUR: decimal.NewFromInt(1),
		models.TND: decimal.NewFromFloat(3.4),
		models.USD: decimal.NewFromFloat(1.09),
		models.GBP: decimal.NewFromFloat(0.86),
	}
}

// --- Test Suite ---
type RateServiceTestSuite struct {
	suite.Suite
	mockSource *MockRateSource
	mockStore  *MockSnapshotStore
	service    *services.RateService
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockSource = new(MockRateSource)
	suite.mockStore = new(MockSnapshotStore)
	suite.service = services.NewRateService(
		suite.mockSource,
		suite.mockStore,
		24*time.Hour,
		decimal.NewFromFloat(0.25),
		nil,
		nil,
	)
}

func (suite *RateServiceTestSuite) expectEmptyStore() {
	suite.mockStore.On("LoadSnapshot", mock.Anything, models.ReferenceCurrency).
		Return(nil, apperrors.ErrNotFound).Once()
}

// --- Snapshot ---

func (suite *RateServiceTestSuite) TestSnapshot_FetchesOnceWithinWindow() {
	ctx := context.Background()
	suite.expectEmptyStore()
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Return(liveRates(), nil).Once()
	suite.mockStore.On("SaveSnapshot", mock.Anything, mock.AnythingOfType("*models.RateSnapshot")).
		Return(nil).Once()

	first := suite.service.Snapshot(ctx, false)
	second := suite.service.Snapshot(ctx, false)

	suite.Require().NotNil(first)
	suite.Equal(models.SnapshotLive, first.Source)
	suite.Same(first, second, "second call within the window must return the cached snapshot")
	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRates", 1)
}

func (suite *RateServiceTestSuite) TestSnapshot_ForceRefreshFetchesAgain() {
	ctx := context.Background()
	suite.expectEmptyStore()
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Return(liveRates(), nil).Twice()
	suite.mockStore.On("SaveSnapshot", mock.Anything, mock.AnythingOfType("*models.RateSnapshot")).
		Return(nil).Twice()

	first := suite.service.Snapshot(ctx, false)
	second := suite.service.Snapshot(ctx, true)

	suite.NotSame(first, second)
	suite.mockSource.AssertNumberOfCalls(suite.T(), "FetchRates", 2)
}

func (suite *RateServiceTestSuite) TestSnapshot_FallbackOnFetchError() {
	ctx := context.Background()
	suite.expectEmptyStore()
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Return(nil, fmt.Errorf("rates API returned non-OK status: 500")).Once()

	snap := suite.service.Snapshot(ctx, false)

	suite.Require().NotNil(snap)
	suite.True(snap.IsFallback())
	for _, c := range models.SupportedCurrencies {
		want, ok := models.FallbackRate(c)
		suite.Require().True(ok)
		suite.True(want.Equal(snap.Rates[c]), "fallback rate mismatch for %s", c)
	}
	suite.mockStore.AssertNotCalled(suite.T(), "SaveSnapshot", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestSnapshot_FallbackOnIncompleteRates() {
	ctx := context.Background()
	suite.expectEmptyStore()
	partial := liveRates()
	delete(partial, models.TND)
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Return(partial, nil).Once()

	snap := suite.service.Snapshot(ctx, false)

	suite.True(snap.IsFallback(), "a table missing a supported currency must not be used")
	suite.mockStore.AssertNotCalled(suite.T(), "SaveSnapshot", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestSnapshot_SlowStaleFetchDoesNotOverwriteNewer() {
	ctx := context.Background()
	suite.expectEmptyStore()

	staleRates := liveRates()
	staleRates[models.TND] = decimal.NewFromFloat(3.0)

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Run(func(mock.Arguments) {
			close(firstStarted)
			<-release
		}).
		Return(staleRates, nil).Once()
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Return(liveRates(), nil).Once()
	suite.mockStore.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil).Twice()

	var (
		wg   sync.WaitGroup
		slow *models.RateSnapshot
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow = suite.service.Snapshot(ctx, true)
	}()

	// Start a second refresh once the first is blocked in its fetch, so the
	// newer fetch finishes before the older one.
	<-firstStarted
	fast := suite.service.Snapshot(ctx, true)
	close(release)
	wg.Wait()

	suite.True(decimal.NewFromFloat(3.4).Equal(fast.Rates[models.TND]))
	suite.Same(fast, slow, "the older fetch must resolve to the newer snapshot, not its own")
	suite.Same(fast, suite.service.Snapshot(ctx, false))
}

func (suite *RateServiceTestSuite) TestSnapshot_WarmsFromDurableStore() {
	ctx := context.Background()
	stored := &models.RateSnapshot{
		BaseCurrency: models.ReferenceCurrency,
		Rates:        liveRates(),
		FetchedAt:    time.Now().UTC().Add(-time.Hour),
		Source:       models.SnapshotLive,
	}
	suite.mockStore.On("LoadSnapshot", mock.Anything, models.ReferenceCurrency).
		Return(stored, nil).Once()

	snap := suite.service.Snapshot(ctx, false)

	suite.Same(stored, snap)
	suite.mockSource.AssertNotCalled(suite.T(), "FetchRates", mock.Anything, mock.Anything)
}

// --- Convert ---

func (suite *RateServiceTestSuite) TestConvert_IdentityOnReferenceCurrency() {
	ctx := context.Background()
	amount := models.MoneyFromFloat(100, models.EUR)

	got := suite.service.Convert(ctx, amount, models.EUR)

	suite.Equal(models.EUR, got.Currency)
	suite.True(amount.Amount.Equal(got.Amount))
	suite.mockSource.AssertNotCalled(suite.T(), "FetchRates", mock.Anything, mock.Anything)
}

func (suite *RateServiceTestSuite) TestConvert_MultipliesByRate() {
	ctx := context.Background()
	suite.expectEmptyStore()
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Return(liveRates(), nil).Once()
	suite.mockStore.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil).Once()

	got := suite.service.Convert(ctx, models.MoneyFromFloat(100, models.EUR), models.TND)

	suite.Equal(models.TND, got.Currency)
	suite.True(decimal.NewFromInt(340).Equal(got.Amount), "expected 340, got %s", got.Amount)
}

func (suite *RateServiceTestSuite) TestConvert_MissingRateFailsSafe() {
	ctx := context.Background()
	suite.expectEmptyStore()
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Return(liveRates(), nil).Once()
	suite.mockStore.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil).Once()

	amount := models.MoneyFromFloat(100, models.EUR)
	got := suite.service.Convert(ctx, amount, models.Currency("JPY"))

	suite.Equal(models.ReferenceCurrency, got.Currency, "missing rate must re-label in the reference currency")
	suite.True(amount.Amount.Equal(got.Amount))
}

func (suite *RateServiceTestSuite) TestConvert_NegativeAmountFailsSafe() {
	ctx := context.Background()

	got := suite.service.Convert(ctx, models.MoneyFromFloat(-5, models.EUR), models.TND)

	suite.Equal(models.ReferenceCurrency, got.Currency)
	suite.mockSource.AssertNotCalled(suite.T(), "FetchRates", mock.Anything, mock.Anything)
}

// --- SplitDeposit ---

func (suite *RateServiceTestSuite) TestSplitDeposit_ReconstructsTotal() {
	total := models.MoneyFromFloat(35, models.EUR)

	deposit, balance := suite.service.SplitDeposit(total)

	suite.True(decimal.NewFromFloat(8.75).Equal(deposit.Amount), "deposit: %s", deposit.Amount)
	suite.True(decimal.NewFromFloat(26.25).Equal(balance.Amount), "balance: %s", balance.Amount)
	suite.True(total.Amount.Equal(deposit.Amount.Add(balance.Amount)))
}

func (suite *RateServiceTestSuite) TestSplitDeposit_NoIndependentRoundingDrift() {
	// Amounts where rounding both halves independently would drift a cent.
	for _, raw := range []float64{33.33, 0.01, 0.02, 99.99, 123.45, 0.06} {
		total := models.MoneyFromFloat(raw, models.EUR)
		deposit, balance := suite.service.SplitDeposit(total)
		sum := deposit.Amount.Add(balance.Amount)
		suite.True(total.Amount.Equal(sum), "deposit %s + balance %s != total %s", deposit.Amount, balance.Amount, total.Amount)
		suite.GreaterOrEqual(deposit.Amount.Exponent(), int32(-2), "deposit must carry at most cents")
	}
}

// --- Format ---

func (suite *RateServiceTestSuite) TestFormat_RoundHalfUpToStep() {
	m := models.MoneyFromFloat(338, models.TND)

	suite.Equal("DT338", suite.service.Format(m, 0, decimal.NewFromInt(1)))
	suite.Equal("DT340", suite.service.Format(m, 0, decimal.NewFromInt(5)))

	halfway := models.MoneyFromFloat(337.5, models.TND)
	suite.Equal("DT340", suite.service.Format(halfway, 0, decimal.NewFromInt(5)))

	below := models.MoneyFromFloat(337.4, models.TND)
	suite.Equal("DT335", suite.service.Format(below, 0, decimal.NewFromInt(5)))
}

func (suite *RateServiceTestSuite) TestFormat_RoundTripWithConversion() {
	ctx := context.Background()
	suite.expectEmptyStore()
	suite.mockSource.On("FetchRates", mock.Anything, models.ReferenceCurrency).
		Return(liveRates(), nil).Once()
	suite.mockStore.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil).Once()

	converted := suite.service.Convert(ctx, models.MoneyFromFloat(100, models.EUR), models.TND)
	suite.Equal("DT340", suite.service.Format(converted, 0, decimal.NewFromInt(1)))
}

// --- Display currency ---

func (suite *RateServiceTestSuite) TestDisplayCurrency_DefaultsToReference() {
	ctx := context.Background()
	suite.mockStore.On("LoadDisplayCurrency", mock.Anything).
		Return(models.Currency(""), apperrors.ErrNotFound).Once()

	suite.Equal(models.ReferenceCurrency, suite.service.DisplayCurrency(ctx))
}

func (suite *RateServiceTestSuite) TestSetDisplayCurrency_RejectsUnsupported() {
	ctx := context.Background()

	err := suite.service.SetDisplayCurrency(ctx, models.Currency("XXX"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStore.AssertNotCalled(suite.T(), "SaveDisplayCurrency", mock.Anything, mock.Anything)
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
