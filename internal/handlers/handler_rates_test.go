package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hammametrides/transfer_booking_app/internal/dto"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/hammametrides/transfer_booking_app/internal/platform/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RatesHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockRates *MockRateSvc
}

func (suite *RatesHandlerTestSuite) setup(adminToken string) {
	suite.mockRates = new(MockRateSvc)
	cfg := &config.Config{AdminAPIToken: adminToken}
	suite.router = gin.New()
	registerRatesRoutes(suite.router.Group("/api/v1"), cfg, suite.mockRates)
}

func (suite *RatesHandlerTestSuite) SetupTest() {
	suite.setup("admin-secret")
}

func (suite *RatesHandlerTestSuite) TestGetRates() {
	suite.mockRates.On("Snapshot", mock.Anything, false).
		Return(testSnapshot(models.SnapshotLive)).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("EUR", resp.BaseCurrency)
	suite.Equal("live", resp.Source)
	suite.False(resp.IsFallback)
	suite.Len(resp.Rates, 4)
}

func (suite *RatesHandlerTestSuite) TestGetRates_FallbackIsVisible() {
	suite.mockRates.On("Snapshot", mock.Anything, false).
		Return(testSnapshot(models.SnapshotFallback)).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsFallback)
}

func (suite *RatesHandlerTestSuite) TestRefreshRates_RequiresAdminToken() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "Snapshot", mock.Anything, mock.Anything)
}

func (suite *RatesHandlerTestSuite) TestRefreshRates_WithToken() {
	suite.mockRates.On("Snapshot", mock.Anything, true).
		Return(testSnapshot(models.SnapshotLive)).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil)
	req.Header.Set("X-API-Token", "admin-secret")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestRefreshRates_HiddenWhenTokenUnconfigured() {
	suite.setup("")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil)
	req.Header.Set("X-API-Token", "anything")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RatesHandlerTestSuite) TestGetDisplayCurrency() {
	suite.mockRates.On("DisplayCurrency", mock.Anything).Return(models.TND).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/preferences/currency", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"currency":"TND"`)
}

func (suite *RatesHandlerTestSuite) TestSetDisplayCurrency() {
	suite.mockRates.On("SetDisplayCurrency", mock.Anything, models.USD).Return(nil).Once()

	body, _ := json.Marshal(dto.SetDisplayCurrencyRequest{Currency: "usd"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/preferences/currency", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"currency":"USD"`)
}

func (suite *RatesHandlerTestSuite) TestSetDisplayCurrency_RejectsUnsupported() {
	body, _ := json.Marshal(dto.SetDisplayCurrencyRequest{Currency: "JPY"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/preferences/currency", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRates.AssertNotCalled(suite.T(), "SetDisplayCurrency", mock.Anything, mock.Anything)
}

func TestRatesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RatesHandlerTestSuite))
}
