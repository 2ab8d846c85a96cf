package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
	"github.com/fgerdes/buchwerk/internal/handlers"
	"github.com/fgerdes/buchwerk/internal/middleware"
)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

func (m *MockReportingService) AccountBalance(ctx context.Context, tenantID, accountID, userID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, tenantID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockReportingService) TrialBalance(ctx context.Context, tenantID string, asOf time.Time, userID string) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, tenantID, asOf, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

// --- Test Suite ---
type ReportingHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockReportingService *MockReportingService
	jwtSecret            string
	tenantID             string
	userID               string
}

func (suite *ReportingHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "buchwerk-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ReportingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockReportingService = new(MockReportingService)

	v1 := suite.router.Group("/api/v1/tenants/:tenant_id")
	handlers.RegisterReportingRoutes(v1, suite.mockReportingService)
}

func (suite *ReportingHandlerTestSuite) getAuthed(url string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ReportingHandlerTestSuite) TestAccountBalance_ServedUnderAccountResource() {
	accountID := uuid.NewString()
	balance := &domain.AccountBalance{
		AccountID:   accountID,
		AccountCode: "1200",
		AccountType: domain.Asset,
		BalanceCent: 123456,
		Balance:     decimal.New(123456, -2),
	}

	suite.mockReportingService.On("AccountBalance", mock.Anything, suite.tenantID, accountID, suite.userID).
		Return(balance, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/accounts/%s/balance", suite.tenantID, accountID)
	w := suite.getAuthed(url)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp.AccountID)
	suite.Equal(int64(123456), resp.BalanceCent)
	suite.Equal("1234.56", resp.BalanceFormatted)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestAccountBalance_NotUnderReportsPrefix() {
	url := fmt.Sprintf("/api/v1/tenants/%s/reports/accounts/%s/balance", suite.tenantID, uuid.NewString())
	w := suite.getAuthed(url)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockReportingService.AssertNotCalled(suite.T(), "AccountBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestTrialBalance_InvalidAsOfReturns400() {
	url := fmt.Sprintf("/api/v1/tenants/%s/reports/trial-balance?asOf=gestern", suite.tenantID)
	w := suite.getAuthed(url)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportingService.AssertNotCalled(suite.T(), "TrialBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestTrialBalance_ControlTotalsEqual() {
	rows := []domain.TrialBalanceRow{
		{AccountID: uuid.NewString(), AccountCode: "1200", AccountType: domain.Asset, DebitTotal: 7000, Debit: decimal.New(7000, -2), Credit: decimal.Zero},
		{AccountID: uuid.NewString(), AccountCode: "8400", AccountType: domain.Revenue, CreditTotal: 7000, Credit: decimal.New(7000, -2), Debit: decimal.Zero},
	}
	suite.mockReportingService.On("TrialBalance", mock.Anything, suite.tenantID, mock.AnythingOfType("time.Time"), suite.userID).
		Return(rows, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/reports/trial-balance", suite.tenantID)
	w := suite.getAuthed(url)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Rows, 2)
	suite.True(resp.TotalDebit.Equal(resp.TotalCredit))
}

func TestReportingHandler(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}
