package handlers_test

import (
	"bytes"
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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fgerdes/buchwerk/internal/apperrors"
	"github.com/fgerdes/buchwerk/internal/core/domain"
	portssvc "github.com/fgerdes/buchwerk/internal/core/ports/services"
	"github.com/fgerdes/buchwerk/internal/dto"
	"github.com/fgerdes/buchwerk/internal/handlers"
	"github.com/fgerdes/buchwerk/internal/middleware"
)

// --- Mock BookingService ---
type MockBookingService struct {
	mock.Mock
}

var _ portssvc.BookingSvcFacade = (*MockBookingService)(nil)

func (m *MockBookingService) CreateBooking(ctx context.Context, tenantID string, req dto.CreateBookingRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockBookingService) LockBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockBookingService) ReverseBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockBookingService) DeleteBooking(ctx context.Context, tenantID, entryID, userID string) error {
	args := m.Called(ctx, tenantID, entryID, userID)
	return args.Error(0)
}

func (m *MockBookingService) GetBooking(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockBookingService) ListBookings(ctx context.Context, tenantID, userID string, params dto.ListBookingsParams) (*dto.ListBookingsResponse, error) {
	args := m.Called(ctx, tenantID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListBookingsResponse), args.Error(1)
}

func (m *MockBookingService) ListLinesByAccount(ctx context.Context, tenantID, accountID, userID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	args := m.Called(ctx, tenantID, accountID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLinesResponse), args.Error(1)
}

// --- Test Suite ---
type BookingHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockBookingService *MockBookingService
	jwtSecret          string
	tenantID           string
	userID             string
}

// generateTestToken creates a signed JWT for the test user.
func (suite *BookingHandlerTestSuite) generateTestToken(userID string) string {
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

func (suite *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockBookingService = new(MockBookingService)

	v1 := suite.router.Group("/api/v1/tenants/:tenant_id")
	handlers.RegisterBookingRoutes(v1, suite.mockBookingService)
}

func (suite *BookingHandlerTestSuite) authedRequest(method, url string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Accept", "application/json")
	return req
}

func (suite *BookingHandlerTestSuite) sampleEntry(status domain.EntryStatus) *domain.JournalEntry {
	now := time.Now().UTC()
	entry := &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		TenantID:    suite.tenantID,
		BatchID:     uuid.NewString(),
		BookingDate: now.Truncate(24 * time.Hour),
		Description: "Mieteinnahme",
		Status:      status,
		TotalAmount: 5000,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     suite.userID,
			LastUpdatedAt: now,
			LastUpdatedBy: suite.userID,
		},
	}
	if status != domain.EntryDraft {
		entry.LockedAt = &now
	}
	return entry
}

// --- Test Cases ---

func (suite *BookingHandlerTestSuite) TestCreateBooking_Success() {
	expected := suite.sampleEntry(domain.EntryDraft)

	suite.mockBookingService.On("CreateBooking",
		mock.Anything,
		suite.tenantID,
		mock.MatchedBy(func(req dto.CreateBookingRequest) bool {
			return req.Description == "Mieteinnahme" && len(req.Lines) == 2
		}),
		suite.userID,
	).Return(expected, nil).Once()

	payload := map[string]any{
		"bookingDate": time.Now().UTC().Format(time.RFC3339),
		"description": "Mieteinnahme",
		"lines": []map[string]any{
			{"accountID": uuid.NewString(), "side": "DEBIT", "amount": 5000},
			{"accountID": uuid.NewString(), "side": "CREDIT", "amount": 5000},
		},
	}
	body, _ := json.Marshal(payload)

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings", suite.tenantID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, body))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.BookingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.EntryID, resp.EntryID)
	suite.Equal("DRAFT", resp.Status)
	suite.Nil(resp.LockedAt)
	suite.mockBookingService.AssertExpectations(suite.T())
}

func (suite *BookingHandlerTestSuite) TestCreateBooking_UnbalancedReturns400() {
	unbalanced := &apperrors.UnbalancedEntryError{DebitSum: 5000, CreditSum: 4000}
	suite.mockBookingService.On("CreateBooking", mock.Anything, suite.tenantID, mock.Anything, suite.userID).
		Return(nil, unbalanced).Once()

	payload := map[string]any{
		"bookingDate": time.Now().UTC().Format(time.RFC3339),
		"description": "Schief",
		"lines": []map[string]any{
			{"accountID": uuid.NewString(), "side": "DEBIT", "amount": 5000},
			{"accountID": uuid.NewString(), "side": "CREDIT", "amount": 4000},
		},
	}
	body, _ := json.Marshal(payload)

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings", suite.tenantID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, body))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "5000")
	suite.Contains(w.Body.String(), "4000")
}

func (suite *BookingHandlerTestSuite) TestCreateBooking_MissingLinesRejectedByBinding() {
	payload := map[string]any{
		"bookingDate": time.Now().UTC().Format(time.RFC3339),
		"description": "Ohne Zeilen",
	}
	body, _ := json.Marshal(payload)

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings", suite.tenantID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, body))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockBookingService.AssertNotCalled(suite.T(), "CreateBooking", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookingHandlerTestSuite) TestLockBooking_Success() {
	expected := suite.sampleEntry(domain.EntryPosted)

	suite.mockBookingService.On("LockBooking", mock.Anything, suite.tenantID, expected.EntryID, suite.userID).
		Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings/%s/lock", suite.tenantID, expected.EntryID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, nil))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.BookingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("POSTED", resp.Status)
	suite.NotNil(resp.LockedAt)
}

func (suite *BookingHandlerTestSuite) TestLockBooking_AlreadyLockedReturns409() {
	entryID := uuid.NewString()
	suite.mockBookingService.On("LockBooking", mock.Anything, suite.tenantID, entryID, suite.userID).
		Return(nil, apperrors.ErrAlreadyLocked).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings/%s/lock", suite.tenantID, entryID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, nil))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *BookingHandlerTestSuite) TestReverseBooking_Returns201WithReversal() {
	reversal := suite.sampleEntry(domain.EntryPosted)
	reversal.Description = "Storno: Mieteinnahme"

	suite.mockBookingService.On("ReverseBooking", mock.Anything, suite.tenantID, mock.AnythingOfType("string"), suite.userID).
		Return(reversal, nil).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings/%s/reverse", suite.tenantID, uuid.NewString())
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, nil))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.BookingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Storno: Mieteinnahme", resp.Description)
	suite.Equal("POSTED", resp.Status)
}

func (suite *BookingHandlerTestSuite) TestReverseBooking_NotLockedReturns409() {
	entryID := uuid.NewString()
	suite.mockBookingService.On("ReverseBooking", mock.Anything, suite.tenantID, entryID, suite.userID).
		Return(nil, apperrors.ErrNotLocked).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings/%s/reverse", suite.tenantID, entryID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, url, nil))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *BookingHandlerTestSuite) TestGetBooking_NotFoundReturns404() {
	entryID := uuid.NewString()
	suite.mockBookingService.On("GetBooking", mock.Anything, suite.tenantID, entryID, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings/%s", suite.tenantID, entryID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, url, nil))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *BookingHandlerTestSuite) TestRequestWithoutTokenReturns401() {
	url := fmt.Sprintf("/api/v1/tenants/%s/bookings", suite.tenantID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockBookingService.AssertNotCalled(suite.T(), "ListBookings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookingHandlerTestSuite) TestDeleteBooking_LockedReturns409() {
	entryID := uuid.NewString()
	suite.mockBookingService.On("DeleteBooking", mock.Anything, suite.tenantID, entryID, suite.userID).
		Return(apperrors.ErrAlreadyLocked).Once()

	url := fmt.Sprintf("/api/v1/tenants/%s/bookings/%s", suite.tenantID, entryID)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodDelete, url, nil))

	suite.Equal(http.StatusConflict, w.Code)
}

func TestBookingHandler(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}
