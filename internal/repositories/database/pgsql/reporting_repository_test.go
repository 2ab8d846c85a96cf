//go:build integration
// +build integration

package pgsql_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fgerdes/buchwerk/internal/core/domain"
	portsrepo "github.com/fgerdes/buchwerk/internal/core/ports/repositories"
	"github.com/fgerdes/buchwerk/internal/repositories/database/pgsql"
	"github.com/fgerdes/buchwerk/internal/utils/accounting"
	"github.com/fgerdes/buchwerk/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ReportingRepositoryTestSuite runs the balance projection SQL against a real
// PostgreSQL instance. The projections fold over persisted rows, so their
// draft-exclusion and reversal-neutrality properties can only be verified
// database-side.
type ReportingRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	repos     portsrepo.RepositoryProvider
	closePool func()

	tenantID       string
	userID         string
	bankAccount    domain.Account
	revenueAccount domain.Account
}

func (suite *ReportingRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("buchwerk_test"),
		postgres.WithUsername("buchwerk"),
		postgres.WithPassword("buchwerk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	suite.Require().NoError(err, "failed to start postgres container")
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := sql.Open("pgx", connStr)
	suite.Require().NoError(err)
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	suite.Require().NoError(err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../../migrations", "postgres", driver)
	suite.Require().NoError(err)
	suite.Require().NoError(m.Up())
	_, _ = m.Close()

	pool, err := database.NewPgxPool(ctx, connStr)
	suite.Require().NoError(err)
	suite.repos = pgsql.NewRepositoryProvider(pool)
	suite.closePool = func() { database.ClosePgxPool(pool) }
}

func (suite *ReportingRepositoryTestSuite) TearDownSuite() {
	if suite.closePool != nil {
		suite.closePool()
	}
	if suite.container != nil {
		_ = suite.container.Terminate(context.Background())
	}
}

// SetupTest gives each test its own tenant with a fresh chart of accounts so
// balances never bleed between tests.
func (suite *ReportingRepositoryTestSuite) SetupTest() {
	ctx := context.Background()
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	tenant := domain.Tenant{
		TenantID:    suite.tenantID,
		Name:        "Testmandant",
		IsActive:    true,
		AuditFields: suite.audit(),
	}
	suite.Require().NoError(suite.repos.TenantRepo.SaveTenant(ctx, tenant))

	suite.bankAccount = suite.createAccount("1200", "Bank", domain.Asset)
	suite.revenueAccount = suite.createAccount("8400", "Erlöse 19% USt", domain.Revenue)
}

func (suite *ReportingRepositoryTestSuite) audit() domain.AuditFields {
	now := time.Now().UTC()
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     suite.userID,
		LastUpdatedAt: now,
		LastUpdatedBy: suite.userID,
	}
}

func (suite *ReportingRepositoryTestSuite) createAccount(code, name string, accountType domain.AccountType) domain.Account {
	account := domain.Account{
		AccountID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Code:        code,
		Name:        name,
		AccountType: accountType,
		IsActive:    true,
		AuditFields: suite.audit(),
	}
	suite.Require().NoError(suite.repos.AccountRepo.SaveAccount(context.Background(), account))
	return account
}

func (suite *ReportingRepositoryTestSuite) balancedLines(entryID string, amount int64) []domain.JournalEntryLine {
	return []domain.JournalEntryLine{
		{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   suite.bankAccount.AccountID,
			Side:        domain.Debit,
			Amount:      amount,
			AuditFields: suite.audit(),
		},
		{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   suite.revenueAccount.AccountID,
			Side:        domain.Credit,
			Amount:      amount,
			AuditFields: suite.audit(),
		},
	}
}

func (suite *ReportingRepositoryTestSuite) createDraftEntry(amount int64) (domain.JournalEntry, []domain.JournalEntryLine) {
	entryID := uuid.NewString()
	lines := suite.balancedLines(entryID, amount)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    suite.tenantID,
		BatchID:     uuid.NewString(),
		BookingDate: time.Now().UTC().Truncate(24 * time.Hour),
		Description: "Barverkauf",
		Status:      domain.EntryDraft,
		TotalAmount: amount,
		AuditFields: suite.audit(),
	}
	suite.Require().NoError(suite.repos.JournalRepo.SaveDraftEntry(context.Background(), entry, lines))
	return entry, lines
}

func (suite *ReportingRepositoryTestSuite) postEntry(entryID string) {
	ctx := context.Background()
	err := suite.repos.JournalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := suite.repos.JournalRepo.FindEntryByIDForUpdate(ctx, tx, suite.tenantID, entryID); err != nil {
			return err
		}
		now := time.Now().UTC()
		return suite.repos.JournalRepo.UpdateEntryStatusInTx(ctx, tx, suite.tenantID, entryID, domain.EntryPosted, &now, suite.userID, now)
	})
	suite.Require().NoError(err)
}

func (suite *ReportingRepositoryTestSuite) reverseEntry(original domain.JournalEntry, originalLines []domain.JournalEntryLine) {
	ctx := context.Background()
	err := suite.repos.JournalRepo.WithTx(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		reversalID := uuid.NewString()
		mirrored := accounting.MirrorLines(originalLines)
		for i := range mirrored {
			mirrored[i].LineID = uuid.NewString()
			mirrored[i].EntryID = reversalID
			mirrored[i].AuditFields = suite.audit()
		}
		reversal := domain.JournalEntry{
			EntryID:     reversalID,
			TenantID:    suite.tenantID,
			BatchID:     uuid.NewString(),
			BookingDate: original.BookingDate,
			Description: "Storno: " + original.Description,
			Status:      domain.EntryPosted,
			LockedAt:    &now,
			TotalAmount: original.TotalAmount,
			AuditFields: suite.audit(),
		}
		if err := suite.repos.JournalRepo.InsertEntryInTx(ctx, tx, reversal, mirrored); err != nil {
			return err
		}
		return suite.repos.JournalRepo.UpdateEntryStatusInTx(ctx, tx, suite.tenantID, original.EntryID, domain.EntryCancelled, nil, suite.userID, now)
	})
	suite.Require().NoError(err)
}

// expectedBalance folds lines through the Go sign convention. The SQL CASE in
// the repository must agree with this for every account type and side.
func (suite *ReportingRepositoryTestSuite) expectedBalance(account domain.Account, lines []domain.JournalEntryLine) int64 {
	var sum int64
	for _, line := range lines {
		if line.AccountID != account.AccountID {
			continue
		}
		signed, err := accounting.SignedAmount(line, account.AccountType)
		suite.Require().NoError(err)
		sum += signed
	}
	return sum
}

func (suite *ReportingRepositoryTestSuite) balanceOf(account domain.Account) int64 {
	balance, err := suite.repos.ReportingRepo.GetAccountBalance(context.Background(), suite.tenantID, account.AccountID)
	suite.Require().NoError(err)
	return balance.BalanceCent
}

// --- Test Cases ---

func (suite *ReportingRepositoryTestSuite) TestAccountBalance_DraftLinesExcluded() {
	suite.createDraftEntry(1000)

	suite.Equal(int64(0), suite.balanceOf(suite.bankAccount))
	suite.Equal(int64(0), suite.balanceOf(suite.revenueAccount))
}

func (suite *ReportingRepositoryTestSuite) TestAccountBalance_ZeroActivityAccountReportsZero() {
	unused := suite.createAccount("1000", "Kasse", domain.Asset)

	suite.Equal(int64(0), suite.balanceOf(unused))
}

func (suite *ReportingRepositoryTestSuite) TestAccountBalance_PostedLinesMatchSignConvention() {
	entry, lines := suite.createDraftEntry(11900)
	suite.postEntry(entry.EntryID)

	suite.Equal(suite.expectedBalance(suite.bankAccount, lines), suite.balanceOf(suite.bankAccount))
	suite.Equal(suite.expectedBalance(suite.revenueAccount, lines), suite.balanceOf(suite.revenueAccount))
	// Debit to an asset and credit to a revenue are both positive.
	suite.Equal(int64(11900), suite.balanceOf(suite.bankAccount))
	suite.Equal(int64(11900), suite.balanceOf(suite.revenueAccount))
}

func (suite *ReportingRepositoryTestSuite) TestAccountBalance_ReversalRestoresPriorBalance() {
	first, _ := suite.createDraftEntry(5000)
	suite.postEntry(first.EntryID)
	bankBefore := suite.balanceOf(suite.bankAccount)
	revenueBefore := suite.balanceOf(suite.revenueAccount)

	second, secondLines := suite.createDraftEntry(3000)
	suite.postEntry(second.EntryID)
	suite.Equal(bankBefore+3000, suite.balanceOf(suite.bankAccount))

	suite.reverseEntry(second, secondLines)

	suite.Equal(bankBefore, suite.balanceOf(suite.bankAccount))
	suite.Equal(revenueBefore, suite.balanceOf(suite.revenueAccount))

	// The cancelled original keeps the timestamp of its posting.
	cancelled, err := suite.repos.JournalRepo.FindEntryByID(context.Background(), suite.tenantID, second.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.EntryCancelled, cancelled.Status)
	suite.NotNil(cancelled.LockedAt)
}

func (suite *ReportingRepositoryTestSuite) TestTrialBalance_ExcludesDraftsAndStaysBalanced() {
	posted, _ := suite.createDraftEntry(7000)
	suite.postEntry(posted.EntryID)
	suite.createDraftEntry(99999) // must not appear anywhere

	rows, err := suite.repos.ReportingRepo.GetTrialBalanceData(context.Background(), suite.tenantID, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)

	var totalDebit, totalCredit int64
	for _, row := range rows {
		suite.NotEqual(int64(99999), row.DebitTotal)
		suite.NotEqual(int64(99999), row.CreditTotal)
		totalDebit += row.DebitTotal
		totalCredit += row.CreditTotal
	}
	suite.Equal(int64(7000), totalDebit)
	suite.Equal(totalDebit, totalCredit)
}

func TestReportingRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingRepositoryTestSuite))
}
