package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bankstmt/bank_statement_app/internal/apperrors"
	"github.com/bankstmt/bank_statement_app/internal/core/domain"
	portssvc "github.com/bankstmt/bank_statement_app/internal/core/ports/services"
	"github.com/bankstmt/bank_statement_app/internal/core/services"
	"github.com/bankstmt/bank_statement_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) ExistsAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	args := m.Called(ctx, accountNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) SaveAccountWithInitialDeposit(ctx context.Context, account domain.Account, initialDeposit *domain.Transaction) error {
	args := m.Called(ctx, account, initialDeposit)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) CloseAccount(ctx context.Context, accountNumber string, now time.Time) error {
	args := m.Called(ctx, accountNumber, now)
	return args.Error(0)
}

// --- Test Suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockUserRepo    *MockUserRepository
	service         portssvc.AccountSvc
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockUserRepo)
}

func (suite *AccountServiceTestSuite) userFixture() *domain.User {
	return &domain.User{
		UserID:    uuid.NewString(),
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
	}
}

// expectNumberAvailable stubs the allocation pre-check to report every
// candidate number as free.
func (suite *AccountServiceTestSuite) expectNumberAvailable() {
	suite.mockAccountRepo.On("ExistsAccountNumber", mock.Anything, mock.AnythingOfType("string")).
		Return(false, nil)
}

// --- CreateAccount Tests ---

func (suite *AccountServiceTestSuite) TestCreateAccount_WithInitialDeposit() {
	ctx := context.Background()
	user := suite.userFixture()
	initial := decimal.RequireFromString("250.00")
	req := dto.CreateAccountRequest{UserID: user.UserID, InitialBalance: initial}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.expectNumberAvailable()
	suite.mockAccountRepo.On("SaveAccountWithInitialDeposit", ctx,
		mock.MatchedBy(func(account domain.Account) bool {
			return account.UserID != nil && *account.UserID == user.UserID &&
				account.Balance.Equal(initial) &&
				account.Status == domain.AccountActive &&
				account.FirstName == user.FirstName
		}),
		mock.MatchedBy(func(txn *domain.Transaction) bool {
			return txn != nil && txn.Type == domain.Deposit &&
				txn.Amount.Equal(initial) &&
				txn.RunningBalance.Equal(initial) &&
				txn.Description == domain.InitialDepositDescription
		})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Regexp(`^\d{4}-\d{4}-\d{4}$`, account.AccountNumber)
	suite.True(account.Balance.Equal(initial))
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ZeroBalanceNoDeposit() {
	ctx := context.Background()
	user := suite.userFixture()
	req := dto.CreateAccountRequest{UserID: user.UserID, InitialBalance: decimal.Zero}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.expectNumberAvailable()
	suite.mockAccountRepo.On("SaveAccountWithInitialDeposit", ctx,
		mock.AnythingOfType("domain.Account"),
		(*domain.Transaction)(nil)).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.True(account.Balance.IsZero())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_NegativeInitialBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		UserID:         uuid.NewString(),
		InitialBalance: decimal.RequireFromString("-1"),
	}

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_TooManyDecimalPlaces() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		UserID:         uuid.NewString(),
		InitialBalance: decimal.RequireFromString("10.00001"),
	}

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UserNotFound() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateAccountRequest{UserID: userID, InitialBalance: decimal.Zero}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccountWithInitialDeposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RetriesOnCollision() {
	ctx := context.Background()
	user := suite.userFixture()
	req := dto.CreateAccountRequest{UserID: user.UserID, InitialBalance: decimal.Zero}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.expectNumberAvailable()
	// The pre-check misses a concurrent writer: the first insert collides
	// with an existing number, the second commits.
	suite.mockAccountRepo.On("SaveAccountWithInitialDeposit", ctx,
		mock.AnythingOfType("domain.Account"), (*domain.Transaction)(nil)).
		Return(apperrors.ErrDuplicate).Once()
	suite.mockAccountRepo.On("SaveAccountWithInitialDeposit", ctx,
		mock.AnythingOfType("domain.Account"), (*domain.Transaction)(nil)).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "SaveAccountWithInitialDeposit", 2)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_PrecheckSkipsAllocatedNumber() {
	ctx := context.Background()
	user := suite.userFixture()
	req := dto.CreateAccountRequest{UserID: user.UserID, InitialBalance: decimal.Zero}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	// The first candidate is already taken, so no insert is attempted for it.
	suite.mockAccountRepo.On("ExistsAccountNumber", ctx, mock.AnythingOfType("string")).
		Return(true, nil).Once()
	suite.mockAccountRepo.On("ExistsAccountNumber", ctx, mock.AnythingOfType("string")).
		Return(false, nil).Once()
	suite.mockAccountRepo.On("SaveAccountWithInitialDeposit", ctx,
		mock.AnythingOfType("domain.Account"), (*domain.Transaction)(nil)).
		Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "ExistsAccountNumber", 2)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "SaveAccountWithInitialDeposit", 1)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_AllocationExhausted() {
	ctx := context.Background()
	user := suite.userFixture()
	req := dto.CreateAccountRequest{UserID: user.UserID, InitialBalance: decimal.Zero}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.expectNumberAvailable()
	suite.mockAccountRepo.On("SaveAccountWithInitialDeposit", ctx,
		mock.AnythingOfType("domain.Account"), (*domain.Transaction)(nil)).
		Return(apperrors.ErrDuplicate).Times(3)

	svc := services.NewAccountService(suite.mockAccountRepo, suite.mockUserRepo,
		services.WithAllocationAttempts(3))
	account, err := svc.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "SaveAccountWithInitialDeposit", 3)
}

// --- GetAccountByNumber Tests ---

func (suite *AccountServiceTestSuite) TestGetAccountByNumber_Success() {
	ctx := context.Background()
	accountNumber := "2608-1234-5678"
	expected := &domain.Account{AccountNumber: accountNumber, Status: domain.AccountActive}

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, accountNumber).Return(expected, nil).Once()

	account, err := suite.service.GetAccountByNumber(ctx, accountNumber)

	suite.Require().NoError(err)
	suite.Equal(expected, account)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByNumber_NotFound() {
	ctx := context.Background()
	accountNumber := "2608-0000-0000"

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, accountNumber).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByNumber(ctx, accountNumber)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ListAccountsForUser Tests ---

func (suite *AccountServiceTestSuite) TestListAccountsForUser_Success() {
	ctx := context.Background()
	user := suite.userFixture()
	expected := []domain.Account{{AccountNumber: "2608-1111-2222"}}

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByUserID", ctx, user.UserID).Return(expected, nil).Once()

	accounts, err := suite.service.ListAccountsForUser(ctx, user.UserID)

	suite.Require().NoError(err)
	suite.Equal(expected, accounts)
}

func (suite *AccountServiceTestSuite) TestListAccountsForUser_UnknownUser() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	accounts, err := suite.service.ListAccountsForUser(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(accounts)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByUserID", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestListAccountsForUser_EmptyNotNil() {
	ctx := context.Background()
	user := suite.userFixture()

	suite.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByUserID", ctx, user.UserID).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccountsForUser(ctx, user.UserID)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

// --- UpdateAccount Tests ---

func (suite *AccountServiceTestSuite) TestUpdateAccount_Success() {
	ctx := context.Background()
	accountNumber := "2608-1234-5678"
	existing := &domain.Account{
		AccountNumber: accountNumber,
		FirstName:     "Old",
		LastName:      "Holder",
		Status:        domain.AccountActive,
	}
	newFirst := "New"

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, accountNumber).Return(existing, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(account domain.Account) bool {
		return account.FirstName == newFirst && account.LastName == "Holder"
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(ctx, accountNumber, dto.UpdateAccountRequest{FirstName: &newFirst})

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal(newFirst, account.FirstName)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoChanges() {
	ctx := context.Background()
	accountNumber := "2608-1234-5678"
	existing := &domain.Account{AccountNumber: accountNumber, FirstName: "Same"}
	sameFirst := "Same"

	suite.mockAccountRepo.On("FindAccountByNumber", ctx, accountNumber).Return(existing, nil).Once()

	account, err := suite.service.UpdateAccount(ctx, accountNumber, dto.UpdateAccountRequest{FirstName: &sameFirst})

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNoChanges)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

// --- CloseAccount Tests ---

func (suite *AccountServiceTestSuite) TestCloseAccount_Success() {
	ctx := context.Background()
	accountNumber := "2608-1234-5678"

	suite.mockAccountRepo.On("CloseAccount", ctx, accountNumber,
		mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.CloseAccount(ctx, accountNumber)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	// The eligibility decision belongs to the repository's locked transition;
	// a fetched snapshot here would be stale by the time the write lands.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByNumber", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCloseAccount_AlreadyClosed() {
	ctx := context.Background()
	accountNumber := "2608-1234-5678"

	suite.mockAccountRepo.On("CloseAccount", ctx, accountNumber, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: account %s is already closed", apperrors.ErrInvalidOperation, accountNumber)).Once()

	err := suite.service.CloseAccount(ctx, accountNumber)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidOperation)
}

func (suite *AccountServiceTestSuite) TestCloseAccount_NonZeroBalance() {
	ctx := context.Background()
	accountNumber := "2608-1234-5678"

	suite.mockAccountRepo.On("CloseAccount", ctx, accountNumber, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: account %s cannot be closed because the balance is not zero",
			apperrors.ErrInvalidOperation, accountNumber)).Once()

	err := suite.service.CloseAccount(ctx, accountNumber)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidOperation)
}

func (suite *AccountServiceTestSuite) TestCloseAccount_NotFound() {
	ctx := context.Background()
	accountNumber := "2608-0000-0000"

	suite.mockAccountRepo.On("CloseAccount", ctx, accountNumber, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)).Once()

	err := suite.service.CloseAccount(ctx, accountNumber)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// Two callers racing to close the same zero-balance account: the repository's
// locked transition admits the first and rejects the second, so exactly one
// close succeeds.
func (suite *AccountServiceTestSuite) TestCloseAccount_ConcurrentClosesOnlyOneSucceeds() {
	ctx := context.Background()
	accountNumber := "2608-1234-5678"

	suite.mockAccountRepo.On("CloseAccount", ctx, accountNumber, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.mockAccountRepo.On("CloseAccount", ctx, accountNumber, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: account %s is already closed", apperrors.ErrInvalidOperation, accountNumber)).Once()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- suite.service.CloseAccount(ctx, accountNumber)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			suite.ErrorIs(err, apperrors.ErrInvalidOperation)
		}
	}
	suite.Equal(1, succeeded)
	suite.mockAccountRepo.AssertNumberOfCalls(suite.T(), "CloseAccount", 2)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByNumber", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
