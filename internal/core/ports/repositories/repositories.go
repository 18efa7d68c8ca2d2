package repositories

// RepositoryProvider bundles the concrete repositories handed to the service layer.
type RepositoryProvider struct {
	UserRepo        UserRepository
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
}
