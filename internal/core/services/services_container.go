package services

import (
	portsrepo "github.com/bankstmt/bank_statement_app/internal/core/ports/repositories"
	portssvc "github.com/bankstmt/bank_statement_app/internal/core/ports/services"
)

// NewServiceContainer wires the services from the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, accountOptions ...AccountServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:    NewUserService(repos.UserRepo),
		Account: NewAccountService(repos.AccountRepo, repos.UserRepo, accountOptions...),
		Ledger:  NewLedgerService(repos.AccountRepo, repos.TransactionRepo),
	}
}
