package repository

import "github.com/vfg2006/sales-performance-engine/infrastructure/database/postgres"

// NewRepositories cria todos os repositórios sobre a mesma conexão
func NewRepositories(conn *postgres.Connection) Repositories {
	return Repositories{
		Targets:      NewTargetRepository(conn),
		Conversions:  NewConversionRepository(conn),
		Leads:        NewLeadRepository(conn),
		Directory:    NewDirectoryRepository(conn),
		Performances: NewPerformanceRepository(conn),
	}
}
