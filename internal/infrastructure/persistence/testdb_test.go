package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verone/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupBackofficeTestDB opens an in-memory SQLite database with every back-office table
func setupBackofficeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a single connection keeps the in-memory database alive across queries
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.OrganisationModel{},
		&models.EnseigneModel{},
		&models.UserAppRoleModel{},
		&models.AffiliateModel{},
		&models.SelectionModel{},
		&models.SalesOrderModel{},
		&models.SalesOrderItemModel{},
		&models.IndividualCustomerModel{},
		&models.InvoiceModel{},
		&models.InvoiceItemModel{},
		&models.CreditNoteModel{},
		&models.QuoteModel{},
		&models.CollectionModel{},
		&models.CollectionProductModel{},
		&models.CollectionShareModel{},
		&models.ContractModel{},
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
