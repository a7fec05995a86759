package mock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fichapp/internal/accounts"
	"fichapp/internal/ledger"
	applog "fichapp/internal/log"
	"fichapp/models"
)

// DemoEmail and DemoPassword sign in to the seeded mock database.
const (
	DemoEmail    = "chef@fichapp.app"
	DemoPassword = "fichapp123"
)

// New returns an in-memory sqlite database seeded with the default catalog, a demo
// operator and a short purchase history.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:fichapp-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Unit{},
		&models.Group{},
		&models.FinancialParameter{},
		&models.Purchase{},
		&models.ActiveCost{},
	); err != nil {
		return nil, err
	}

	if err := ledger.EnsureDefaults(ctx, db); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", DemoEmail).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		applog.Debug(ctx, "mock database already seeded")
		return nil
	}

	applog.Debug(ctx, "seeding mock database")

	_, err := accounts.New(db).Register(ctx, accounts.Registration{
		Name:     "Cozinha Central",
		Email:    DemoEmail,
		Password: DemoPassword,
		Confirm:  DemoPassword,
	})
	if err != nil {
		return err
	}

	recorded := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	rows := []ledger.ImportRow{
		{Line: 1, Input: ledger.PurchaseInput{
			PurchaseDate: "01/01/2024", IngredientShortName: "Tomate", IngredientFullName: "Tomate italiano",
			Group: "Hortifruti", Brand: "Ceasa", PurchaseUnit: "KG",
			PurchasedQuantity: decimal.NewFromInt(10), TotalPurchaseValue: decimal.NewFromInt(25),
			WastePercent: decimal.NewFromInt(5), SupplierName: "Hortifruti Bom Preço",
		}},
		{Line: 2, Input: ledger.PurchaseInput{
			PurchaseDate: "15/01/2024", IngredientShortName: "Tomate", IngredientFullName: "Tomate italiano",
			Group: "Hortifruti", Brand: "Ceasa", PurchaseUnit: "KG",
			PurchasedQuantity: decimal.NewFromInt(10), TotalPurchaseValue: decimal.NewFromInt(28),
			WastePercent: decimal.NewFromInt(5), SupplierName: "Hortifruti Bom Preço",
		}},
		{Line: 3, Input: ledger.PurchaseInput{
			PurchaseDate: "10/01/2024", IngredientShortName: "Ovos", IngredientFullName: "Ovos brancos grandes",
			Group: "Hortifruti", PurchaseUnit: "DZ",
			PurchasedQuantity: decimal.NewFromInt(12), TotalPurchaseValue: decimal.NewFromInt(120),
			FreightValue: decimal.NewFromInt(10), WastePercent: decimal.NewFromInt(10),
			SupplierName: "Granja Boa Vista", SupplierPhone: "(11) 3456-7890",
		}},
		{Line: 4, Input: ledger.PurchaseInput{
			PurchaseDate: "12/01/2024", IngredientShortName: "Salmão", IngredientFullName: "Filé de salmão",
			Group: "Peixe", PurchaseUnit: "KG",
			PurchasedQuantity: decimal.NewFromInt(4), TotalPurchaseValue: decimal.NewFromInt(360),
			WastePercent: decimal.NewFromInt(25), Document: "NF 4471",
		}},
		{Line: 5, Input: ledger.PurchaseInput{
			PurchaseDate: "08/01/2024", IngredientShortName: "Caixa delivery", Group: "Embalagem",
			PurchaseUnit: "CT", PurchasedQuantity: decimal.NewFromInt(2),
			TotalPurchaseValue: decimal.RequireFromString("89.90"),
		}},
	}
	for i := range rows {
		rows[i].Input.RecordedAt = recorded.Add(time.Duration(i) * time.Hour)
	}

	result, err := ledger.New(db).Import(ctx, rows)
	if err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded", "purchases", result.Imported, "activeCosts", len(result.Consolidation.Entries))
	return nil
}
