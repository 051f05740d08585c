// Seeds the kodibot database with demo fixtures from seed.yaml. Existing
// data is wiped first; never point this at a production database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kodinet/kodibot-engine/pkg/config"
	"github.com/kodinet/kodibot-engine/pkg/database"
	"github.com/kodinet/kodibot-engine/pkg/models"
	"github.com/kodinet/kodibot-engine/pkg/repositories"
)

type seedFile struct {
	Citizens []struct {
		PhoneNumber string `yaml:"phone_number"`
		CitizenID   string `yaml:"citizen_id"`
		FirstName   string `yaml:"first_name"`
		LastName    string `yaml:"last_name"`
		Email       string `yaml:"email"`
		Address     string `yaml:"address"`
		DateOfBirth string `yaml:"date_of_birth"`
		IsVerified  bool   `yaml:"is_verified"`
	} `yaml:"citizens"`
	Taxes []struct {
		CitizenID  string  `yaml:"citizen_id"`
		TaxType    string  `yaml:"tax_type"`
		AmountDue  float64 `yaml:"amount_due"`
		AmountPaid float64 `yaml:"amount_paid"`
		DueDate    string  `yaml:"due_date"`
		Status     string  `yaml:"status"`
		TaxYear    int     `yaml:"tax_year"`
	} `yaml:"taxes"`
	Parcels []struct {
		CitizenID      string  `yaml:"citizen_id"`
		ParcelNumber   string  `yaml:"parcel_number"`
		PropertyType   string  `yaml:"property_type"`
		Address        string  `yaml:"address"`
		AreaSqm        float64 `yaml:"area_sqm"`
		EstimatedValue float64 `yaml:"estimated_value"`
		Status         string  `yaml:"status"`
	} `yaml:"parcels"`
	Procedures []struct {
		Name              string   `yaml:"name"`
		Description       string   `yaml:"description"`
		Steps             []string `yaml:"steps"`
		RequiredDocuments []string `yaml:"required_documents"`
		EstimatedDuration string   `yaml:"estimated_duration"`
		Cost              float64  `yaml:"cost"`
		Department        string   `yaml:"department"`
	} `yaml:"procedures"`
	ETaxAccounts []struct {
		CitizenID         string   `yaml:"citizen_id"`
		Status            string   `yaml:"status"`
		AccountType       string   `yaml:"account_type"`
		VerificationLevel string   `yaml:"verification_level"`
		RegistrationDate  string   `yaml:"registration_date"`
		LastLogin         string   `yaml:"last_login"`
		PaymentMethods    []string `yaml:"payment_methods"`
		TaxReturnsFiled   int      `yaml:"tax_returns_filed"`
		LastFilingDate    string   `yaml:"last_filing_date"`
		ComplianceScore   int      `yaml:"compliance_score"`
	} `yaml:"etax_accounts"`
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return &t, nil
}

func main() {
	seedPath := flag.String("fixtures", "scripts/seed-data/seed.yaml", "path to the seed YAML file")
	flag.Parse()

	cfg, err := config.Load("seed")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	raw, err := os.ReadFile(*seedPath)
	if err != nil {
		logger.Fatal("Failed to read fixtures", zap.Error(err))
	}
	var fixtures seedFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		logger.Fatal("Failed to parse fixtures", zap.Error(err))
	}

	ctx := context.Background()

	migrationDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	db, err := database.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := seed(ctx, db, &fixtures, logger); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}

	logger.Info("Database seeding completed")
}

func seed(ctx context.Context, db *database.DB, fixtures *seedFile, logger *zap.Logger) error {
	_, err := db.Exec(ctx, `
		TRUNCATE chat_logs, identity_links, etax_accounts, procedures,
		         kcaf_records, parcels, tax_records, citizens RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to clear existing data: %w", err)
	}

	citizens := repositories.NewCitizenRepository(db)
	taxes := repositories.NewTaxRepository(db)
	parcels := repositories.NewParcelRepository(db)
	procedures := repositories.NewProcedureRepository(db)
	etax := repositories.NewETaxRepository(db)
	links := repositories.NewLinkRepository(db)

	for _, c := range fixtures.Citizens {
		dob, err := parseDate(c.DateOfBirth)
		if err != nil {
			return err
		}
		citizen := &models.Citizen{
			PhoneNumber: c.PhoneNumber,
			CitizenID:   c.CitizenID,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Email:       c.Email,
			Address:     c.Address,
			DateOfBirth: dob,
			IsVerified:  c.IsVerified,
		}
		if err := citizens.Create(ctx, citizen); err != nil {
			return err
		}

		// Fixtures ship pre-linked so demo phones can query immediately.
		now := time.Now().UTC()
		link := &models.IdentityLink{
			PhoneNumber: c.PhoneNumber,
			CitizenID:   c.CitizenID,
			Linked:      true,
			LinkedAt:    &now,
		}
		if err := links.Upsert(ctx, link); err != nil {
			return err
		}
	}
	logger.Info("Seeded citizens", zap.Int("count", len(fixtures.Citizens)))

	for _, t := range fixtures.Taxes {
		due, err := parseDate(t.DueDate)
		if err != nil {
			return err
		}
		record := &models.TaxRecord{
			CitizenID:  t.CitizenID,
			TaxType:    t.TaxType,
			AmountDue:  t.AmountDue,
			AmountPaid: t.AmountPaid,
			DueDate:    due,
			Status:     t.Status,
			TaxYear:    t.TaxYear,
		}
		if err := taxes.Create(ctx, record); err != nil {
			return err
		}
	}
	logger.Info("Seeded tax records", zap.Int("count", len(fixtures.Taxes)))

	for _, p := range fixtures.Parcels {
		parcel := &models.Parcel{
			CitizenID:      p.CitizenID,
			ParcelNumber:   p.ParcelNumber,
			PropertyType:   p.PropertyType,
			Address:        p.Address,
			AreaSqm:        p.AreaSqm,
			EstimatedValue: p.EstimatedValue,
			Status:         p.Status,
		}
		if err := parcels.Create(ctx, parcel); err != nil {
			return err
		}
	}
	logger.Info("Seeded parcels", zap.Int("count", len(fixtures.Parcels)))

	for _, p := range fixtures.Procedures {
		procedure := &models.Procedure{
			Name:              p.Name,
			Description:       p.Description,
			Steps:             p.Steps,
			RequiredDocuments: p.RequiredDocuments,
			EstimatedDuration: p.EstimatedDuration,
			Cost:              p.Cost,
			Department:        p.Department,
		}
		if err := procedures.Create(ctx, procedure); err != nil {
			return err
		}
	}
	logger.Info("Seeded procedures", zap.Int("count", len(fixtures.Procedures)))

	for _, a := range fixtures.ETaxAccounts {
		reg, err := parseDate(a.RegistrationDate)
		if err != nil {
			return err
		}
		if reg == nil {
			return fmt.Errorf("etax account for %s is missing registration_date", a.CitizenID)
		}
		lastLogin, err := parseDate(a.LastLogin)
		if err != nil {
			return err
		}
		lastFiling, err := parseDate(a.LastFilingDate)
		if err != nil {
			return err
		}
		account := &models.ETaxAccount{
			CitizenID:         a.CitizenID,
			Status:            a.Status,
			AccountType:       a.AccountType,
			VerificationLevel: a.VerificationLevel,
			RegistrationDate:  *reg,
			LastLogin:         lastLogin,
			PaymentMethods:    a.PaymentMethods,
			TaxReturnsFiled:   a.TaxReturnsFiled,
			LastFilingDate:    lastFiling,
			ComplianceScore:   a.ComplianceScore,
		}
		if err := etax.Create(ctx, account); err != nil {
			return err
		}
	}
	logger.Info("Seeded etax accounts", zap.Int("count", len(fixtures.ETaxAccounts)))

	return nil
}
