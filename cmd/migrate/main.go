package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/jstittsworth/contract-advisor/internal/identity"
	"github.com/jstittsworth/contract-advisor/internal/models"
	"github.com/jstittsworth/contract-advisor/pkg/config"
	"github.com/jstittsworth/contract-advisor/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed [contracts.csv]]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		path := ""
		if len(os.Args) > 2 {
			path = os.Args[2]
		}
		if err := seedContracts(db, path); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Contract{},
		&models.PlayerSeason{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_contracts_position ON contracts(position)",
		"CREATE INDEX IF NOT EXISTS idx_contracts_aav ON contracts(aav DESC)",
		"CREATE INDEX IF NOT EXISTS idx_player_seasons_war ON player_seasons(war DESC)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"player_seasons",
		"contracts",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

// seedContracts loads the historical signing table. With a path it reads
// a CSV export; without one it writes a small built-in sample so the API
// has something to rank against in development.
func seedContracts(db *database.DB, path string) error {
	var contracts []models.Contract
	var err error
	if path != "" {
		contracts, err = loadContractsCSV(path)
		if err != nil {
			return err
		}
	} else {
		contracts = sampleContracts()
	}

	for i := range contracts {
		contracts[i].NormalizedName = identity.Normalize(contracts[i].PlayerName)
		if err := db.Where(
			"normalized_name = ? AND year_signed = ?",
			contracts[i].NormalizedName, contracts[i].YearSigned,
		).FirstOrCreate(&contracts[i]).Error; err != nil {
			return fmt.Errorf("failed to seed contract for %s: %w", contracts[i].PlayerName, err)
		}
	}

	logrus.Infof("Seeded %d contracts", len(contracts))
	return nil
}

// loadContractsCSV parses rows of:
//
//	player_name,position,year_signed,age_at_signing,aav,total_value,length,war_3yr[,stats_json]
//
// AAV and total value are in millions. The optional trailing column holds
// the full stat line at signing as JSON.
func loadContractsCSV(path string) ([]models.Contract, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < 8 {
		return nil, fmt.Errorf("expected at least 8 CSV columns, got %d", len(header))
	}

	var contracts []models.Contract
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		contract, err := parseContractRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		contracts = append(contracts, contract)
	}
	return contracts, nil
}

func parseContractRow(record []string) (models.Contract, error) {
	if len(record) < 8 {
		return models.Contract{}, fmt.Errorf("expected at least 8 fields, got %d", len(record))
	}

	year, err := strconv.Atoi(record[2])
	if err != nil {
		return models.Contract{}, fmt.Errorf("bad year_signed %q", record[2])
	}
	age, err := strconv.Atoi(record[3])
	if err != nil {
		return models.Contract{}, fmt.Errorf("bad age_at_signing %q", record[3])
	}
	aav, err := strconv.ParseFloat(record[4], 64)
	if err != nil {
		return models.Contract{}, fmt.Errorf("bad aav %q", record[4])
	}
	total, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return models.Contract{}, fmt.Errorf("bad total_value %q", record[5])
	}
	length, err := strconv.Atoi(record[6])
	if err != nil {
		return models.Contract{}, fmt.Errorf("bad length %q", record[6])
	}
	war, err := strconv.ParseFloat(record[7], 64)
	if err != nil {
		return models.Contract{}, fmt.Errorf("bad war_3yr %q", record[7])
	}

	contract := models.Contract{
		PlayerName:   record[0],
		Position:     record[1],
		YearSigned:   year,
		AgeAtSigning: age,
		AAV:          aav,
		TotalValue:   total,
		Length:       length,
		WAR3yr:       war,
	}
	if len(record) > 8 && record[8] != "" {
		if !json.Valid([]byte(record[8])) {
			return models.Contract{}, fmt.Errorf("bad stats_json for %s", record[0])
		}
		contract.StatsAtSigning = datatypes.JSON(record[8])
	}
	return contract, nil
}

func sampleContracts() []models.Contract {
	stats := func(s string) datatypes.JSON { return datatypes.JSON(s) }
	return []models.Contract{
		{PlayerName: "Aaron Judge", Position: "OF", YearSigned: 2022, AgeAtSigning: 30, AAV: 40.0, TotalValue: 360.0, Length: 9, WAR3yr: 15.9,
			StatsAtSigning: stats(`{"war_3yr":15.9,"wrc_plus_3yr":172,"avg_3yr":0.295,"obp_3yr":0.407,"slg_3yr":0.622,"hr_3yr":44,"avg_exit_velo":95.9,"barrel_rate":26.5}`)},
		{PlayerName: "Jacob deGrom", Position: "SP", YearSigned: 2022, AgeAtSigning: 34, AAV: 37.0, TotalValue: 185.0, Length: 5, WAR3yr: 9.1,
			StatsAtSigning: stats(`{"war_3yr":9.1,"era_3yr":2.05,"fip_3yr":1.85,"k_9_3yr":13.2,"bb_9_3yr":1.4,"ip_3yr":95}`)},
		{PlayerName: "Trea Turner", Position: "SS", YearSigned: 2022, AgeAtSigning: 29, AAV: 27.3, TotalValue: 300.0, Length: 11, WAR3yr: 15.4,
			StatsAtSigning: stats(`{"war_3yr":15.4,"wrc_plus_3yr":131,"avg_3yr":0.316,"obp_3yr":0.363,"slg_3yr":0.509,"hr_3yr":23}`)},
		{PlayerName: "Jose Ramirez", Position: "3B", YearSigned: 2022, AgeAtSigning: 29, AAV: 20.2, TotalValue: 141.0, Length: 7, WAR3yr: 15.7,
			StatsAtSigning: stats(`{"war_3yr":15.7,"wrc_plus_3yr":144,"avg_3yr":0.278,"obp_3yr":0.359,"slg_3yr":0.531,"hr_3yr":31}`)},
		{PlayerName: "Edwin Diaz", Position: "RP", YearSigned: 2022, AgeAtSigning: 28, AAV: 20.4, TotalValue: 102.0, Length: 5, WAR3yr: 4.8,
			StatsAtSigning: stats(`{"war_3yr":4.8,"era_3yr":2.79,"fip_3yr":2.33,"k_9_3yr":15.4,"bb_9_3yr":3.3,"ip_3yr":60}`)},
		{PlayerName: "Julio Rodriguez", Position: "OF", YearSigned: 2022, AgeAtSigning: 21, AAV: 17.5, TotalValue: 210.0, Length: 12, WAR3yr: 5.3,
			StatsAtSigning: stats(`{"war_3yr":5.3,"wrc_plus_3yr":146,"avg_3yr":0.284,"obp_3yr":0.345,"slg_3yr":0.509,"hr_3yr":28}`)},
		{PlayerName: "Carlos Correa", Position: "SS", YearSigned: 2023, AgeAtSigning: 28, AAV: 33.3, TotalValue: 200.0, Length: 6, WAR3yr: 14.6,
			StatsAtSigning: stats(`{"war_3yr":14.6,"wrc_plus_3yr":134,"avg_3yr":0.284,"obp_3yr":0.357,"slg_3yr":0.475,"hr_3yr":22}`)},
		{PlayerName: "Blake Snell", Position: "SP", YearSigned: 2024, AgeAtSigning: 31, AAV: 31.0, TotalValue: 62.0, Length: 2, WAR3yr: 8.3,
			StatsAtSigning: stats(`{"war_3yr":8.3,"era_3yr":3.12,"fip_3yr":3.45,"k_9_3yr":11.9,"bb_9_3yr":4.1,"ip_3yr":140}`)},
	}
}
