package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"
)

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func seedFacts(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	dataDir := c.String("data-dir")

	err = withTx(c.Context, db, func(tx *sql.Tx) error {
		if err := loadCSV(filepath.Join(dataDir, "daily_stock.csv"), func(row map[string]string) error {
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO themall_poc.f_stock_daily_3 (material, plant, d_period, move_qty, daily_stock)
				VALUES ($1, $2, $3, $4, $5)
			`, row["material"], row["plant"], row["d_period"], atoi(row["move_qty"]), atoi(row["daily_stock"]))
			return err
		}); err != nil {
			return fmt.Errorf("loading daily stock: %w", err)
		}

		if err := loadCSV(filepath.Join(dataDir, "movements.csv"), func(row map[string]string) error {
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO themall_poc.f_mb51_top50 (material, plant, posting_date, unit_entry_qty)
				VALUES ($1, $2, $3, $4)
			`, row["material"], row["plant"], row["posting_date"], atoi(row["unit_entry_qty"]))
			return err
		}); err != nil {
			return fmt.Errorf("loading movements: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Println("Seeded stock facts")
	return nil
}

func seedDemand(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	err = withTx(c.Context, db, func(tx *sql.Tx) error {
		return loadCSV(filepath.Join(c.String("data-dir"), "predicted_demand.csv"), func(row map[string]string) error {
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO themall_poc.final_order_table (material, item_desc, plnt, iso_year, iso_week, pred_order_qty)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, row["material"], row["item_desc"], row["plnt"],
				atoi(row["iso_year"]), atoi(row["iso_week"]), atoi(row["pred_order_qty"]))
			return err
		})
	})
	if err != nil {
		return fmt.Errorf("loading predicted demand: %w", err)
	}

	log.Println("Seeded predicted demand")
	return nil
}

func seedMaster(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	dataDir := c.String("data-dir")

	err = withTx(c.Context, db, func(tx *sql.Tx) error {
		if err := loadCSV(filepath.Join(dataDir, "inventory_items.csv"), func(row map[string]string) error {
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO themall_poc.app_inventory_items_cal
					(sku, name, plant, reorder_point, category, supplier, lead_time_days)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, row["sku"], row["name"], row["plant"], atoi(row["reorder_point"]),
				row["category"], row["supplier"], nullIfEmptyInt(row["lead_time_days"]))
			return err
		}); err != nil {
			return fmt.Errorf("loading inventory items: %w", err)
		}

		if err := loadCSV(filepath.Join(dataDir, "plants.csv"), func(row map[string]string) error {
			_, err := tx.ExecContext(c.Context, `
				INSERT INTO themall_poc.d_plant_master (plant, plant_name_1)
				VALUES ($1, $2)
			`, row["plant"], row["plant_name"])
			return err
		}); err != nil {
			return fmt.Errorf("loading plants: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Println("Seeded master data")
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// loadCSV streams a headered CSV file row by row into handler, passing each
// row as a column-name map.
func loadCSV(path string, handler func(row map[string]string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header of %s: %w", path, err)
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed reading %s: %w", path, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		if err := handler(row); err != nil {
			return fmt.Errorf("row %d of %s: %w", count+2, path, err)
		}
		count++
	}

	log.Printf("Loaded %d rows from %s", count, filepath.Base(path))
	return nil
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func nullIfEmptyInt(s string) sql.NullInt64 {
	if s == "" {
		return sql.NullInt64{}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}
