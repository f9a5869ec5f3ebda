package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/warinyupa/stocklens/internal/storage"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing seed CSV files",
		Value:   "./data/seeds",
		EnvVars: []string{"SEED_DATA_DIR"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load stock facts, demand predictions and master data into Postgres",
		Commands: []*cli.Command{
			{
				Name:   "facts",
				Usage:  "Seed daily stock observations and movement events",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: seedFacts,
			},
			{
				Name:   "demand",
				Usage:  "Seed predicted order quantities",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: seedDemand,
			},
			{
				Name:   "master",
				Usage:  "Seed SKU and plant master data",
				Flags:  []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: seedMaster,
			},
			{
				Name:  "download",
				Usage: "Download seed CSVs from S3-compatible storage",
				Flags: []cli.Flag{
					newDataDirFlag(),
					&cli.StringFlag{Name: "s3-endpoint", EnvVars: []string{"S3_ENDPOINT"}, Required: true},
					&cli.StringFlag{Name: "s3-access-key", EnvVars: []string{"S3_ACCESS_KEY"}, Required: true},
					&cli.StringFlag{Name: "s3-secret-key", EnvVars: []string{"S3_SECRET_KEY"}, Required: true},
					&cli.StringFlag{Name: "s3-bucket", EnvVars: []string{"S3_BUCKET"}, Required: true},
					&cli.StringFlag{Name: "s3-region", EnvVars: []string{"S3_REGION"}},
					&cli.BoolFlag{Name: "s3-use-ssl", EnvVars: []string{"S3_USE_SSL"}, Value: true},
					&cli.StringFlag{Name: "prefix", Usage: "Object key prefix to mirror", Value: "seeds/"},
				},
				Action: downloadSeeds,
			},
			{
				Name:  "all",
				Usage: "Seed facts, demand and master data",
				Flags: []cli.Flag{newDBURLFlag(), newDataDirFlag()},
				Action: func(c *cli.Context) error {
					if err := seedMaster(c); err != nil {
						return fmt.Errorf("error seeding master data: %w", err)
					}
					if err := seedFacts(c); err != nil {
						return fmt.Errorf("error seeding facts: %w", err)
					}
					if err := seedDemand(c); err != nil {
						return fmt.Errorf("error seeding demand: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func downloadSeeds(c *cli.Context) error {
	client, err := storage.NewS3Client(storage.S3Config{
		Endpoint:  c.String("s3-endpoint"),
		AccessKey: c.String("s3-access-key"),
		SecretKey: c.String("s3-secret-key"),
		Bucket:    c.String("s3-bucket"),
		Region:    c.String("s3-region"),
		UseSSL:    c.Bool("s3-use-ssl"),
	})
	if err != nil {
		return err
	}

	prefix := c.String("prefix")
	objects, err := client.ListObjects(c.Context, prefix)
	if err != nil {
		return err
	}

	var keys []string
	for _, obj := range objects {
		if strings.HasSuffix(strings.ToLower(obj.Key), ".csv") {
			keys = append(keys, obj.Key)
		}
	}
	if len(keys) == 0 {
		return fmt.Errorf("no CSV files found under prefix %s", prefix)
	}
	sort.Strings(keys)

	dataDir := c.String("data-dir")
	for _, key := range keys {
		rel := strings.TrimPrefix(key, strings.TrimSuffix(prefix, "/")+"/")
		dest := filepath.Join(dataDir, rel)
		log.Printf("Downloading %s -> %s", key, dest)
		if err := client.DownloadObject(c.Context, key, dest); err != nil {
			return err
		}
	}

	log.Printf("Downloaded %d seed files", len(keys))
	return nil
}
