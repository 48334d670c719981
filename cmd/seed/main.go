package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4"

	"profitscan-ai/internal/config"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/repository"
	pg "profitscan-ai/internal/infra/db/postgres"
	"profitscan-ai/internal/infra/logging"
	"profitscan-ai/internal/usecase"
)

// Seeds the pricing table and a demo account so a fresh environment can
// exercise every endpoint without manual setup.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	pricingRepo := pg.NewPricingRepo(pool)
	usageRepo := pg.NewScanUsageRepo(pool)
	accessRepo := pg.NewAccessRepo(pool)

	txManager := pg.NewTxManager(pool)

	pricingUC := usecase.NewPricingUseCase(pricingRepo, logger)
	quotaUC := usecase.NewScanQuotaUseCase(usageRepo, nil, logger)

	// ---- Pricing: materialize the compiled table so admins can edit it ----
	stored, err := pricingRepo.ListAll(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list pricing: %v", err)
	}
	if len(stored) > 0 {
		fmt.Printf("%d pricing rows already present. No changes.\n", len(stored))
	} else {
		rows, err := pricingUC.List(ctx)
		if err != nil {
			log.Fatalf("effective pricing: %v", err)
		}
		for _, pr := range rows {
			if err := pricingRepo.Upsert(ctx, repository.NoTX, pr); err != nil {
				log.Fatalf("seed pricing %s: %v", pr.Provider, err)
			}
			fmt.Printf("seeded pricing: %s (in=%d out=%d micro-USD per 1M tokens)\n",
				pr.Provider, pr.InputPriceMicrosPer1M, pr.OutputPriceMicrosPer1M)
		}
	}

	// ---- Demo account: quota record plus both access grants ----
	const demoAccount = "demo-account"
	const demoEmail = "demo@profitscan.local"

	if _, err := quotaUC.Enroll(ctx, demoAccount); err != nil {
		fmt.Printf("demo quota record already present (%v)\n", err)
	} else {
		fmt.Printf("seeded quota record for %s (limit %d/30d)\n", demoAccount, model.ScanLimitPerPeriod)
	}

	// Both demo grants land in one transaction so a partial seed never
	// leaves the demo account half-entitled.
	proExpiry := time.Now().AddDate(1, 0, 0)
	err = txManager.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		generic := &model.AccessRecord{Key: demoEmail, Product: model.ProductGeneric, IsActive: true}
		if err := accessRepo.Save(ctx, tx, generic); err != nil {
			return err
		}
		pro := &model.AccessRecord{Key: demoAccount, Product: model.ProductPro, IsActive: true, ExpiresAt: &proExpiry}
		return accessRepo.Save(ctx, tx, pro)
	})
	if err != nil {
		log.Fatalf("grant demo access: %v", err)
	}
	fmt.Printf("seeded access: %s (perpetual), %s (expires %s)\n",
		demoEmail, demoAccount, proExpiry.Format("2006-01-02"))

	fmt.Println("Seeding complete.")
}
