package main

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"

	"github.com/ogurasousui/karyawan-web/internal/adapters/repository/postgres"
	"github.com/ogurasousui/karyawan-web/internal/core/employee"
	pg "github.com/ogurasousui/karyawan-web/internal/platform/db/postgres"
)

const (
	minSeedSalary = 3_000_000
	maxSeedSalary = 20_000_000
)

func newSeedCommand(opts *options) *cobra.Command {
	var (
		count int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert fake employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be positive: %d", count)
			}

			cfg, l, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := pg.NewPool(ctx, cfg.Database, l)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := employee.NewService(postgres.NewEmployeeRepository(pool), nil, pg.NewTransactionManager(pool))
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			created, err := seedEmployees(ctx, svc, faker.NewWithSeed(rand.NewSource(seed)), count)
			if err != nil {
				return err
			}

			l.Info().Int("created", created).Int64("seed", seed).Msg("seed completed")
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 50, "number of employees to create")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the current time)")
	return cmd
}

func seedEmployees(ctx context.Context, svc employee.WriteUseCase, f faker.Faker, count int) (int, error) {
	for i := 0; i < count; i++ {
		_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeInput{
			Name:     f.Person().Name(),
			Position: f.Company().JobTitle(),
			Salary:   strconv.FormatInt(f.Int64Between(minSeedSalary, maxSeedSalary), 10),
		})
		if err != nil {
			return i, fmt.Errorf("seed employee %d: %w", i+1, err)
		}
	}
	return count, nil
}
