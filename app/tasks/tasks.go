// Package tasks registers the recurring maintenance jobs.
package tasks

import (
	"context"
	"time"

	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/queue"
	"github.com/shashiranjanraj/brewandco/pkg/schedule"
	"gorm.io/gorm"
)

const (
	CatalogWarm  = "catalog:warm"
	SalesSummary = "sales:summary"
	PruneFailed  = "queue:prune-failed"

	failedJobRetention = 7 * 24 * time.Hour
)

// Register schedules every task on s.
func Register(s *schedule.Scheduler, db *gorm.DB) {
	catalog := services.NewCatalogService(db)
	orders := repositories.NewOrderRepository(db)

	s.Every(5).Minutes().Name(CatalogWarm).WithoutOverlapping().Run(catalog.Warm)

	s.Cron("5 0 * * *").Name(SalesSummary).Run(func(ctx context.Context) error {
		return SummarizeSales(ctx, orders, time.Now())
	})

	s.Daily().Name(PruneFailed).WithoutOverlapping().Run(func(ctx context.Context) error {
		n, err := queue.PruneFailed(failedJobRetention)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.WithCtx(ctx).Info("tasks: pruned failed jobs", "count", n)
		}
		return nil
	})
}

// SummarizeSales logs the order count and revenue of the day before now.
func SummarizeSales(ctx context.Context, orders *repositories.OrderRepository, now time.Time) error {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)

	since, err := orders.Totals(ctx, yesterday)
	if err != nil {
		return err
	}
	after, err := orders.Totals(ctx, today)
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("tasks: daily sales",
		"date", yesterday.Format("2006-01-02"),
		"orders", since.Count-after.Count,
		"revenue", since.Revenue-after.Revenue)
	return nil
}
