package tasks_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shashiranjanraj/brewandco/app/models"
	"github.com/shashiranjanraj/brewandco/app/repositories"
	"github.com/shashiranjanraj/brewandco/app/tasks"
	"github.com/shashiranjanraj/brewandco/pkg/schedule"
	"github.com/shashiranjanraj/brewandco/pkg/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSchedulesEveryTask(t *testing.T) {
	s := schedule.New()
	tasks.Register(s, testkit.DB(t))

	listed := strings.Join(s.List(), "\n")
	for _, name := range []string{tasks.CatalogWarm, tasks.SalesSummary, tasks.PruneFailed} {
		assert.Contains(t, listed, name)
	}
}

func TestTasksRunAgainstStore(t *testing.T) {
	db := testkit.DB(t)
	require.NoError(t, db.Create(&models.Product{Name: "Espresso", Price: 3, Category: "coffee", IsAvailable: true}).Error)

	s := schedule.New()
	tasks.Register(s, db)

	for _, name := range []string{tasks.CatalogWarm, tasks.SalesSummary, tasks.PruneFailed} {
		assert.NoError(t, s.RunNamed(context.Background(), name), name)
	}
}

func TestSummarizeSales(t *testing.T) {
	db := testkit.DB(t)
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	require.NoError(t, db.Create(&models.Order{UserID: 1, TotalAmount: 7, Status: models.StatusCompleted, CreatedAt: yesterday}).Error)

	assert.NoError(t, tasks.SummarizeSales(context.Background(), repositories.NewOrderRepository(db), now))
}
