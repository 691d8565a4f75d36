package controllers_test

import (
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/eventnest/eventnest/app/controllers"
	"github.com/eventnest/eventnest/app/models"
	"github.com/eventnest/eventnest/app/repositories"
	"github.com/eventnest/eventnest/app/services"
	"github.com/eventnest/eventnest/pkg/ctx"
	"github.com/eventnest/eventnest/pkg/testkit"
)

func TestContactSubmitScenarios(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Contact{}))

	contacts := services.NewContactService(db, repositories.NewCatalogRepository(db))
	cc := controllers.NewContactController(contacts)

	mux := chi.NewRouter()
	mux.Post("/api/contact", ctx.Wrap(cc.Submit))

	testkit.RunDir(t, mux, "testdata/contact")
}
