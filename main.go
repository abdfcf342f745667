package main

import (
	"time"

	"github.com/clwei/goblog/config"
	"github.com/clwei/goblog/models"
	"github.com/clwei/goblog/routes"
	"github.com/clwei/goblog/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.UploadedImage{},
		&models.PostView{},
	)

	utils.StartViewPruner(db, time.Hour)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
