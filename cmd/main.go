package main

import (
	"os"

	"github.com/walpass/health-tracker-app/config"
	"github.com/walpass/health-tracker-app/routes"
	"github.com/walpass/health-tracker-app/utils"
)

func main() {
	config.InitLogger()
	config.InitDB()
	utils.InitS3()
	utils.InitMailer()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	if err := r.Run(":" + port); err != nil {
		config.Log.Fatal().Err(err).Msg("server stopped")
	}
}
