package main

import (
	"flag"
	"os"

	"github.com/blogsphere/blogsphere/filestore"
	"github.com/blogsphere/blogsphere/mailer"
	"github.com/blogsphere/blogsphere/server"
	"github.com/blogsphere/blogsphere/server/middlewares"
	. "github.com/blogsphere/blogsphere/utils"
	"github.com/blogsphere/blogsphere/utils/dotenv"
	. "github.com/blogsphere/blogsphere/utils/flag"
	. "github.com/blogsphere/blogsphere/utils/log"
)

func main() {
	flag.Parse()
	// Re-init so log fields pick up the parsed service name.
	InitLogger()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	if ByPassAuth {
		// Development mode: accept unsigned uid|email|name tokens.
		middlewares.SetVerifier(middlewares.FakeVerifier{})
	} else {
		middlewares.Setup()
	}

	db, err := GetDBConnection()
	if err != nil {
		Log.Fatalf("fail to connect to database: %s", err.Error())
	}
	DatabaseSetupAndMigration(db)

	smtpMailer, err := mailer.NewSMTPMailerFromEnv()
	if err != nil {
		Log.Fatalf("fail to configure mailer: %s", err.Error())
	}
	images, err := filestore.NewS3FileStoreFromEnv()
	if err != nil {
		Log.Fatalf("fail to configure file store: %s", err.Error())
	}

	router := server.NewRouter(db, smtpMailer, images)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	Log.Info("api server starts up")
	router.Run(":" + port)
}
