package main

import (
	"context"
	"flag"
	"fmt"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/services/shared/jwtmanager"
	"os"

	"go.uber.org/zap"
)

// Issues a bearer token for calling the API, e.g. go run ./cmd/token -subject pacs-gateway
func main() {
	subject := flag.String("subject", "", "subject the token is issued to")
	flag.Parse()

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	jwtManager, err := jwtmanager.NewJWTManager(config.NewInternalConfig(), log)
	if err != nil {
		log.Fatal("Error creating jwt manager", zap.Error(err))
	}

	token, err := jwtManager.CreateToken(context.Background(), *subject)
	if err != nil {
		log.Fatal("Error creating token", zap.Error(err))
	}
	fmt.Println(token)
}
