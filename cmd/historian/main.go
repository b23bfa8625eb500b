// cmd/historian/main.go runs the archive drain as a standalone process.
package main

import (
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/Subas2/SIANG-TAMBOLA/internal/historian"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	svc := historian.New(logger)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		svc.Stop()
	}()

	svc.Run()
}
