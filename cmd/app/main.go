package main

import (
	"KTPExtractor/internal/config"
	"KTPExtractor/pkg/log"
	"KTPExtractor/pkg/ocr"
	"KTPExtractor/pkg/redis"
	websocketPkg "KTPExtractor/pkg/websocket"
	"github.com/joho/godotenv"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	envErr := godotenv.Load()
	logger := log.NewLogger()
	if envErr != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", envErr)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	var redisServer redis.IRedis
	if os.Getenv("REDIS_ADDRESS") != "" {
		redisServer = redis.New()
	}
	websocket := websocketPkg.NewAIWebSocketClient(logger)
	recognizers := ocr.NewRegistry(ocr.NewTesseract(), ocr.NewEasyOCR(websocket))

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithWebSocket(websocket),
		config.WithRecognizers(recognizers),
		config.WithPipelineConfig(config.NewPipelineConfig(logger)),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	server.Shutdown()
}
