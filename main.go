package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// defaultLLMBaseURL is the hosted chat-completions gateway used when
// LLM_BASE_URL is unset.
const defaultLLMBaseURL = "https://oversteadily-unengendered-bonny.ngrok-free.dev"

// getEnv returns the value of key, or fallback when it is unset or empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.SetPrefix("lg/athlete-macro-api: ")
	log.SetFlags(0)

	// A missing .env is fine in deployed environments where vars are injected.
	if err := godotenv.Load(); err != nil {
		log.Printf("[main] no .env loaded: %v", err)
	}

	h := &Handler{
		db:         getDBPool(),
		llmBaseURL: getEnv("LLM_BASE_URL", defaultLLMBaseURL),
		llmModel:   getEnv("LLM_MODEL", "local-model"),
	}
	defer h.db.Close()

	fmt.Println("Starting gin app...")

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	addr := ":" + getEnv("PORT", "3000")
	if err := router.Run(addr); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
