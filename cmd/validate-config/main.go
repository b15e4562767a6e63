package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/reprocket/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	// Load .env if present
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration could not be loaded:\n%v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Configuration details:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Owner ID: %d\n", cfg.OwnerChatID)
	fmt.Printf("  - Gemini API Key: %s (model %s)\n", maskToken(cfg.GeminiAPIKey), cfg.GeminiModel)
	fmt.Printf("  - OpenAI API Key: %s (model %s)\n", maskToken(cfg.OpenAIAPIKey), cfg.OpenAIModel)
	fmt.Printf("  - Storage: %s (namespace %s)\n", cfg.StorageDriver, cfg.Namespace)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		fmt.Printf("  - DB: %s@%s:%s/%s\n", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName)
	case config.StorageRedis:
		fmt.Printf("  - Redis: %s (db %d)\n", cfg.Redis.Addr(), cfg.Redis.DB)
	default:
		fmt.Printf("  - Memory quota: %d bytes\n", cfg.MemoryQuotaBytes)
	}
	fmt.Printf("  - Timezone: %s\n", cfg.Location)
	fmt.Printf("  - Rest days excuse streak: %t\n", cfg.ExcusePreferredRestDays)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
