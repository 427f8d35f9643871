// README: Interactive terminal demo for the clarification dialogue.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"packwise/internal/ai"
	"packwise/internal/modules/clarifier"
	"packwise/internal/modules/intent"
	"packwise/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logx.Init()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logx.Fatal().Msg("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	llm, err := ai.NewGeminiProvider(ctx, apiKey)
	if err != nil {
		logx.Fatal().Err(err).Msg("gemini init failed")
	}
	defer llm.Close()

	svc := clarifier.NewService(llm)

	var rec intent.Record
	var history []ai.Turn

	fmt.Println("Travel shopping assistant. Tell me about your trip (Ctrl-D to quit).")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		msg := strings.TrimSpace(scanner.Text())
		if msg == "" {
			continue
		}

		result, err := svc.Analyze(ctx, msg, history, rec)
		if err != nil {
			logx.Error().Err(err).Msg("turn failed")
			continue
		}
		rec = result.UpdatedIntent
		history = append(history,
			ai.Turn{Role: "user", Content: msg},
			ai.Turn{Role: "assistant", Content: result.AssistantMessage},
		)

		fmt.Println(result.AssistantMessage)
		if result.ReadyForRecommendations {
			fmt.Printf("\n[ready] destination=%s dates=%s activities=%v brand=%s budget=%.0f\n",
				rec.Destination, rec.TravelDate, rec.Activities, rec.PreferredBrand, rec.BudgetAmount)
		}
	}
}
