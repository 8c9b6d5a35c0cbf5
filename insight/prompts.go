package insight

import "fmt"

// Prompts pin the JSON schemas the structured parsers expect. Keep the
// field lists in sync with the types in types.go.

const analysisSystemPrompt = `You are a financial analyst. Analyze the given stock and respond with a JSON object with exactly these fields:
{"symbol": string, "summary": string, "signals": [string], "risk_level": "low"|"medium"|"high", "confidence": number between 0 and 1}
Base the analysis on widely known fundamentals and recent market behavior. Keep the summary under 100 words.`

func analysisUserPrompt(symbol, focus string) string {
	if focus != "" {
		return fmt.Sprintf("Analyze %s with a focus on %s.", symbol, focus)
	}
	return fmt.Sprintf("Analyze %s.", symbol)
}

const sentimentSystemPrompt = `You are a market sentiment analyst. Assess current sentiment for the given stock and respond with a JSON object with exactly these fields:
{"symbol": string, "score": number between -1 (bearish) and 1 (bullish), "label": "bearish"|"neutral"|"bullish", "rationale": string}
Keep the rationale under 50 words.`

func sentimentUserPrompt(symbol string) string {
	return fmt.Sprintf("What is the current market sentiment for %s?", symbol)
}

const marketSystemPrompt = `You are a market strategist. Summarize the current market environment and respond with a JSON object with exactly these fields:
{"themes": [string], "outlook": string, "confidence": number between 0 and 1}
List 3 to 5 themes. Keep the outlook under 80 words.`

func marketUserPrompt() string {
	return "What are the dominant market themes and the near-term outlook?"
}
