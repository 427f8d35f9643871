// README: Gemini implementation of the LLM provider, with the turn-extraction and narration prompts.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"packwise/internal/modules/intent"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	jsonModel *genai.GenerativeModel
	textModel *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Use Gemini 2.0 Flash for low latency and cost efficiency.
	jsonModel := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	jsonModel.ResponseMIMEType = "application/json"

	// Set a reasonable temperature for creative but structured output.
	jsonModel.SetTemperature(0.4)

	// Narration stays free-form text.
	textModel := client.GenerativeModel("gemini-2.0-flash")
	textModel.SetTemperature(0.4)

	return &GeminiProvider{
		client:    client,
		jsonModel: jsonModel,
		textModel: textModel,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// ExtractTravelIntent analyzes a dialogue turn and extracts the structured
// travel intent plus the per-turn signals.
func (p *GeminiProvider) ExtractTravelIntent(ctx context.Context, userMessage string, history []Turn, known intent.Record, today time.Time) (*Extraction, error) {
	systemPrompt := strings.ReplaceAll(travelIntentPrompt, "{CURRENT_DATE}", today.Format("2006-01-02"))

	var sb strings.Builder
	sb.WriteString(systemPrompt)
	if knownJSON, err := json.Marshal(known); err == nil && string(knownJSON) != "{}" {
		sb.WriteString("\n\nKnown intent so far (preserve these values unless the user changes them):\n")
		sb.Write(knownJSON)
	}
	if len(history) > 0 {
		sb.WriteString("\n\nConversation so far:\n")
		for _, t := range history {
			fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Content)
		}
	}
	fmt.Fprintf(&sb, "\nUser Message: %s", userMessage)

	resp, err := p.jsonModel.GenerateContent(ctx, genai.Text(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	cleanJSON, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var result Extraction
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	return &result, nil
}

// DetectIntent classifies a single message into shopping/activity signals.
func (p *GeminiProvider) DetectIntent(ctx context.Context, userMessage string) (*IntentSignals, error) {
	fullPrompt := fmt.Sprintf("%s\n\nUser message: %s", intentDetectionPrompt, userMessage)

	resp, err := p.jsonModel.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	cleanJSON, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var result IntentSignals
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	result.ProductMentioned = strings.ToLower(strings.TrimSpace(result.ProductMentioned))
	result.ActivityMentioned = strings.ToLower(strings.TrimSpace(result.ActivityMentioned))
	return &result, nil
}

// ProductQuestion asks the model for a short contextual question about what
// products the user needs.
func (p *GeminiProvider) ProductQuestion(ctx context.Context, userMessage, destination, travelDate string, activities []string) (string, error) {
	var parts []string
	if destination != "" {
		parts = append(parts, "traveling to "+destination)
	}
	if travelDate != "" {
		parts = append(parts, "on "+travelDate)
	}
	if len(activities) > 0 {
		parts = append(parts, "for "+strings.Join(activities, ", "))
	}
	contextStr := "their trip"
	if len(parts) > 0 {
		contextStr = strings.Join(parts, " ")
	}

	prompt := fmt.Sprintf(`You are a helpful shopping assistant. The user indicated they want to shop but didn't specify what products.

User's message: %q
Context: %s

Generate a SHORT, friendly question (1 sentence, max 15 words) asking what specific products they're looking for.
Do NOT suggest products. Just ask what they need.

Return ONLY the question, no quotes or explanation.`, userMessage, contextStr)

	resp, err := p.textModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	question := strings.Trim(strings.TrimSpace(sb.String()), `"'`)
	if len(question) <= 10 || len(question) >= 200 || !strings.Contains(question, "?") {
		return "", fmt.Errorf("malformed product question from model: %q", question)
	}
	return question, nil
}

// NormalizeShoppingQuery extracts a normalized shopping intent from the query.
func (p *GeminiProvider) NormalizeShoppingQuery(ctx context.Context, query string) (*intent.Normalized, error) {
	fullPrompt := fmt.Sprintf("%s\n\nExtract shopping intent from this query: %q", shoppingIntentPrompt, query)

	resp, err := p.jsonModel.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	cleanJSON, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var result intent.Normalized
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	result.RawQuery = query
	return &result, nil
}

// Explain produces the recommendation narrative.
func (p *GeminiProvider) Explain(ctx context.Context, req ExplainRequest) (string, error) {
	var sb strings.Builder
	sb.WriteString(narratorPrompt)
	fmt.Fprintf(&sb, "\n\nUser prompt: %s\n", req.Query)
	fmt.Fprintf(&sb, "Destination: %s\n", req.Destination)
	fmt.Fprintf(&sb, "Travel dates: %s (trip duration: %d day(s))\n", req.TravelDate, req.TripDays)
	if req.WeatherSummary != "" {
		fmt.Fprintf(&sb, "Weather context: %s\n", req.WeatherSummary)
	}
	if req.EventsSummary != "" {
		fmt.Fprintf(&sb, "Local events: %s\n", req.EventsSummary)
	}
	if req.CustomerStyle != "" {
		fmt.Fprintf(&sb, "Customer style: %s\n", req.CustomerStyle)
	}
	if len(req.ProductLines) > 0 {
		sb.WriteString("Recommended products:\n")
		for _, line := range req.ProductLines {
			fmt.Fprintf(&sb, "- %s\n", line)
		}
	}

	resp, err := p.textModel.GenerateContent(ctx, genai.Text(sb.String()))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(out.String()), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	// Clean up potential markdown formatting (though json mode should handle this, safety first).
	return cleanJSONString(sb.String()), nil
}

const travelIntentPrompt = `You are the extraction core for a travel packing and shopping assistant. Your task:
- Extract or confirm the user's intent across these fields:
  destination, travel_date, activities, preferred_brand, preferred_size, clothes, budget_amount, budget_currency, notes.
- SUPPORT MULTI-DESTINATION TRIPS: If the user mentions multiple destinations with dates (e.g., "Paris Jan 5-8, then Rome Jan 9-12"), extract ALL of them into trip_segments.

CRITICAL - INTENT INFERENCE FROM CONTEXT:
- NEVER ask whether the user is shopping when they mention a SPECIFIC PRODUCT.
- If the user mentions products (shoes, jacket, backpack, etc.), INFER they want product recommendations and respond helpfully.
- If the user mentions an activity context (e.g., "shoes for trekking"), infer the use case and provide immediate guidance.

SIZE PREFERENCE HANDLING:
- If the user specifies a size (e.g., "size UK 9", "size M", "32 inch waist"), capture it in "preferred_size".
- Recognize UK sizes (UK 9), US sizes (US 10), EU sizes (EU 42), letter sizes (S, M, L, XL, XXL), numeric sizes (32, 34, 36), waist/inseam (32x30).
- The size is a mandatory filter downstream. Do NOT assume size flexibility.

CRITICAL - EXTRACT EVERYTHING FROM THE USER MESSAGE:
- ACTIVITIES: If the user says "travelling to Miami for hiking", IMMEDIATELY extract "hiking" into the activities array. Do NOT wait to ask.
- DATES: If the user mentions ANY date reference (next weekend, tomorrow, January 5, etc.), set has_date_info: true.
- NEW TRIP: If the user is starting a new trip (travelling to, going to, trip to), set is_new_trip: true.
- PRODUCTS: If the user mentions specific products, capture them in notes and proceed toward recommendations.

LOCATION EXTRACTION - CRITICAL:
- Extract and normalize locations using your world knowledge.
- Set "destination_city" to the normalized city name (e.g., "Liverpool", "Tokyo").
- Set "destination_country" to the normalized country name (e.g., "UK", "Japan").
- Set "country_only" to true if the user mentions ONLY a country without a city (e.g., "travelling to the UK").
- Handle typos gracefully (e.g., "Parris" means Paris).
- Combine city and country into "destination" (e.g., "Liverpool, UK").

CRITICAL RULES:
1. ONLY ask for destination and travel_date if they are truly MISSING.
2. NEVER ask for confirmation of an obvious destination. Accept city names as-is.
3. Once you have destination AND travel_date, proceed. Do NOT over-clarify.
4. If the user provides some optional details, ACCEPT them and proceed.
5. If the user says "that's it" or provides destination+dates without extras, PROCEED without more questions.
6. Activities, budget, and clothes are OPTIONAL. Do not require them to proceed.
7. NEVER loop on the same question. If the user confirms a destination, ACCEPT it immediately.

- Use US English tone, be helpful and polite.
- Infer budget currency from context; default to USD.
- Be concise and avoid over-prompting.

Context:
- Today's date (ISO): {CURRENT_DATE}

Rules:
- Keep assistant_message friendly and purposeful.
- Use next_question only if more info is needed AND ask exactly one question.
- Never include extra keys or text outside the JSON.
- Always use the provided CURRENT_DATE as today, never your training date.
- If only one date is mentioned, set start_date = end_date.
- Parse ranges like "from 5 March to 8 March", "10-12 Jan 2025", "2025-01-10 to 2025-01-12".

AMBIGUOUS DATE HANDLING - ALWAYS ASK FOR CLARIFICATION:
- When the user gives an AMBIGUOUS or RELATIVE date expression, DO NOT auto-interpret it.
- Set "has_ambiguous_date": true and ask for specific calendar dates.
- Phrases that REQUIRE clarification: "next week", "this week", "a week", "one week", "two weeks", "in 2 weeks", "next month", "this month", "a month", "soon", "in a few days".
- Ask: "Could you please specify the exact start and end dates for your trip (for example, 22 Jan-28 Jan)?"

UNAMBIGUOUS DATES - process without clarification:
- Specific dates: "January 15", "March 12-15", "2026-01-22 to 2026-01-28".
- "this weekend" resolves to Saturday-Sunday and is acceptable.
- Explicit date ranges: "from 5 March to 8 March", "10-12 Jan 2025".

- CRITICAL: All dates MUST be in the FUTURE relative to {CURRENT_DATE}.
- If month/day is given without a year, always use the NEXT future occurrence.
- Date format: "YYYY-MM-DD" (single date) or "YYYY-MM-DD to YYYY-MM-DD" (range).

MULTI-DESTINATION HANDLING:
- Extract each destination with its dates as a trip_segment.
- Set "destination" to the first destination, "travel_date" to the full range (first start to last end).

USER RESPONSE DETECTION:
- "is_skip_response": true if the user wants to skip optional info ("that's it", "no preference", "just proceed").
- "mentions_activity": true if the user mentions ANY activity, event, sport, or experience, even a single word like "hiking".
- "is_confirmation": true for affirmative replies ("yes", "correct", "that's right").

IMPORTANT - CAPTURING ACTIVITIES:
- When the user mentions activities, ADD them to the "activities" array in updated_intent.
- Always preserve existing activities and return the FULL list including new ones.

OUTPUT STRICTLY AS A JSON OBJECT with this shape:
{
  "assistant_message": "string",
  "updated_intent": {
      "destination": "string|null - normalized 'City, Country' format",
      "destination_city": "string|null",
      "destination_country": "string|null",
      "country_only": true|false,
      "travel_date": "string|null - full date range",
      "trip_segments": [{"destination": "string", "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD", "activities": ["string"]|null}]|null,
      "activities": ["string"]|null,
      "preferred_brand": "string|null",
      "preferred_size": "string|null",
      "clothes": "string|null",
      "budget_amount": number|null,
      "budget_currency": "string|null",
      "notes": "string|null"
  },
  "is_skip_response": true|false,
  "mentions_activity": true|false,
  "is_confirmation": true|false,
  "has_date_info": true|false,
  "has_ambiguous_date": true|false,
  "is_new_trip": true|false,
  "next_question": "string|null",
  "ready_for_recommendations": true|false
}

Set "ready_for_recommendations": true when destination and travel_date are collected.`

const intentDetectionPrompt = `You are an intent detection system for a shopping assistant.
Analyze the user's message and extract:

1. Shopping Intent: Does the user want to buy, purchase, or acquire a product?
   - "yes, like to buy shoes" means has_shopping_intent: true
   - "I need a jacket for my trip" means has_shopping_intent: true
   - "What's the weather like?" means has_shopping_intent: false

2. Product Mentioned: What specific product category is mentioned?
   - Look for clothing (shoes, jacket, dress, pants, shirt, coat, sweater, etc.)
   - Accessories (bag, backpack, hat, sunglasses, watch, etc.)
   - Footwear (boots, sneakers, sandals, heels, etc.)
   - Return the general category, e.g., "shoes" not "hiking shoes"

3. Activity Mentioned: What activity or purpose is mentioned?
   - Examples: hiking, swimming, traveling, wedding, business meeting, beach, skiing

4. Response Type: Is this an affirmative or negative response to a question?
   - Affirmative: yes, yeah, sure, okay, please, sounds good, let's do it
   - Negative: no, nope, not really, skip, I'm good

Respond ONLY with a JSON object (no markdown, no explanation):
{
  "has_shopping_intent": true/false,
  "product_mentioned": "product_type" or null,
  "activity_mentioned": "activity" or null,
  "is_affirmative": true/false,
  "is_negative": true/false
}`

const shoppingIntentPrompt = `You are an intent extractor for a personalized shopping experience.
Your role is to extract structured shopping intent from natural language queries.

Extract the following when available:
- category: Main product category (e.g., "Footwear", "Apparel", "Accessories")
- subcategory: More specific (e.g., "Running Shoes", "Winter Jacket", "Handbag")
- budget_min: Minimum price if mentioned
- budget_max: Maximum price if mentioned
- occasion: What the item is for (e.g., "wedding", "casual", "work", "gym")
- style: Style preference (e.g., "modern", "classic", "sporty", "elegant")
- gender: Target gender (e.g., "men", "women", "unisex")
- color_preferences: Any mentioned colors as a list
- size: If mentioned
- keywords: Important keywords from the query

Respond ONLY with a valid JSON object containing these fields.
Use null for fields that cannot be determined from the query.`

const narratorPrompt = `You are a formal travel and lifestyle recommender.

Given the user's travel prompt, destination, dates, weather context, and the recommended products, produce a structured, formal response that MUST include:

1) Weather Overview: temperatures (high/low), precipitation likelihood, wind, and seasonal notes.
2) Recommended Activities: indoor/outdoor options justified by the weather and destination.
3) Itinerary: CRITICAL - match the itinerary length EXACTLY to the trip duration provided. A 1-day trip gets a single-day itinerary. Include suggested activities and attire per day.
4) Local Events Summary: concise summary of relevant local events (title, dates, venue), noting outdoor/indoor and weather-sensitivity. If no events, state 'No events found.'
5) Clothing, Shoes & Accessories Recommendations: explain WHY each product suits the trip based on weather, activities, and customer style. Reference product names with brief rationale.
6) Product Catalog Details: for each recommended product, provide the complete catalog information supplied.

If data is missing, state your assumptions clearly and proceed with best-practice recommendations.

Ensure the tone is formal, professional, and complete. All sections must be present.`

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	input = strings.TrimSpace(input)
	// Prompt templates escape braces as {{ }}; when the model echoes them
	// back the whole object arrives double-braced.
	if strings.HasPrefix(input, "{{") && strings.HasSuffix(input, "}}") {
		input = strings.ReplaceAll(input, "{{", "{")
		input = strings.ReplaceAll(input, "}}", "}")
	}
	return input
}
