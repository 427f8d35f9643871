// README: The turn-by-turn dialogue cascade that collects trip and shopping intent.
package clarifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"packwise/internal/ai"
	"packwise/internal/modules/intent"
	"packwise/pkg/logger"
)

// historyWindow is how many trailing conversation turns the extraction sees.
const historyWindow = 5

// Service runs one dialogue turn at a time. It asks the model to extract the
// turn's intent, merges it into the running record, and walks a fixed decision
// cascade to produce either a clarification question or the go-ahead.
type Service struct {
	llm   ai.LLMProvider
	vocab Vocabulary
	now   func() time.Time
}

func NewService(llm ai.LLMProvider) *Service {
	return NewServiceWithVocabulary(llm, DefaultVocabulary())
}

func NewServiceWithVocabulary(llm ai.LLMProvider, vocab Vocabulary) *Service {
	return &Service{llm: llm, vocab: vocab, now: time.Now}
}

// Analyze processes one user turn against the accumulated intent record.
//
// When the model's extraction cannot be obtained or parsed, the turn degrades
// gracefully: the intent is returned unchanged with an empty message and no
// error, so the conversation can continue.
func (s *Service) Analyze(ctx context.Context, query string, history []ai.Turn, existing intent.Record) (Result, error) {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	ex, err := s.llm.ExtractTravelIntent(ctx, query, history, existing, s.now())
	if err != nil {
		logx.Warn().Err(err).Msg("intent extraction failed, keeping prior intent")
		return Result{
			UpdatedIntent:    existing,
			AssistantMessage: "",
		}, nil
	}

	merged := intent.Merge(existing, ex.UpdatedIntent)

	changes := intent.DetectChanges(existing, merged)
	ack := changes.Acknowledgment()
	if changes.HasChanges {
		merged.ContextRefreshNeeded = true
		if changes.DestinationChanged {
			merged.ResetPreferenceFlags()
		}
	}
	if ex.IsNewTrip {
		merged.ResetPreferenceFlags()
	}

	// Ambiguous dates ("next week", "in 2 weeks") are clarified before any
	// auto-parsing; only concrete expressions get resolved to calendar dates.
	hasAmbiguous := DetectAmbiguousDate(query)
	hasSpecific := HasSpecificDate(query)
	if hasAmbiguous && !hasSpecific && !existing.AskedDateClarification && merged.TravelDate == "" {
		merged.AskedDateClarification = true
		dest := merged.Destination
		if dest == "" {
			dest = "your destination"
		}
		q := fmt.Sprintf("Could you please specify the exact start and end dates for your trip to %s? (for example, 22 Jan - 28 Jan)", dest)
		return clarify(q, ack, merged, changes), nil
	}
	if merged.TravelDate == "" && hasSpecific {
		if parsed := ParseRelativeDate(query, s.now()); parsed != "" {
			merged.TravelDate = parsed
			ex.HasDateInfo = true
		}
	}

	// A country without a city cannot drive weather or events lookups.
	countryOnly := ex.UpdatedIntent.CountryOnly != nil && *ex.UpdatedIntent.CountryOnly
	newCity := strValue(ex.UpdatedIntent.DestinationCity)
	newCountry := strValue(ex.UpdatedIntent.DestinationCountry)
	if countryOnly && newCountry != "" && newCity == "" && existing.Destination == "" {
		merged.PendingCountry = newCountry
		q := fmt.Sprintf("Which city are you travelling to in %s?", newCountry)
		return clarify(q, ack, merged, changes), nil
	}
	if newCity != "" && !strings.EqualFold(newCity, existing.Destination) && existing.Destination != "" {
		merged.AskedOptional = false
	}

	hasDestination := merged.Destination != ""
	isSkip := ex.IsSkipResponse
	mentionsActivity := ex.MentionsActivity || len(ex.UpdatedIntent.Activities) > 0

	for _, a := range s.vocab.extractActivities(query) {
		if merged.AddActivity(a) {
			mentionsActivity = true
		}
	}
	if b := s.vocab.extractBrand(query); b != "" && merged.PreferredBrand == "" {
		merged.PreferredBrand = b
	}
	hasBudgetOrBrand := merged.BudgetAmount > 0 || merged.PreferredBrand != ""
	hasDatesInfo := merged.HasDate() || ex.HasDateInfo

	// Shopping and activity signals for the turn. Skipped when the turn is
	// the answer to "what products would you like to buy?".
	var shoppingIntent bool
	var activity string
	var sig ai.IntentSignals
	if existing.AskedProductCategory && !existing.ProductCategoryReceived {
		merged.ProductCategoryReceived = true
		merged.ShoppingFlowComplete = true
		merged.AppendNote(query)
	} else {
		if detected, err := s.llm.DetectIntent(ctx, query); err == nil {
			sig = *detected
		} else {
			logx.Debug().Err(err).Msg("intent detection failed, keyword fallback only")
		}
		shoppingIntent = sig.HasShoppingIntent || s.vocab.detectShoppingIntent(query)
		switch {
		case sig.ActivityMentioned != "" && !isShoppingWord(sig.ActivityMentioned):
			activity = strings.ToLower(sig.ActivityMentioned)
		default:
			activity = s.vocab.detectNonShoppingActivity(query)
		}
	}

	// Reply to "Would you like to do shopping for <activity>?".
	if existing.AwaitingShoppingConfirm {
		product := sig.ProductMentioned
		if product == "" {
			product = s.vocab.detectProductMention(query)
		}
		affirmative := sig.IsAffirmative || s.vocab.isAffirmativeResponse(query)
		negative := sig.IsNegative || s.vocab.isNegativeResponse(query)

		switch {
		case affirmative || product != "":
			merged.AwaitingShoppingConfirm = false
			merged.AskedProductCategory = true
			if product != "" {
				merged.ProductCategoryReceived = true
				merged.ShoppingFlowComplete = true
				merged.AppendNote(product)
				activityName := existing.PendingActivity
				if activityName == "" {
					activityName = "your trip"
				}
				msg := fmt.Sprintf("Great! I'll find %s recommendations for %s.", product, activityName)
				return proceed(prefix(ack, msg), merged, changes), nil
			}
			q := "What kind of products or category of products would you like to buy?"
			return clarify(q, ack, merged, changes), nil
		case negative:
			merged.AwaitingShoppingConfirm = false
			merged.DeclinedShopping = true
			activityName := existing.PendingActivity
			if activityName == "" {
				activityName = "your activity"
			}
			tip := fmt.Sprintf("No problem! Here are some tips for %s: Make sure to check weather conditions, bring appropriate gear, and stay hydrated. Enjoy your trip!", activityName)
			return Result{
				AssistantMessage: prefix(ack, tip),
				UpdatedIntent:    merged,
				DetectedChanges:  changes,
			}, nil
		}
	}

	productMention := sig.ProductMentioned
	if productMention == "" {
		productMention = s.vocab.detectProductMention(query)
	}

	// Direct shopping intent: "I want to buy shoes for my trip".
	if shoppingIntent && !existing.AskedProductCategory {
		merged.AddActivity("shopping")
		merged.AskedProductCategory = true
		merged.AskedActivities = true
		if productMention != "" {
			// The product is already named; no question needed, fall through
			// so destination/date checks can still run.
			merged.ShoppingFlowComplete = true
			merged.AppendNote("Looking for " + productMention)
		} else {
			q := s.productQuestion(ctx, query, merged)
			return clarify(q, ack, merged, changes), nil
		}
	}

	// Pure activity mention: offer shopping for it once.
	if activity != "" && !shoppingIntent && !existing.AskedShoppingForActivity {
		merged.AddActivity(activity)
		merged.AskedShoppingForActivity = true
		merged.AwaitingShoppingConfirm = true
		merged.PendingActivity = activity
		merged.AskedActivities = true
		q := fmt.Sprintf("Would you like to do shopping for %s?", activity)
		return clarify(q, ack, merged, changes), nil
	}

	// A product mention outside the shopping flow still means shopping.
	if productMention != "" && !merged.ShoppingFlowComplete {
		shoppingIntent = true
		merged.ShoppingFlowComplete = true
		if !strings.Contains(merged.Notes, productMention) {
			merged.AppendNote("Looking for " + productMention)
		}
	}

	// Neither shopping nor an activity: ask which it is, once, and only when
	// there is no other context to go on.
	if !shoppingIntent && activity == "" && !existing.AskedAmbiguousIntent {
		hasAnyContext := hasDestination || len(merged.Activities) > 0 ||
			existing.AskedActivities || existing.ShoppingFlowComplete ||
			existing.DeclinedShopping || isSkip || ex.IsConfirmation ||
			productMention != ""
		if !hasAnyContext && len(strings.TrimSpace(query)) > 3 {
			merged.AskedAmbiguousIntent = true
			q := "Are you looking to buy something, or are you asking about an activity?"
			return clarify(q, ack, merged, changes), nil
		}
	}

	if hasDestination && !hasDatesInfo {
		q := fmt.Sprintf("When are you planning to travel to %s? (e.g., 'next weekend', 'January 15-20', or specific dates)", merged.Destination)
		return clarify(q, ack, merged, changes), nil
	}

	alreadyAskedActivities := merged.AskedActivities
	alreadyAskedOptional := merged.AskedOptional
	shoppingDone := merged.ShoppingFlowComplete || merged.DeclinedShopping

	if hasDestination && hasDatesInfo && !alreadyAskedActivities && !shoppingDone {
		merged.AskedActivities = true
		if !s.hasSpecificActivities(merged.Activities) {
			q := "What kind of activities are you planning for this trip? (e.g., hiking, shopping, dining)"
			return clarify(q, ack, merged, changes), nil
		}
	}

	if hasDestination && hasDatesInfo && merged.AskedActivities && !alreadyAskedOptional {
		merged.AskedOptional = true
		if !hasBudgetOrBrand {
			q := fmt.Sprintf("Great! Your trip to %s is confirmed. Do you have any preferences for budget or favorite brands? (This is optional - feel free to skip!)", destinationList(merged))
			return clarify(q, ack, merged, changes), nil
		}
	}

	if alreadyAskedOptional && alreadyAskedActivities {
		if isSkip || hasBudgetOrBrand || mentionsActivity || hasDatesInfo {
			return proceed(readyMessage(ack), merged, changes), nil
		}
	}

	if !hasDestination {
		q := "Where would you like to travel?"
		if ex.NextQuestion != nil && *ex.NextQuestion != "" {
			q = *ex.NextQuestion
		}
		return clarify(q, ack, merged, changes), nil
	}

	return proceed(readyMessage(ack), merged, changes), nil
}

func (s *Service) productQuestion(ctx context.Context, query string, rec intent.Record) string {
	q, err := s.llm.ProductQuestion(ctx, query, rec.Destination, rec.TravelDate, rec.Activities)
	if err == nil && q != "" {
		return q
	}
	if rec.Destination != "" {
		return fmt.Sprintf("What products are you looking for for %s?", rec.Destination)
	}
	return "What products are you looking for?"
}

func clarify(question, ack string, merged intent.Record, changes intent.ChangeSet) Result {
	return Result{
		NeedsClarification:    true,
		ClarificationQuestion: question,
		AssistantMessage:      prefix(ack, question),
		UpdatedIntent:         merged,
		DetectedChanges:       changes,
	}
}

func proceed(message string, merged intent.Record, changes intent.ChangeSet) Result {
	return Result{
		AssistantMessage:        message,
		UpdatedIntent:           merged,
		ReadyForRecommendations: true,
		DetectedChanges:         changes,
	}
}

func readyMessage(ack string) string {
	if ack != "" {
		return ack + "Let me update your recommendations."
	}
	return "Perfect! Let me prepare your personalized recommendations."
}

func prefix(ack, msg string) string {
	if ack != "" {
		return ack + msg
	}
	return msg
}

func (s *Service) hasSpecificActivities(activities []string) bool {
	for _, a := range activities {
		if !s.vocab.isGenericTravelWord(a) {
			return true
		}
	}
	return false
}

func destinationList(rec intent.Record) string {
	var dests []string
	for _, seg := range rec.TripSegments {
		if seg.Destination != "" {
			dests = append(dests, seg.Destination)
		}
	}
	if len(dests) == 0 && rec.Destination != "" {
		dests = []string{rec.Destination}
	}
	if len(dests) == 0 {
		return "your destinations"
	}
	return strings.Join(dests, " and ")
}

func isShoppingWord(w string) bool {
	switch strings.ToLower(w) {
	case "shopping", "buying", "purchasing":
		return true
	}
	return false
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
