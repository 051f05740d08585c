package services

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/llm"
	"github.com/kodinet/kodibot-engine/pkg/models"
	"github.com/kodinet/kodibot-engine/pkg/prompts"
)

// Classification call parameters. Temperature stays at zero so identical
// utterances classify identically.
const (
	classifyTemperature = 0.0
	classifyMaxTokens   = 100
)

var (
	citizenIDPattern = regexp.MustCompile(`\b(CIT\d{8,10}|\d{8,10})\b`)
	parcelIDPattern  = regexp.MustCompile(`\bP-[A-Za-z0-9]+\b`)

	procedureKeywords = []string{"permis", "passeport", "carte", "certificat", "renouveler", "demande"}
)

// Keyword tables for the rule-based path, in fixed priority order. The
// first table with a matching phrase wins; a multi-family utterance
// resolves to the highest-priority family.
var ruleTables = []struct {
	intent     models.Intent
	confidence float64
	patterns   []string
}{
	{models.IntentGreeting, 0.9, []string{"bonjour", "salut", "hello", "bonsoir", "comment allez-vous"}},
	{models.IntentGoodbye, 0.9, []string{"au revoir", "à bientôt", "merci beaucoup", "bonne journée", "bye"}},
	{models.IntentProfile, 0.8, []string{"mon nom", "mon adresse", "ma date", "mes informations", "profil"}},
	{models.IntentTaxInfo, 0.8, []string{"taxe", "impôt", "solde", "montant dû", "paiement", "fiscal"}},
	{models.IntentParcels, 0.8, []string{"parcelle", "bien", "propriété", "terrain", "cadastr"}},
	{models.IntentProcedures, 0.8, []string{"permis", "passeport", "carte", "certificat", "renouveler", "procédure"}},
	{models.IntentLinking, 0.8, []string{"lier", "liaison", "connecter", "associer", "numéro de citoyen"}},
}

// ruleFallbackConfidence applies when no keyword table matches. It sits
// above the orchestrator's confidence gate on purpose: an unmatched
// utterance must reach the fallback menu, not be double-gated into it.
const ruleFallbackConfidence = 0.7

// IntentClassifier maps an utterance to an intent, confidence and extracted
// slots. Classification never fails: when the model is unreachable the
// rule-based path answers instead.
type IntentClassifier interface {
	Classify(ctx context.Context, message string) *models.ClassificationResult
}

type intentClassifier struct {
	llm    llm.CompletionClient
	logger *zap.Logger
}

// NewIntentClassifier creates a new IntentClassifier.
func NewIntentClassifier(client llm.CompletionClient, logger *zap.Logger) IntentClassifier {
	return &intentClassifier{
		llm:    client,
		logger: logger.Named("classifier"),
	}
}

var _ IntentClassifier = (*intentClassifier)(nil)

// llmIntentPayload is the strict JSON shape the classification prompt
// demands from the model.
type llmIntentPayload struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Slots      map[string]string `json:"slots"`
}

// extractSlots runs the deterministic slot regexes over the raw utterance.
func extractSlots(message string) map[string]string {
	slots := make(map[string]string)

	if m := citizenIDPattern.FindStringSubmatch(message); m != nil {
		slots[models.SlotCitizenID] = m[1]
	}
	if m := parcelIDPattern.FindString(message); m != "" {
		slots[models.SlotParcelID] = m
	}

	lower := strings.ToLower(message)
	for _, kw := range procedureKeywords {
		if strings.Contains(lower, kw) {
			slots[models.SlotProcedureName] = kw
			break
		}
	}

	return slots
}

func (c *intentClassifier) Classify(ctx context.Context, message string) *models.ClassificationResult {
	ruleSlots := extractSlots(message)

	raw, err := c.llm.Complete(ctx, prompts.IntentSystemPrompt, prompts.BuildIntentPrompt(message), classifyTemperature, classifyMaxTokens)
	if err != nil {
		c.logger.Warn("model classification unavailable, using rules",
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return c.classifyWithRules(message, ruleSlots)
	}

	payload, err := llm.ParseJSONResponse[llmIntentPayload](raw)
	if err != nil {
		c.logger.Warn("unparseable classification response, using rules", zap.Error(err))
		return c.classifyWithRules(message, ruleSlots)
	}

	intent, known := models.ParseIntent(payload.Intent)
	if !known {
		c.logger.Debug("unknown intent label coerced to fallback", zap.String("label", payload.Intent))
	}

	slots := payload.Slots
	if slots == nil {
		slots = make(map[string]string)
	}
	// Regex slots fill gaps but never override what the model extracted.
	for k, v := range ruleSlots {
		if _, ok := slots[k]; !ok {
			slots[k] = v
		}
	}

	return &models.ClassificationResult{
		Intent:     intent,
		Confidence: payload.Confidence,
		Slots:      slots,
	}
}

// classifyWithRules is the deterministic keyword path.
func (c *intentClassifier) classifyWithRules(message string, slots map[string]string) *models.ClassificationResult {
	lower := strings.ToLower(message)

	for _, table := range ruleTables {
		for _, pattern := range table.patterns {
			if strings.Contains(lower, pattern) {
				return &models.ClassificationResult{
					Intent:     table.intent,
					Confidence: table.confidence,
					Slots:      slots,
				}
			}
		}
	}

	return &models.ClassificationResult{
		Intent:     models.IntentFallback,
		Confidence: ruleFallbackConfidence,
		Slots:      slots,
	}
}
