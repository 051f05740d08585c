package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kodinet/kodibot-engine/pkg/models"
)

func TestBuildContextualizedPromptDeterministic(t *testing.T) {
	first := BuildContextualizedPrompt("Patrick Daudi", "CIT842616809", `{"solde":100000}`)
	second := BuildContextualizedPrompt("Patrick Daudi", "CIT842616809", `{"solde":100000}`)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Patrick Daudi")
	assert.Contains(t, first, "CIT842616809")
	assert.Contains(t, first, `{"solde":100000}`)
	assert.True(t, strings.HasPrefix(first, MainSystemPrompt))
}

func TestBuildContextualizedPromptEmptyContext(t *testing.T) {
	prompt := BuildContextualizedPrompt("Heri Mujyambere", "CIT070624910", "")
	assert.Contains(t, prompt, "Aucune donnée spécifique")

	prompt = BuildContextualizedPrompt("Heri Mujyambere", "CIT070624910", "   \n")
	assert.Contains(t, prompt, "Aucune donnée spécifique")
}

func TestBuildIntentPromptListsAllIntents(t *testing.T) {
	prompt := BuildIntentPrompt("Quel est mon solde de taxe?")

	for _, it := range models.AllIntents {
		assert.Contains(t, prompt, string(it))
	}
	assert.Contains(t, prompt, "Quel est mon solde de taxe?")
	assert.Contains(t, prompt, "JSON EXACT")
}
