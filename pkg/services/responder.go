// Package services contains the kodibot business logic: identity linking,
// citizen data retrieval, intent classification and the conversation
// pipeline.
package services

import (
	"math/rand"
	"sync"
	"time"
)

// Canned French texts returned without going through the model.
const (
	// MsgLinkingRequired is sent to an unlinked phone for any message that is
	// neither a citizen ID nor a verification code.
	MsgLinkingRequired = "Bienvenue sur KodiBOT! 📋 Pour accéder à vos informations, veuillez lier votre téléphone en tapant votre numéro de citoyen (format: CIT123456789)."

	// MsgFallbackMenu is sent when classification confidence is below the
	// gate or the intent is fallback.
	MsgFallbackMenu = `Je ne comprends pas bien votre demande.
Voici ce que je peux vous aider à faire:

📊 **Informations fiscales**: "Quel est mon solde de taxe?"
👤 **Profil personnel**: "Quelle est mon adresse?"
🏠 **Biens cadastraux**: "Mes parcelles"
📋 **Procédures**: "Comment renouveler mon permis?"

Reformulez votre question ou choisissez une option ci-dessus.`

	// MsgDataUnavailable covers a data intent whose lookup came back empty.
	MsgDataUnavailable = "Désolé, je n'ai pas pu récupérer ces informations pour le moment."

	// MsgGenericError is the only text ever sent for an internal failure.
	MsgGenericError = "Une erreur s'est produite. Veuillez réessayer."

	// MsgOrphanedLink is sent when a linked phone resolves to no citizen row.
	MsgOrphanedLink = "Erreur: Utilisateur lié mais citoyen non trouvé"

	// MsgSystemUnavailable is sent when the model provider reports an
	// exhausted quota.
	MsgSystemUnavailable = `🔧 **KodiBOT est temporairement indisponible**

Notre service IA est actuellement en maintenance pour cause de limite d'utilisation atteinte.

🕐 **Veuillez réessayer dans quelques minutes**

En attendant, vous pouvez :
• Contacter directement les services fiscaux
• Visiter un centre DGI/DGRAD local
• Revenir plus tard sur la plateforme Kodinet

Merci de votre compréhension ! 🙏`

	// MsgTechnicalError is sent for any other model provider failure.
	MsgTechnicalError = `❌ **Erreur technique temporaire**

Désolé, une erreur technique s'est produite.

🔄 **Veuillez réessayer dans quelques instants**

Si le problème persiste, contactez l'assistance technique.`
)

// Linking flow texts.
const (
	MsgCitizenNotFound   = "Numéro de citoyen non trouvé"
	MsgOTPSentFmt        = "Code OTP généré: %s. (En production, ce code sera envoyé par SMS)"
	MsgNoPendingLink     = "Aucune demande de liaison trouvée"
	MsgOTPExpired        = "Code OTP expiré"
	MsgOTPMismatch       = "Code OTP incorrect"
	MsgLinkingSucceeded  = "Liaison réussie!"
	MsgLinkingFailed     = "Erreur lors de la liaison du compte"
	MsgVerificationError = "Erreur lors de la vérification OTP"
	MsgOTPSentOutFmt     = "Code OTP envoyé! Veuillez entrer le code reçu par SMS. (Test: %s)"
	MsgVerifiedSuffix    = " Vous pouvez maintenant poser vos questions!"
)

var greetingResponses = []string{
	"Bonjour et bienvenue sur KodiBOT! 🇨🇩 Je suis votre assistant pour les services gouvernementaux de la RDC. Comment puis-je vous aider?",
	"Salut! Ici KodiBOT, votre assistant numérique pour la fiscalité et les démarches administratives en RDC. Que puis-je faire pour vous?",
	"Bienvenue! KodiBOT à votre service pour tous vos besoins liés aux taxes, parcelles et procédures gouvernementales.",
	"Bonjour! Je suis KodiBOT, spécialisé dans l'assistance fiscale DGI/DGRAD. Comment puis-je vous accompagner aujourd'hui?",
	"Bienvenue ! Ici Kodibot, votre assistant dédié à la fiscalité sur la plateforme Kodinet.",
}

var goodbyeResponses = []string{
	"Merci d'avoir utilisé KodiBOT! 🙏 N'hésitez pas à revenir pour vos questions fiscales et administratives.",
	"Au revoir! KodiBOT reste disponible 24/7 pour vous accompagner dans vos démarches gouvernementales.",
	"Bonne journée! Merci de faire confiance à KodiBOT pour vos services citoyens en RDC.",
	"À bientôt sur KodiBOT! Votre assistant numérique pour la République Démocratique du Congo.",
	"Merci pour votre confiance. Kodibot vous dit à la prochaine sur la plateforme Kodinet.",
}

// Responder picks canned greeting and goodbye texts. Safe for concurrent use.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder creates a Responder with a time-seeded source.
func NewResponder() *Responder {
	return &Responder{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (r *Responder) pick(pool []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return pool[r.rng.Intn(len(pool))]
}

// Greeting returns one of the greeting texts.
func (r *Responder) Greeting() string {
	return r.pick(greetingResponses)
}

// Goodbye returns one of the farewell texts.
func (r *Responder) Goodbye() string {
	return r.pick(goodbyeResponses)
}
