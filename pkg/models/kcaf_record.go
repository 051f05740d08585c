package models

import "time"

// KCAFApartment is one apartment inside an assessed building.
type KCAFApartment struct {
	OccupantActuel    string   `json:"occupant_actuel"`
	NomOccupant       string   `json:"nom_occupant,omitempty"`
	TelephoneOccupant string   `json:"telephone_occupant,omitempty"`
	MontantLoyer      *float64 `json:"montant_loyer,omitempty"`
	DeviseLoyer       string   `json:"devise_loyer,omitempty"`
	DateDebutContrat  string   `json:"date_debut_contrat,omitempty"`
	DateFinContrat    string   `json:"date_fin_contrat,omitempty"`
}

// KCAFRecord is a K-CAF property assessment for a cadastral parcel. At most
// one record exists per parcel number. Field vocabulary follows the K-CAF
// assessment form; the JSON tags are the record's wire shape.
type KCAFRecord struct {
	ID           int64  `json:"id"`
	ParcelNumber string `json:"parcel_number"`

	NaturePropriete string `json:"nature_propriete"`
	UsagePrincipal  string `json:"usage_principal"`

	NomProprietaire         string `json:"nom_proprietaire"`
	NationaliteProprietaire string `json:"nationalite_proprietaire"`
	TypePossession          string `json:"type_possession"`
	TelephoneProprietaire   string `json:"telephone_proprietaire,omitempty"`
	EtatCivilProprietaire   string `json:"etat_civil_proprietaire,omitempty"`
	SexeProprietaire        string `json:"sexe_proprietaire,omitempty"`

	AdresseVille    string `json:"adresse_ville"`
	AdresseCommune  string `json:"adresse_commune"`
	AdresseQuartier string `json:"adresse_quartier"`
	AdresseAvenue   string `json:"adresse_avenue"`
	AdresseNumero   string `json:"adresse_numero"`
	TypePersonne    string `json:"type_personne"`
	TypeBatiment    string `json:"type_batiment"`
	NombreEtages    string `json:"nombre_etages"`

	NombreAppartements      int             `json:"nombre_appartements"`
	NombreAppartementsVides int             `json:"nombre_appartements_vides"`
	AppartementsDetails     []KCAFApartment `json:"appartements_details,omitempty"`

	PlaqueIdentification bool            `json:"plaque_identification"`
	Raccordements        map[string]bool `json:"raccordements"`
	DistanceSante        string          `json:"distance_sante"`
	DistanceEducation    string          `json:"distance_education"`
	AccesEauPotable      map[string]bool `json:"acces_eau_potable"`
	GestionDechets       map[string]bool `json:"gestion_dechets"`
	PhotoURL             string          `json:"photo_url,omitempty"`

	MontantAPayer    float64   `json:"montant_a_payer"`
	Etat             string    `json:"etat"`
	NumeroCollecteur string    `json:"numero_collecteur"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
