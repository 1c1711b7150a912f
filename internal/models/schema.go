package models

// Key columns shared by the datasets
const (
	ColUnitID     = "code_iris"
	ColStationID  = "code_bv"
	ColProportion = "proportion"
)

// Station result columns
const (
	ColRegistered = "inscrits"
	ColVoted      = "votants"
	ColBlank      = "blancs"
	ColNull       = "nuls"
	ColCast       = "exprimes"
)

// Derived unit columns
const (
	ColParticipation = "participation_2020"
	ColAbstention    = "abstention_2020"
	ColScore         = "SPT"
)

// StationLists are the per-list vote columns of the 2020 results.
var StationLists = []string{"liste_A", "liste_B", "liste_C"}

// DemographicColumns is the expected schema of the INSEE RP extract
var DemographicColumns = []string{
	ColUnitID,
	"pop",
	"age_median",
	"moins18",
	"plus65",
	"menages",
	"locataires",
	"proprietaires",
	"diplome_bacplus",
	"chomage",
	"pcs_ouvriers",
	"pcs_cadres",
}

// IncomeColumns is the expected schema of the Filosofi extract
var IncomeColumns = []string{ColUnitID, "revenu_median", "part_bas_revenus", "part_haut_revenus"}

// MobilityColumns is the expected schema of the mobility extract
var MobilityColumns = []string{ColUnitID, "temps_travail_moy", "part_voiture", "part_tc", "part_velo", "part_marche"}

// CrosswalkColumns is the expected schema of the BV to IRIS crosswalk
var CrosswalkColumns = []string{ColStationID, ColUnitID, ColProportion}

// StationColumns is the expected schema of the 2020 results by station
var StationColumns = append([]string{ColStationID, ColRegistered, ColVoted, ColBlank, ColNull, ColCast}, StationLists...)
