package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Commune identifies the single commune covered by the datasets
const (
	CommuneName = "Chambray-lès-Tours"
	CommuneCode = "37050"
)

// DataDir is the base directory for all input files
var DataDir string

// OutputDir receives the CSV, PDF and map exports
var OutputDir string

// AssetsDir holds optional presentation assets such as the logo
var AssetsDir string

// DataFiles lists the input and output file names
type DataFiles struct {
	Demographics   string   `json:"demographics"`
	Income         string   `json:"income"`
	Mobility       string   `json:"mobility"`
	Crosswalk      string   `json:"crosswalk"`
	Stations       string   `json:"stations"`
	Boundaries     []string `json:"boundaries"`
	Logo           string   `json:"logo"`
	Shortlist      string   `json:"shortlist"`
	FullExport     string   `json:"full_export"`
	MapGeoJSON     string   `json:"map_geojson"`
	MapSVG         string   `json:"map_svg"`
	BriefingPrefix string   `json:"briefing_prefix"`
}

var dataFiles DataFiles

func init() {
	// A missing .env file is the normal case
	_ = godotenv.Load()

	Reload()
}

// Reload re-reads the environment and config.json. It is called once at
// startup and by tests that change the environment.
func Reload() {
	DataDir = envOr("DATA_DIR", filepath.Join(".", "data"))
	OutputDir = envOr("OUTPUT_DIR", filepath.Join(".", "outputs"))
	AssetsDir = envOr("ASSETS_DIR", filepath.Join(".", "assets"))

	// Default paths
	dataFiles = DefaultDataFiles()

	// Try to load config from file
	configPath := envOr("CONFIG_FILE", "config.json")
	if configFile, err := os.Open(configPath); err == nil {
		defer configFile.Close()
		json.NewDecoder(configFile).Decode(&dataFiles)
	}
}

// DefaultDataFiles returns the file names used when no config.json overrides them
func DefaultDataFiles() DataFiles {
	return DataFiles{
		Demographics:   "insee_rp_iris_" + CommuneCode + ".csv",
		Income:         "filosofi_iris_" + CommuneCode + ".csv",
		Mobility:       "mobilites_iris_" + CommuneCode + ".csv",
		Crosswalk:      "cross_bv_iris_" + CommuneCode + ".csv",
		Stations:       "muni2020_bv_" + CommuneCode + ".csv",
		Boundaries:     []string{"iris_" + CommuneCode + ".geojson", "iris_" + CommuneCode + "_demo.geojson"},
		Logo:           "logo.png",
		Shortlist:      "shortlist_iris.csv",
		FullExport:     "ciblage_iris.csv",
		MapGeoJSON:     "carte_spt.geojson",
		MapSVG:         "carte_spt.svg",
		BriefingPrefix: "fiche_",
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetDataFilePath returns the path for a data file
func GetDataFilePath(filename string) string {
	return filepath.Join(DataDir, filename)
}

// GetOutputFilePath returns the path for an output file
func GetOutputFilePath(filename string) string {
	return filepath.Join(OutputDir, filename)
}

// GetAssetFilePath returns the path for an asset file
func GetAssetFilePath(filename string) string {
	return filepath.Join(AssetsDir, filename)
}

// GetDataFiles returns the file configuration
func GetDataFiles() DataFiles {
	return dataFiles
}
