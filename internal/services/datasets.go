package services

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"csv-processor/internal/logging"
	"csv-processor/internal/models"
)

// LoadUnits loads a dataset keyed by code_iris and decodes it into units.
// columns must start with code_iris; every other column must be a unit field.
// Rows without a key are dropped and duplicate keys keep their first row.
func (l *Loader) LoadUnits(name string, columns []string) ([]*models.Unit, []string, error) {
	table, err := l.Load(name, columns)
	if err != nil {
		return nil, nil, err
	}

	fields := make([]models.UnitField, len(table.Columns))
	for i, col := range table.Columns {
		if col == models.ColUnitID {
			continue
		}
		f, ok := models.UnitFieldByColumn(col)
		if !ok {
			return nil, nil, fmt.Errorf("dataset %s: column %q is not a unit field", name, col)
		}
		fields[i] = f
	}

	var warnings []string
	units := make([]*models.Unit, 0, table.Len())
	seen := make(map[string]bool, table.Len())
	for r := range table.Rows {
		id := normalizeKey(table.Get(r, models.ColUnitID))
		if id == "" {
			continue
		}
		if seen[id] {
			warnings = append(warnings, l.duplicateKey(name, id))
			continue
		}
		seen[id] = true

		unit := &models.Unit{ID: id}
		for i, cell := range table.Rows[r] {
			if fields[i].Ref == nil {
				continue
			}
			*fields[i].Ref(unit) = parseNumber(cell)
		}
		units = append(units, unit)
	}
	return units, warnings, nil
}

// LoadCrosswalk loads the station to unit proportions. Every row is kept,
// a station or a unit may appear several times.
func (l *Loader) LoadCrosswalk(name string) ([]models.CrosswalkLink, error) {
	table, err := l.Load(name, models.CrosswalkColumns)
	if err != nil {
		return nil, err
	}

	links := make([]models.CrosswalkLink, 0, table.Len())
	for r := range table.Rows {
		stationID := normalizeKey(table.Get(r, models.ColStationID))
		unitID := normalizeKey(table.Get(r, models.ColUnitID))
		if stationID == "" || unitID == "" {
			continue
		}
		links = append(links, models.CrosswalkLink{
			StationID:  stationID,
			UnitID:     unitID,
			Proportion: parseNumber(table.Get(r, models.ColProportion)),
		})
	}
	return links, nil
}

// LoadStations loads the 2020 results by voting station
func (l *Loader) LoadStations(name string) ([]*models.Station, []string, error) {
	table, err := l.Load(name, models.StationColumns)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	stations := make([]*models.Station, 0, table.Len())
	seen := make(map[string]bool, table.Len())
	for r := range table.Rows {
		id := normalizeKey(table.Get(r, models.ColStationID))
		if id == "" {
			continue
		}
		if seen[id] {
			warnings = append(warnings, l.duplicateKey(name, id))
			continue
		}
		seen[id] = true

		station := &models.Station{
			ID:         id,
			Registered: parseNumber(table.Get(r, models.ColRegistered)),
			Voted:      parseNumber(table.Get(r, models.ColVoted)),
			Blank:      parseNumber(table.Get(r, models.ColBlank)),
			Null:       parseNumber(table.Get(r, models.ColNull)),
			Cast:       parseNumber(table.Get(r, models.ColCast)),
			Lists:      make([]models.ListResult, 0, len(models.StationLists)),
		}
		for _, list := range models.StationLists {
			station.Lists = append(station.Lists, models.ListResult{
				List:  list,
				Votes: parseNumber(table.Get(r, list)),
			})
		}
		stations = append(stations, station)
	}
	return stations, warnings, nil
}

func (l *Loader) duplicateKey(dataset, key string) string {
	logging.LogWarning(l.logger, "duplicate key ignored",
		slog.String("dataset", dataset),
		slog.String("key", key),
		slog.String("component", "loader"))
	return fmt.Sprintf("%s: duplicate key %s ignored", dataset, key)
}

// normalizeKey trims a code and drops a spurious ".0" left by spreadsheet
// exports of numeric codes.
func normalizeKey(c models.Cell) string {
	if !c.Valid {
		return ""
	}
	key := strings.TrimSpace(c.Value)
	if trimmed, ok := strings.CutSuffix(key, ".0"); ok && trimmed != "" && isDigits(trimmed) {
		return trimmed
	}
	return key
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseNumber coerces a cell to a number; anything unparseable is null.
// French formatted values ("1 234,5") are accepted.
func parseNumber(c models.Cell) models.NullFloat {
	if !c.Valid {
		return models.Null()
	}
	s := strings.TrimSpace(c.Value)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return models.Float(v)
	}

	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return models.Float(v)
	}
	return models.Null()
}
