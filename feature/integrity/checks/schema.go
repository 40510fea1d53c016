package checks

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"pmteambuilder/core/database"
	"pmteambuilder/feature/pokedex/models"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the live database to the models.
type SchemaReport struct {
	Dialect string                 `json:"dialect"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	// PrimaryKey is set when the live key differs from the model's.
	PrimaryKey []string `json:"primary_key,omitempty"`
	Status     string   `json:"status"` // "ok", "missing", "error"
}

// typeAliases lists the names other dialects report for a declared type.
var typeAliases = map[string][]string{
	"varchar": {"varchar", "character varying"},
	"text":    {"text", "longtext", "mediumtext"},
}

// CheckSchema verifies every reference table against its model's gorm tags.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Dialect: db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, m := range models.All() {
		tabler, ok := m.(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %T does not implement TableName", m)
		}
		table := tabler.TableName()

		actual, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tbl := checkTable(reflect.TypeOf(m).Elem(), actual)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

func checkTable(model reflect.Type, actual []database.ColumnInfo) TableReport {
	tbl := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}
	// Dialects report an absent table as zero columns
	if len(actual) == 0 {
		tbl.Status = "missing"
		return tbl
	}

	byName := make(map[string]database.ColumnInfo, len(actual))
	for _, col := range actual {
		byName[col.Field] = col
	}

	var wantPK []string
	for i := 0; i < model.NumField(); i++ {
		tag := model.Field(i).Tag.Get("gorm")
		col := parseGormColumn(tag)
		if col == "" {
			continue
		}
		if hasGormFlag(tag, "primaryKey") {
			wantPK = append(wantPK, col)
		}

		live, ok := byName[col]
		if !ok {
			tbl.MissingColumns = append(tbl.MissingColumns, col)
			tbl.Status = "error"
			continue
		}
		if want := parseGormType(tag); want != "" && !typeMatches(want, live.Type) {
			tbl.TypeMismatches = append(tbl.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", col, want, live.Type))
			tbl.Status = "error"
		}
	}

	// Postgres does not report keys through the inspector
	if livePK := database.PrimaryKey(actual); len(livePK) > 0 && !samePK(wantPK, livePK) {
		tbl.PrimaryKey = livePK
		tbl.Status = "error"
	}
	return tbl
}

func typeMatches(want, got string) bool {
	want = strings.ToLower(want)
	if strings.Contains(got, want) {
		return true
	}
	base, _, _ := strings.Cut(want, "(")
	for _, alias := range typeAliases[base] {
		if strings.HasPrefix(got, alias) {
			return true
		}
	}
	return false
}

func samePK(want, got []string) bool {
	a, b := slices.Clone(want), slices.Clone(got)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// Helpers to parse simple GORM tags
func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}

func parseGormType(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "type:") {
			return strings.TrimPrefix(p, "type:")
		}
	}
	return ""
}

func hasGormFlag(tag, flag string) bool {
	for _, p := range strings.Split(tag, ";") {
		if p == flag {
			return true
		}
	}
	return false
}
