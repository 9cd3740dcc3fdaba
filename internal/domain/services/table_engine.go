// Package services provides domain services shared by the application layer.
package services

import (
	"fmt"
	"strings"

	"github.com/presetbase/presetbase-go/internal/domain/catalog"
)

// IndexedRow pairs a row with its position in the fetched order. The ordinal
// is assigned before filtering so the displayed "#" reflects the fetched
// order, not the post-filter position.
type IndexedRow struct {
	Index int         `json:"index"`
	Row   catalog.Row `json:"row"`
}

// TableRow is one shaped row ready for rendering: the original ordinal, the
// stable id, and the cell values keyed by column.
type TableRow struct {
	Index    int                `json:"index"`
	ID       string             `json:"id"`
	Kind     catalog.EntityType `json:"kind"`
	Cells    map[string]string  `json:"cells"`
	ImageURL string             `json:"imageUrl,omitempty"`
}

// AnnotateRows assigns 1-based ordinals in fetched order.
func AnnotateRows(rows []catalog.Row) []IndexedRow {
	annotated := make([]IndexedRow, len(rows))
	for i, row := range rows {
		annotated[i] = IndexedRow{Index: i + 1, Row: row}
	}
	return annotated
}

// FilterRows applies case-insensitive substring matching of filterText
// against the config's filter fields, ORed across fields. An empty filter
// passes every row through unchanged, annotation included. Pure substring
// matching; no tokenization.
func FilterRows(rows []IndexedRow, cfg catalog.TableConfig, filterText string) []IndexedRow {
	needle := strings.ToLower(strings.TrimSpace(filterText))
	if needle == "" {
		return rows
	}

	filtered := make([]IndexedRow, 0, len(rows))
	for _, indexed := range rows {
		if rowMatches(indexed.Row, cfg.FilterOptions, needle) {
			filtered = append(filtered, indexed)
		}
	}
	return filtered
}

func rowMatches(row catalog.Row, fields []string, needle string) bool {
	for _, field := range fields {
		value, ok := row.FieldString(field)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

// ShapeRows converts filtered rows into per-entity-type table rows. Unknown
// entity types shape nothing and return an error for the caller to log.
func ShapeRows(et catalog.EntityType, rows []IndexedRow) ([]TableRow, error) {
	cfg, ok := catalog.TableConfigFor(et)
	if !ok {
		return nil, fmt.Errorf("no table config for entity type %q", et)
	}

	shaped := make([]TableRow, 0, len(rows))
	for _, indexed := range rows {
		shaped = append(shaped, shapeRow(et, cfg, indexed))
	}
	return shaped, nil
}

// shapeRow dispatches on the entity type so each kind keeps its own cell
// layout. The switch is exhaustive over the browsable set; adding an entity
// type without a case here fails the unknown-type path in ShapeRows first.
func shapeRow(et catalog.EntityType, cfg catalog.TableConfig, indexed IndexedRow) TableRow {
	switch et {
	case catalog.EntitySongs:
		return shapeMediaRow(et, cfg, indexed)
	case catalog.EntityArtists:
		return shapeMediaRow(et, cfg, indexed)
	case catalog.EntityAlbums:
		return shapeMediaRow(et, cfg, indexed)
	case catalog.EntitySynths:
		return shapeMediaRow(et, cfg, indexed)
	case catalog.EntityPresets:
		return shapePlainRow(et, cfg, indexed)
	case catalog.EntityGenres:
		return shapeGenreRow(et, cfg, indexed)
	case catalog.EntityUsers:
		// Users are not browsable; ShapeRows rejects them before dispatch.
		return shapePlainRow(et, cfg, indexed)
	}
	return shapePlainRow(et, cfg, indexed)
}

// shapeMediaRow handles image-bearing entity types: the image column becomes
// the row's ImageURL rather than a text cell.
func shapeMediaRow(et catalog.EntityType, cfg catalog.TableConfig, indexed IndexedRow) TableRow {
	row := TableRow{
		Index: indexed.Index,
		ID:    indexed.Row.ID(),
		Kind:  et,
		Cells: make(map[string]string, len(cfg.Columns)),
	}

	for _, column := range cfg.Columns {
		value, _ := indexed.Row.FieldString(column.Key)
		if column.Key == "imageUrl" {
			row.ImageURL = value
			continue
		}
		row.Cells[column.Key] = value
	}

	return row
}

// shapePlainRow handles text-only entity types.
func shapePlainRow(et catalog.EntityType, cfg catalog.TableConfig, indexed IndexedRow) TableRow {
	row := TableRow{
		Index: indexed.Index,
		ID:    indexed.Row.ID(),
		Kind:  et,
		Cells: make(map[string]string, len(cfg.Columns)),
	}

	for _, column := range cfg.Columns {
		value, _ := indexed.Row.FieldString(column.Key)
		row.Cells[column.Key] = value
	}

	return row
}

// shapeGenreRow carries the genre color triplet through alongside the text
// cells, defaulting unset channels.
func shapeGenreRow(et catalog.EntityType, cfg catalog.TableConfig, indexed IndexedRow) TableRow {
	row := shapePlainRow(et, cfg, indexed)

	for _, key := range []string{"textColor", "backgroundColor", "borderColor"} {
		value, ok := indexed.Row.FieldString(key)
		if !ok || value == "" {
			value = catalog.DefaultColor
		}
		row.Cells[key] = value
	}

	return row
}
