package service

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"comanda/order-svc/internal/domain"
)

// TableError classifies why a mentioned table cannot be used.
type TableError string

const (
	ErrNoTablesFound     TableError = "NO_TABLES_FOUND"
	ErrTableNotFound     TableError = "TABLE_NOT_FOUND"
	ErrTableNotOrderable TableError = "TABLE_NOT_AVAILABLE"
)

// TableContext is everything a caller needs to render table state without
// re-querying: mention flag, detected number, validated table, error
// classification and the orderable alternatives.
type TableContext struct {
	HasTableMention     bool           `json:"has_table_mention"`
	Tables              []domain.Table `json:"tables"`
	DetectedTableNumber int            `json:"detected_table_number,omitempty"`
	ValidatedTable      *domain.Table  `json:"validated_table,omitempty"`
	Error               TableError     `json:"error,omitempty"`
	Message             string         `json:"message,omitempty"`
	OrderableTables     []domain.Table `json:"orderable_tables"`
}

var tableKeywords = []string{"mesa", "mesas", "table", "sentado", "sentada"}

// Ordered: the first pattern to match wins.
var tableNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)mesa\s*n[úu]mero\s*(\d+)`),
	regexp.MustCompile(`(?i)mesa\s*(\d+)`),
	regexp.MustCompile(`(?i)table\s*number\s*(\d+)`),
	regexp.MustCompile(`(?i)table\s*(\d+)`),
	regexp.MustCompile(`(?i)estoy\s*en\s*la\s*(\d+)`),
	regexp.MustCompile(`(?i)desde\s*la\s*(\d+)`),
	regexp.MustCompile(`(?i)en\s*la\s*mesa\s*(\d+)`),
}

type TableService struct {
	repo TableRepository
}

func NewTableService(repo TableRepository) *TableService {
	return &TableService{repo: repo}
}

func (s *TableService) Create(table *domain.Table) error {
	return s.repo.CreateTable(table)
}

func (s *TableService) ListByBranch(branchID string) ([]domain.Table, error) {
	return s.repo.ListTablesByBranch(branchID)
}

func (s *TableService) Get(id string) (*domain.Table, error) {
	return s.repo.GetTable(id)
}

func (s *TableService) Update(table *domain.Table) error {
	return s.repo.UpdateTable(table)
}

func (s *TableService) Delete(id string) (int64, error) {
	return s.repo.DeleteTable(id)
}

// ProcessTableMention detects a table mention in free text, validates it
// against the branch's tables and classifies availability. "Not found" is a
// classification in the result, never an error return.
func (s *TableService) ProcessTableMention(message, branchID string) (*TableContext, error) {
	normalized := strings.ToLower(message)

	mentioned := false
	for _, keyword := range tableKeywords {
		if strings.Contains(normalized, keyword) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return &TableContext{HasTableMention: false}, nil
	}

	tables, err := s.repo.ListTablesByBranch(branchID)
	if err != nil {
		return nil, fmt.Errorf("fetch branch tables: %w", err)
	}

	detected := extractTableNumber(message)

	if len(tables) == 0 {
		log.Printf("[order-svc] no tables configured for branch %s", branchID)
		return &TableContext{
			HasTableMention:     true,
			Tables:              []domain.Table{},
			DetectedTableNumber: detected,
			Error:               ErrNoTablesFound,
			Message:             "Lo siento, no hay mesas configuradas en esta sucursal.",
			OrderableTables:     []domain.Table{},
		}, nil
	}

	result := &TableContext{
		HasTableMention:     true,
		Tables:              tables,
		DetectedTableNumber: detected,
	}
	for _, t := range tables {
		if t.OrderableAt() {
			result.OrderableTables = append(result.OrderableTables, t)
		}
	}

	if detected > 0 {
		wanted := strconv.Itoa(detected)
		for i := range tables {
			if tables[i].Name == wanted || strings.Contains(strings.ToLower(tables[i].Name), wanted) {
				result.ValidatedTable = &tables[i]
				break
			}
		}
	}

	switch {
	case detected > 0 && result.ValidatedTable == nil:
		result.Error = ErrTableNotFound
		result.Message = fmt.Sprintf("Lo siento, no encontré la mesa %d. Las mesas disponibles son: %s.",
			detected, tableNames(tables))
	case result.ValidatedTable != nil && !result.ValidatedTable.OrderableAt():
		result.Error = ErrTableNotOrderable
		result.Message = fmt.Sprintf("Lo siento, la mesa %s no está disponible en este momento (estado: %s).",
			result.ValidatedTable.Name, result.ValidatedTable.Status)
	case result.ValidatedTable != nil:
		result.Message = fmt.Sprintf("Mesa %s (capacidad: %d personas) - estado: %s",
			result.ValidatedTable.Name, result.ValidatedTable.Capacity, result.ValidatedTable.Status)
	case len(result.OrderableTables) > 0:
		// Mention without a number: answer with what is available.
		result.Message = fmt.Sprintf("Mesas disponibles: %s.", tableNames(result.OrderableTables))
	default:
		result.Message = "Lo siento, por el momento no hay mesas disponibles."
	}

	return result, nil
}

func extractTableNumber(message string) int {
	for _, pattern := range tableNumberPatterns {
		if m := pattern.FindStringSubmatch(message); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return 0
}

func tableNames(tables []domain.Table) string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}
