package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Row is one line of the comparison table.
type Row struct {
	Name  string `json:"file" yaml:"file"`
	Score int    `json:"score" yaml:"score"`
}

// ErrNoTable is returned when a document carries no comparison table.
var ErrNoTable = errors.New("report has no comparison table")

// ParseRanking reads the comparison table of a rendered report and returns
// its rows in document order.
func ParseRanking(doc []byte) ([]Row, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(doc))

	var (
		rows  []Row
		found bool
		err   error
	)
	walkErr := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found {
			return ast.WalkContinue, nil
		}
		table, ok := n.(*east.Table)
		if !ok || !isComparison(table, doc) {
			return ast.WalkContinue, nil
		}
		found = true
		rows, err = tableRows(table, doc)
		return ast.WalkStop, nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if !found {
		return nil, ErrNoTable
	}
	return rows, err
}

func isComparison(table *east.Table, source []byte) bool {
	header, ok := table.FirstChild().(*east.TableHeader)
	if !ok {
		return false
	}
	cells := cellTexts(header, source)
	return len(cells) >= 2 && cells[0] == comparisonColumns[0] && cells[1] == comparisonColumns[1]
}

func tableRows(table *east.Table, source []byte) ([]Row, error) {
	var rows []Row
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		row, ok := child.(*east.TableRow)
		if !ok {
			continue
		}
		cells := cellTexts(row, source)
		if len(cells) < 2 {
			return nil, fmt.Errorf("comparison row %d: expected at least 2 cells, got %d", len(rows)+1, len(cells))
		}
		score, err := parseScore(cells[1])
		if err != nil {
			return nil, fmt.Errorf("comparison row %d (%s): %w", len(rows)+1, cells[0], err)
		}
		rows = append(rows, Row{Name: cells[0], Score: score})
	}
	return rows, nil
}

func cellTexts(parent ast.Node, source []byte) []string {
	var out []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); !ok {
			continue
		}
		out = append(out, strings.TrimSpace(string(c.Text(source))))
	}
	return out
}

func parseScore(cell string) (int, error) {
	value, _, _ := strings.Cut(cell, "/")
	score, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %w", cell, err)
	}
	return score, nil
}
