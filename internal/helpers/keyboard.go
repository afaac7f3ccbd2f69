package helpers

import (
	"strconv"
	"unicode/utf8"
)

// LayoutRows groups labels into keyboard rows and returns the label indices of every row.
// Short labels are packed perRow at a time, a label longer than maxShort runes takes a row of its own.
func LayoutRows(labels []string, perRow, maxShort int) [][]int {
	if perRow <= 0 {
		perRow = 1
	}

	var rows [][]int
	var current []int
	flush := func() {
		if len(current) > 0 {
			rows = append(rows, current)
			current = nil
		}
	}

	for i, label := range labels {
		if utf8.RuneCountInString(label) > maxShort {
			flush()
			rows = append(rows, []int{i})
			continue
		}

		current = append(current, i)
		if len(current) == perRow {
			flush()
		}
	}
	flush()

	return rows
}

// RadiusRows lays out the quick radius replies in rows of perRow
func RadiusRows(options []uint, perRow int) [][]string {
	if perRow <= 0 {
		perRow = 1
	}

	rows := make([][]string, 0, (len(options)+perRow-1)/perRow)
	for start := 0; start < len(options); start += perRow {
		end := min(start+perRow, len(options))
		row := make([]string, 0, end-start)
		for _, option := range options[start:end] {
			row = append(row, strconv.FormatUint(uint64(option), 10))
		}
		rows = append(rows, row)
	}
	return rows
}

// SelectedLabel marks a toggle label as selected
func SelectedLabel(label string, selected bool) string {
	if selected {
		return label + " ✓"
	}
	return label
}
