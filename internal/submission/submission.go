// Package submission reads and writes the tabular placement format:
// one row per tree, id "NNN_i" (zero-padded group size and tree index),
// followed by x, y and the rotation in degrees. Numeric fields carry a
// literal "s" marker prefix which is stripped on load and restored on
// save. Values are written with 15 decimal places so a later low
// precision rounding pass cannot reintroduce overlaps.
package submission

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/zdanovic/kaggle.santa-2025/internal/model"
)

// markerPrefix tags numeric fields in the submission format.
const markerPrefix = "s"

// parseMarked parses a numeric field, stripping the optional marker.
func parseMarked(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimPrefix(s, markerPrefix), 64)
}

// formatMarked renders a numeric field with the marker and full
// precision.
func formatMarked(v float64) string {
	return markerPrefix + strconv.FormatFloat(v, 'f', 15, 64)
}

// Load reads a submission file into a layout per group. Any malformed
// row, duplicate index, or group with missing trees fails the whole
// load; no partial result is returned.
func Load(path string) (map[int]*model.Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open submission: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 4
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("submission %s is empty", path)
	}

	groups := make(map[int]map[int]model.Pose)
	for rowNum, rec := range records[1:] { // skip header
		n, idx, pose, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum+2, err)
		}
		if groups[n] == nil {
			groups[n] = make(map[int]model.Pose, n)
		}
		if _, dup := groups[n][idx]; dup {
			return nil, fmt.Errorf("row %d: duplicate tree %03d_%d", rowNum+2, n, idx)
		}
		groups[n][idx] = pose
	}

	solutions := make(map[int]*model.Layout, len(groups))
	for n, trees := range groups {
		if len(trees) != n {
			return nil, fmt.Errorf("group %d has %d trees, want %d", n, len(trees), n)
		}
		poses := make([]model.Pose, n)
		for i := range poses {
			p, ok := trees[i]
			if !ok {
				return nil, fmt.Errorf("group %d is missing tree %d", n, i)
			}
			poses[i] = p
		}
		solutions[n] = model.NewLayout(poses)
	}
	return solutions, nil
}

// parseRow decodes one data record into (group, index, pose).
func parseRow(rec []string) (int, int, model.Pose, error) {
	var pose model.Pose
	id := rec[0]
	sep := strings.IndexByte(id, '_')
	if sep < 0 {
		return 0, 0, pose, fmt.Errorf("malformed id %q", id)
	}
	n, err := strconv.Atoi(id[:sep])
	if err != nil || n < 1 || n > model.MaxTrees {
		return 0, 0, pose, fmt.Errorf("malformed group in id %q", id)
	}
	idx, err := strconv.Atoi(id[sep+1:])
	if err != nil || idx < 0 || idx >= n {
		return 0, 0, pose, fmt.Errorf("tree index out of range in id %q", id)
	}
	if pose.X, err = parseMarked(rec[1]); err != nil {
		return 0, 0, pose, fmt.Errorf("bad x %q: %w", rec[1], err)
	}
	if pose.Y, err = parseMarked(rec[2]); err != nil {
		return 0, 0, pose, fmt.Errorf("bad y %q: %w", rec[2], err)
	}
	if pose.Deg, err = parseMarked(rec[3]); err != nil {
		return 0, 0, pose, fmt.Errorf("bad deg %q: %w", rec[3], err)
	}
	return n, idx, pose, nil
}

// Save writes all groups in ascending order. Every group is re-checked
// with the full pairwise sweep first; a group with residual overlap
// aborts the save so an invalid file can never be produced.
func Save(path string, solutions map[int]*model.Layout) error {
	ns := make([]int, 0, len(solutions))
	for n, l := range solutions {
		if l.AnyOverlap() {
			return fmt.Errorf("group %d has overlapping trees, refusing to save", n)
		}
		ns = append(ns, n)
	}
	sort.Ints(ns)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "x", "y", "deg"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, n := range ns {
		l := solutions[n]
		for i, p := range l.Poses {
			rec := []string{
				fmt.Sprintf("%03d_%d", n, i),
				formatMarked(p.X),
				formatMarked(p.Y),
				formatMarked(p.Deg),
			}
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("write group %d: %w", n, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush submission: %w", err)
	}
	return f.Close()
}
