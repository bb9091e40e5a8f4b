package bundle

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kenavn/skelctl/internal/recorder"
)

// csvHeader is animation.csv's fixed column order (spec.md §4.9).
var csvHeader = []string{
	"time_ms", "type", "eye_x", "eye_y",
	"left_eye_closed", "right_eye_closed", "both_eyes_closed", "mouth_position",
}

const (
	rowTypeEye   = "eye"
	rowTypeMouth = "mouth"
	noneSentinel = "None"
)

type mergedRow struct {
	timeMs int64
	eye    *recorder.EyeSample
	mouth  *recorder.MouthSample
	order  int // stabilises the sort on time_ms ties
}

// writeCSV merges the two tracks into one time-ordered event table and
// writes it in animation.csv's schema, stable on time_ms ties (spec.md
// §4.9, "Bundle round-trip" property in §8).
func writeCSV(w io.Writer, eye []recorder.EyeSample, mouth []recorder.MouthSample) error {
	rows := make([]mergedRow, 0, len(eye)+len(mouth))
	for i := range eye {
		e := eye[i]
		rows = append(rows, mergedRow{timeMs: e.TimeMs, eye: &e, order: len(rows)})
	}
	for i := range mouth {
		m := mouth[i]
		rows = append(rows, mergedRow{timeMs: m.TimeMs, mouth: &m, order: len(rows)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].timeMs < rows[j].timeMs })

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		var rec []string
		switch {
		case r.eye != nil:
			rec = []string{
				strconv.FormatInt(r.eye.TimeMs, 10),
				rowTypeEye,
				strconv.FormatFloat(r.eye.GazeX, 'f', -1, 64),
				strconv.FormatFloat(r.eye.GazeY, 'f', -1, 64),
				strconv.FormatFloat(r.eye.LeftClosed, 'f', -1, 64),
				strconv.FormatFloat(r.eye.RightClosed, 'f', -1, 64),
				strconv.FormatBool(r.eye.BothClosed),
				noneSentinel,
			}
		case r.mouth != nil:
			rec = []string{
				strconv.FormatInt(r.mouth.TimeMs, 10),
				rowTypeMouth,
				noneSentinel, noneSentinel, noneSentinel, noneSentinel, noneSentinel,
				strconv.Itoa(int(r.mouth.Position)),
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSV parses animation.csv back into the two typed tracks,
// tolerating "None" sentinels and case-insensitive booleans (spec.md
// §4.9's load_bundle contract).
func readCSV(r io.Reader) ([]recorder.EyeSample, []recorder.MouthSample, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("bundle: animation.csv has no header row")
	}

	var eye []recorder.EyeSample
	var mouth []recorder.MouthSample
	for _, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, nil, fmt.Errorf("bundle: malformed row, want %d columns got %d", len(csvHeader), len(rec))
		}
		t, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("bundle: invalid time_ms %q: %w", rec[0], err)
		}
		switch rec[1] {
		case rowTypeEye:
			s := recorder.EyeSample{TimeMs: t}
			if s.GazeX, err = parseFloatOrNone(rec[2]); err != nil {
				return nil, nil, err
			}
			if s.GazeY, err = parseFloatOrNone(rec[3]); err != nil {
				return nil, nil, err
			}
			if s.LeftClosed, err = parseEyelidValue(rec[4]); err != nil {
				return nil, nil, err
			}
			if s.RightClosed, err = parseEyelidValue(rec[5]); err != nil {
				return nil, nil, err
			}
			s.BothClosed = parseBool(rec[6])
			eye = append(eye, s)
		case rowTypeMouth:
			pos, err := strconv.Atoi(rec[7])
			if err != nil {
				return nil, nil, fmt.Errorf("bundle: invalid mouth_position %q: %w", rec[7], err)
			}
			mouth = append(mouth, recorder.MouthSample{TimeMs: t, Position: byte(pos)})
		default:
			return nil, nil, fmt.Errorf("bundle: unknown row type %q", rec[1])
		}
	}
	return eye, mouth, nil
}

func parseFloatOrNone(s string) (float64, error) {
	if s == noneSentinel || s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseEyelidValue parses left_eye_closed/right_eye_closed, which this
// package's own writeCSV renders as a fractional closure amount but
// the original editor renders as a Python boolean (True/False, any
// case). A bare boolean is read as the fully-open/fully-closed ends of
// that range so bundles produced by either writer load the same way.
func parseEyelidValue(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	return parseFloatOrNone(s)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true":
		return true
	default:
		return false
	}
}
