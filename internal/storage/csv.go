package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

// Header is the column layout of states.csv.
var Header = []string{"time", "theta", "theta_dot", "x", "x_velocity", "torque", "command", "tipped"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func WriteCSV(out io.Writer, samples []dynamo.Snapshot) error {
	w := csv.NewWriter(out)

	if err := w.Write(Header); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			formatFloat(s.Elapsed),
			formatFloat(s.Theta),
			formatFloat(s.ThetaDot),
			formatFloat(s.X),
			formatFloat(s.XVelocity),
			formatFloat(s.Torque),
			strconv.Itoa(int(s.Command)),
			strconv.FormatBool(s.Tipped),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV parses rows written by WriteCSV. The header row is required.
func ReadCSV(in io.Reader) ([]dynamo.Snapshot, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(Header)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamo.Snapshot{}, nil
	}

	samples := make([]dynamo.Snapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [6]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, Header[j], err)
			}
			vals[j] = v
		}

		cmd, err := strconv.Atoi(record[6])
		if err != nil {
			return nil, fmt.Errorf("row %d column command: %w", i+1, err)
		}
		tipped, err := strconv.ParseBool(record[7])
		if err != nil {
			return nil, fmt.Errorf("row %d column tipped: %w", i+1, err)
		}

		samples = append(samples, dynamo.Snapshot{
			Elapsed:   vals[0],
			Theta:     vals[1],
			ThetaDot:  vals[2],
			X:         vals[3],
			XVelocity: vals[4],
			Torque:    vals[5],
			Command:   dynamo.Command(cmd).Clamp(),
			Tipped:    tipped,
		})
	}
	return samples, nil
}
