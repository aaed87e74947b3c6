// Package loader reads the lot's initial state from a tab-delimited text
// file. One line per vehicle, 14 fields; the first line is a header.
//
// Fields: plate, owner, arrival date (DD-MM-YYYY), arrival time (HH:MM),
// arrival AM/PM, departure date, departure time, departure AM/PM, membership
// name, space id, parkings done, amount paid, space occupancy count, space
// revenue. A literal "none" marks an unset timestamp component; a departure
// of "none" together with a valid space id means the vehicle is still
// parked.
//
// Malformed lines are skipped with a warning, never fatally.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"smartparking/parking"
)

const fieldsPerLine = 14

// Result summarizes one load: how many data lines were seen, how many
// vehicles ended up in the index, and the warnings produced along the way.
type Result struct {
	Processed int
	Loaded    int
	Warnings  []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// LoadFile opens path and loads it into lot. A missing file is not an
// error: the lot simply starts without vehicle data.
func LoadFile(lot *parking.Lot, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Result{Warnings: []string{fmt.Sprintf("data file %s not found, starting empty", path)}}, nil
		}
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()
	return Load(lot, f)
}

// Load reads tab-delimited vehicle lines from r into lot.
func Load(lot *parking.Lot, r io.Reader) (*Result, error) {
	res := &Result{}
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return res, fmt.Errorf("read header: %w", err)
		}
		res.warnf("input is empty")
		return res, nil
	}

	lineNum := 1
	for sc.Scan() {
		lineNum++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		res.Processed++
		if err := loadLine(lot, res, lineNum, line); err != nil {
			res.warnf("line %d: %v", lineNum, err)
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("read data: %w", err)
	}
	return res, nil
}

func loadLine(lot *parking.Lot, res *Result, lineNum int, line string) error {
	raw := strings.Split(line, "\t")
	if len(raw) < fieldsPerLine {
		return fmt.Errorf("only %d fields, expected %d", len(raw), fieldsPerLine)
	}
	f := make([]string, fieldsPerLine)
	for i := range f {
		f[i] = strings.TrimSpace(raw[i])
	}

	plate := f[0]
	if plate == "" || len(plate) > 14 {
		return fmt.Errorf("invalid vehicle number %q", plate)
	}
	owner := f[1]
	if owner == "" {
		owner = "Unknown"
	}
	spaceID := atoiDefault(f[9])
	parkings := atoiDefault(f[10])
	paid := atofDefault(f[11])
	occupancy := atoiDefault(f[12])
	revenue := atofDefault(f[13])

	v, err := lot.Vehicle(plate)
	isNew := err != nil
	if isNew {
		v = &parking.Vehicle{Plate: plate, SpaceID: -1}
		if err := lot.InsertVehicle(v); err != nil {
			return fmt.Errorf("index vehicle %s: %w", plate, err)
		}
	} else {
		res.warnf("line %d: vehicle %s appears again, updating its data", lineNum, plate)
	}
	res.Loaded = lot.VehicleCount()

	v.Owner = owner
	if parkings > 0 {
		v.Parkings = parkings
	}
	if paid > 0 {
		v.TotalPaid = paid
	}
	v.Membership = parking.ParseMembership(f[8])
	estimateHours(v)
	v.Membership = parking.MembershipForHours(v.TotalHours)

	parked := f[5] == "none" && spaceID >= 1 && spaceID <= parking.MaxSpaces

	if spaceID >= 1 && spaceID <= parking.MaxSpaces {
		s, err := lot.Space(spaceID)
		if err != nil {
			return fmt.Errorf("space %d missing from index: %w", spaceID, err)
		}
		if occupancy >= 0 {
			s.OccupancyCount = occupancy
		}
		if revenue >= 0 {
			s.TotalRevenue = revenue
		}
		if parked {
			switch {
			case !s.Occupied:
				s.Occupied = true
				s.ParkedPlate = plate
				v.SpaceID = spaceID
				v.Arrival = parseFileTime(f[2], f[3], f[4])
				if v.Arrival.IsZero() {
					res.warnf("line %d: parked vehicle %s has no valid arrival time, using now", lineNum, plate)
					v.Arrival = time.Now()
				}
				v.LastDeparture = time.Time{}
			case s.ParkedPlate != plate:
				res.warnf("line %d: space %d already occupied by %s, %s left unparked", lineNum, spaceID, s.ParkedPlate, plate)
				v.SpaceID = -1
				v.Arrival = time.Time{}
			default:
				// same vehicle again, refresh arrival if the file has one
				if at := parseFileTime(f[2], f[3], f[4]); !at.IsZero() {
					v.Arrival = at
				}
			}
		} else if s.Occupied && s.ParkedPlate == plate {
			// a later line records this vehicle's departure
			s.Occupied = false
			s.ParkedPlate = ""
			v.LastDeparture = parseFileTime(f[5], f[6], f[7])
			v.SpaceID = -1
			v.Arrival = time.Time{}
		}
	} else if spaceID != 0 {
		res.warnf("line %d: vehicle %s references invalid space %d", lineNum, plate, spaceID)
	}

	if !parked && v.SpaceID == -1 {
		if f[5] != "none" {
			if dt := parseFileTime(f[5], f[6], f[7]); !dt.IsZero() {
				v.LastDeparture = dt
			}
		}
	}
	return nil
}

/*
estimateHours reconstructs a plausible lifetime hour count for records whose
source file carries membership and payment history but no hours. The guesses
are deliberately conservative: members get at least their tier threshold,
heavy payers are back-computed from the hourly rate, everyone else gets a
modest per-parking estimate.
*/
func estimateHours(v *parking.Vehicle) {
	if v.TotalHours > 0.1 {
		return
	}
	switch {
	case v.Membership == parking.Gold:
		v.TotalHours = max(parking.GoldHours, float64(v.Parkings)*2)
	case v.Membership == parking.Premium:
		v.TotalHours = max(parking.PremiumHours, float64(v.Parkings)*2)
	case v.TotalPaid > 100:
		v.TotalHours = max(1, v.TotalPaid/60)
	default:
		v.TotalHours = float64(v.Parkings) * 1.5
	}
}

// parseFileTime assembles the file's split DD-MM-YYYY / HH:MM / AM-PM
// timestamp. Any "none" component, or anything unparsable, yields the zero
// time.
func parseFileTime(date, clock, ampm string) time.Time {
	if date == "none" || clock == "none" || strings.HasPrefix(ampm, "non") {
		return time.Time{}
	}
	in := fmt.Sprintf("%s %s %s", date, clock, strings.ToUpper(ampm))
	ts, err := time.ParseInLocation("2-1-2006 3:04 PM", in, time.Local)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func atoiDefault(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func atofDefault(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
