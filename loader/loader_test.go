package loader

import (
	"strings"
	"testing"
	"time"

	"smartparking/parking"
)

const header = "vehicle\towner\tarr_date\tarr_time\tarr_ampm\tdep_date\tdep_time\tdep_ampm\tmembership\tspace\tparkings\tpaid\toccupancy\trevenue\n"

func loadString(t *testing.T, data string) (*parking.Lot, *Result) {
	t.Helper()
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	res, err := Load(lot, strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return lot, res
}

func TestLoadParkedVehicle(t *testing.T) {
	data := header +
		"KA05MN2211\tRahul\t01-06-2025\t9:30\tAM\tnone\tnone\tnone\tpremium\t12\t40\t5000\t40\t5000\n"
	lot, res := loadString(t, data)

	if res.Processed != 1 || res.Loaded != 1 {
		t.Fatalf("Result = %+v, want 1 processed and 1 loaded", res)
	}
	v, err := lot.Vehicle("KA05MN2211")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Parked() || v.SpaceID != 12 {
		t.Errorf("vehicle not parked in space 12: %+v", v)
	}
	wantArrival := time.Date(2025, 6, 1, 9, 30, 0, 0, time.Local)
	if !v.Arrival.Equal(wantArrival) {
		t.Errorf("arrival = %v, want %v", v.Arrival, wantArrival)
	}
	if v.Membership != parking.Premium {
		t.Errorf("membership = %v, want Premium", v.Membership)
	}
	// premium with 40 parkings: estimated hours = max(100, 80)
	if v.TotalHours != 100 {
		t.Errorf("estimated hours = %v, want 100", v.TotalHours)
	}

	s, err := lot.Space(12)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Occupied || s.ParkedPlate != "KA05MN2211" {
		t.Errorf("space 12 not occupied by the vehicle: %+v", s)
	}
	if s.OccupancyCount != 40 || s.TotalRevenue != 5000 {
		t.Errorf("space stats not taken from file: %+v", s)
	}
}

func TestLoadDepartedVehicle(t *testing.T) {
	data := header +
		"MH01AA0001\tSita\t01-06-2025\t10:00\tAM\t01-06-2025\t2:15\tPM\tnone\t0\t3\t450\t0\t0\n"
	lot, _ := loadString(t, data)

	v, err := lot.Vehicle("MH01AA0001")
	if err != nil {
		t.Fatal(err)
	}
	if v.Parked() {
		t.Errorf("departed vehicle marked parked: %+v", v)
	}
	wantDep := time.Date(2025, 6, 1, 14, 15, 0, 0, time.Local)
	if !v.LastDeparture.Equal(wantDep) {
		t.Errorf("last departure = %v, want %v", v.LastDeparture, wantDep)
	}
	// paid 450 with no membership: estimated hours = 450/60
	if v.TotalHours != 7.5 {
		t.Errorf("estimated hours = %v, want 7.5", v.TotalHours)
	}
	if v.Membership != parking.None {
		t.Errorf("membership = %v, want None", v.Membership)
	}
}

func TestLoadGoldenSpelling(t *testing.T) {
	data := header +
		"GJ01XY9999\tDev\tnone\tnone\tnone\t02-06-2025\t11:00\tAM\tGolden\t0\t120\t0\t0\t0\n"
	lot, _ := loadString(t, data)
	v, err := lot.Vehicle("GJ01XY9999")
	if err != nil {
		t.Fatal(err)
	}
	if v.Membership != parking.Gold {
		t.Errorf("membership = %v, want Gold", v.Membership)
	}
	// gold with 120 parkings: estimated hours = max(200, 240)
	if v.TotalHours != 240 {
		t.Errorf("estimated hours = %v, want 240", v.TotalHours)
	}
}

func TestLoadSpaceConflict(t *testing.T) {
	data := header +
		"AAA111\tFirst\t01-06-2025\t8:00\tAM\tnone\tnone\tnone\tnone\t21\t1\t0\t0\t0\n" +
		"BBB222\tSecond\t01-06-2025\t9:00\tAM\tnone\tnone\tnone\tnone\t21\t1\t0\t0\t0\n"
	lot, res := loadString(t, data)

	s, _ := lot.Space(21)
	if s.ParkedPlate != "AAA111" {
		t.Errorf("space 21 held by %q, want first claimant AAA111", s.ParkedPlate)
	}
	second, _ := lot.Vehicle("BBB222")
	if second.Parked() {
		t.Errorf("conflicting vehicle marked parked: %+v", second)
	}
	if len(res.Warnings) == 0 {
		t.Error("conflict produced no warning")
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	data := header +
		"SHORTLINE\tonly\tthree\n" +
		"\n" +
		"CCC333\tOk\tnone\tnone\tnone\t02-06-2025\t1:00\tPM\tnone\t0\t2\t0\t0\t0\n"
	lot, res := loadString(t, data)

	if res.Processed != 2 {
		t.Errorf("Processed = %d, want 2 (blank line ignored)", res.Processed)
	}
	if lot.VehicleCount() != 1 {
		t.Errorf("VehicleCount = %d, want 1", lot.VehicleCount())
	}
	if len(res.Warnings) == 0 {
		t.Error("malformed line produced no warning")
	}
	if _, err := lot.Vehicle("CCC333"); err != nil {
		t.Errorf("well-formed line after malformed one not loaded: %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	res, err := LoadFile(lot, "definitely-not-here.txt")
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("want a single warning about the missing file, got %v", res.Warnings)
	}
}
