package cli

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"smartparking/parking"
	"smartparking/snapshot"
)

func runSession(t *testing.T, lot *parking.Lot, input, snapshotPath string) string {
	t.Helper()
	var out bytes.Buffer
	c := NewCLI(bufio.NewScanner(strings.NewReader(input)), lot, &out, snapshotPath)
	c.Start()
	return out.String()
}

func TestSessionRegistersNewVehicle(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	input := strings.Join([]string{
		"1",
		"KA01AB1234",
		"Asha",
		"2025-06-01 10:00:00",
		"7",
		"0",
	}, "\n") + "\n"

	out := runSession(t, lot, input, "")

	v, err := lot.Vehicle("KA01AB1234")
	if err != nil {
		t.Fatalf("vehicle not registered: %v", err)
	}
	if !v.Parked() || v.SpaceID != 21 {
		t.Errorf("new vehicle should park in the general range: %+v", v)
	}
	if !strings.Contains(out, "Registering new vehicle: KA01AB1234") {
		t.Errorf("entry not logged:\n%s", out)
	}
	if !strings.Contains(out, "VNum: KA01AB1234") {
		t.Errorf("vehicle report missing the registered vehicle:\n%s", out)
	}
}

func TestSessionRetriesBadArrivalTime(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	input := strings.Join([]string{
		"1",
		"MH02XY0001",
		"Dev",
		"yesterday at noon", // rejected, prompt repeats
		"2025-06-02 08:15:00",
		"0",
	}, "\n") + "\n"

	runSession(t, lot, input, "")

	v, err := lot.Vehicle("MH02XY0001")
	if err != nil {
		t.Fatalf("vehicle not registered after retry: %v", err)
	}
	if !v.Parked() {
		t.Errorf("vehicle not parked: %+v", v)
	}
}

func TestSessionExitProducesReceipt(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	input := strings.Join([]string{
		"1", "GJ05ZZ7777", "Meera", "2025-06-01 08:00:00",
		"2", "GJ05ZZ7777",
		"0",
	}, "\n") + "\n"

	out := runSession(t, lot, input, "")

	if !strings.Contains(out, "Parking Receipt") {
		t.Errorf("no receipt written:\n%s", out)
	}
	v, _ := lot.Vehicle("GJ05ZZ7777")
	if v.Parked() {
		t.Errorf("vehicle still parked after exit: %+v", v)
	}
	if v.Parkings != 1 || v.TotalPaid < 100 {
		t.Errorf("exit not recorded: %+v", v)
	}
}

func TestSessionExitUnknownVehicle(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	out := runSession(t, lot, "2\nNOPE123\n0\n", "")
	if !strings.Contains(out, "Error:") {
		t.Errorf("unknown vehicle exit produced no error line:\n%s", out)
	}
}

func TestSessionPaidRangeReport(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	seed := []*parking.Vehicle{
		{Plate: "AAA111", Owner: "A", TotalPaid: 300},
		{Plate: "BBB222", Owner: "B", TotalPaid: 900},
	}
	for _, v := range seed {
		if err := lot.InsertVehicle(v); err != nil {
			t.Fatal(err)
		}
	}

	out := runSession(t, lot, "4\n100\n500\n0\n", "")
	if !strings.Contains(out, "AAA111") {
		t.Errorf("vehicle inside range missing from report:\n%s", out)
	}
	if strings.Contains(out, "BBB222") {
		t.Errorf("vehicle outside range leaked into report:\n%s", out)
	}
}

func TestSessionRejectsBadPaidRange(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	out := runSession(t, lot, "4\n500\n100\n0\n", "")
	if !strings.Contains(out, "invalid amount range") {
		t.Errorf("inverted range accepted:\n%s", out)
	}
}

func TestSessionSavesSnapshot(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	if err := lot.InsertVehicle(&parking.Vehicle{Plate: "SNAP001", Owner: "S"}); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "lot.snap")

	runSession(t, lot, "9\n0\n", path)

	restored, err := snapshot.Restore(path)
	if err != nil {
		t.Fatalf("snapshot not readable: %v", err)
	}
	if restored.VehicleCount() != 1 {
		t.Errorf("restored %d vehicles, want 1", restored.VehicleCount())
	}
}

func TestSessionUnknownChoice(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	out := runSession(t, lot, "42\n0\n", "")
	if !strings.Contains(out, "Invalid choice entered: 42") {
		t.Errorf("invalid choice not logged:\n%s", out)
	}
}

// A timestamp copied out of a report must be valid input at the arrival
// prompt, so rendering and parsing share one layout.
func TestReportTimestampsParseAtEntryPrompt(t *testing.T) {
	in := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	got := formatTime(in)
	if got != "2025-06-01 10:00:00" {
		t.Fatalf("formatTime = %q", got)
	}
	ts, err := time.ParseInLocation(timeLayout, got, time.Local)
	if err != nil || !ts.Equal(in) {
		t.Errorf("rendered timestamp did not parse back: (%v, %v)", ts, err)
	}
	if formatTime(time.Time{}) != "N/A" {
		t.Errorf("zero time = %q, want N/A", formatTime(time.Time{}))
	}
}

func TestSessionEndsOnEOF(t *testing.T) {
	lot, err := parking.NewLot()
	if err != nil {
		t.Fatal(err)
	}
	// No trailing "0": the loop must stop when input runs out.
	runSession(t, lot, "7\n", "")
}
