package cli

import (
	"fmt"
	"io"
	"time"

	"smartparking/parking"
)

// timeLayout is used both for rendering timestamps in reports and for
// parsing arrival times typed at the entry prompt.
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(timeLayout)
}

func writeVehicleLine(w io.Writer, v *parking.Vehicle) {
	fmt.Fprintf(w, " VNum: %-14s | Owner: %-20s | Mem: %-7s | Total Hrs: %7.2f | Parkings: %3d | Paid: %8.2f | Parked in: %-3d | Arrived: %s | Last Left: %s\n",
		v.Plate, v.Owner, v.Membership, v.TotalHours, v.Parkings, v.TotalPaid,
		v.SpaceID, formatTime(v.Arrival), formatTime(v.LastDeparture))
}

func writeSpaceLine(w io.Writer, s *parking.Space) {
	status := "Free"
	plate := "none"
	if s.Occupied {
		status = "Occupied"
		plate = s.ParkedPlate
	}
	fmt.Fprintf(w, " Space ID: %-3d | Status: %-8s | Occupancy Count: %-5d | Total Revenue: %8.2f | Parked VNum: %s\n",
		s.ID, status, s.OccupancyCount, s.TotalRevenue, plate)
}

func writeReceipt(w io.Writer, r *parking.Receipt) {
	fmt.Fprintln(w, "----------- Parking Receipt -----------")
	fmt.Fprintf(w, " Vehicle:    %s (%s)\n", r.Plate, r.Owner)
	fmt.Fprintf(w, " Space:      %d\n", r.SpaceID)
	fmt.Fprintf(w, " Arrived:    %s\n", formatTime(r.Arrival))
	fmt.Fprintf(w, " Departed:   %s\n", formatTime(r.Departure))
	fmt.Fprintf(w, " Duration:   %.2f hours\n", r.Hours)
	if r.Membership != r.OldMembership {
		fmt.Fprintf(w, " Membership: %s (upgraded from %s)\n", r.Membership, r.OldMembership)
	} else {
		fmt.Fprintf(w, " Membership: %s\n", r.Membership)
	}
	if r.Discounted() {
		fmt.Fprintf(w, " Fee:        %.2f Rs (10%% member discount applied)\n", r.Fee)
	} else {
		fmt.Fprintf(w, " Fee:        %.2f Rs\n", r.Fee)
	}
	fmt.Fprintf(w, " Lifetime:   %.2f hours over %d parkings, %.2f Rs paid\n",
		r.TotalHours, r.Parkings, r.TotalPaid)
	fmt.Fprintln(w, "---------------------------------------")
}
