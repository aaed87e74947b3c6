// Package cli drives the interactive menu of the parking system. Prompts and
// feedback go to the console; reports and receipts stream to a separate
// output writer, usually a file, so a session leaves a readable ledger behind.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"smartparking/parking"
	"smartparking/snapshot"
)

var (
	menuColor = color.New(color.FgCyan)
	okColor   = color.New(color.FgGreen)
	errColor  = color.New(color.FgRed)
)

type CLI struct {
	scanner      *bufio.Scanner
	lot          *parking.Lot
	out          io.Writer
	snapshotPath string
}

func NewCLI(s *bufio.Scanner, lot *parking.Lot, out io.Writer, snapshotPath string) *CLI {
	return &CLI{scanner: s, lot: lot, out: out, snapshotPath: snapshotPath}
}

// Start runs the menu loop until the user exits or input ends.
func (c *CLI) Start() {
	for {
		c.printMenu()
		menuColor.Print("Enter your choice: ")
		line, ok := c.readLine()
		if !ok {
			return
		}
		if line == "" {
			continue
		}
		fmt.Fprintf(c.out, "\n>>> Selected option: %s <<<\n", line)
		if done := c.process(line); done {
			return
		}
	}
}

func (c *CLI) printMenu() {
	menuColor.Println(`
--- Smart Car Parking System Menu ---
1. Vehicle Entry
2. Vehicle Exit
3. Print Vehicles by Parking Count
4. Print Vehicles by Amount Paid [Range]
5. Print Spaces by Occupancy Count
6. Print Spaces by Revenue
7. Print All Vehicle Details
8. Print All Space Details
9. Save Snapshot
0. Exit`)
}

// process handles one menu choice and reports whether the loop should stop.
func (c *CLI) process(choice string) bool {
	switch choice {
	case "1":
		c.handleEntry()
	case "2":
		c.handleExit()
	case "3":
		fmt.Fprintln(c.out, "\n--- Vehicles Sorted by Number of Parkings (Descending) ---")
		c.writeVehicles(c.lot.VehiclesByParkings())
	case "4":
		c.handlePaidRangeReport()
	case "5":
		fmt.Fprintln(c.out, "\n--- Parking Spaces Sorted by Occupancy Count (Descending) ---")
		c.writeSpaces(c.lot.SpacesByOccupancy())
	case "6":
		fmt.Fprintln(c.out, "\n--- Parking Spaces Sorted by Total Revenue (Descending) ---")
		c.writeSpaces(c.lot.SpacesByRevenue())
	case "7":
		fmt.Fprintln(c.out, "\n--- All Vehicle Details (Plate Order) ---")
		c.writeVehicles(c.lot.Vehicles())
	case "8":
		fmt.Fprintln(c.out, "\n--- All Space Details (ID Order) ---")
		c.writeSpaces(c.lot.Spaces())
	case "9":
		c.handleSnapshot()
	case "0":
		fmt.Fprintln(c.out, "\n--- Exiting System ---")
		okColor.Println("Goodbye!")
		return true
	default:
		errColor.Printf("Invalid choice %q. Please try again.\n", choice)
		fmt.Fprintf(c.out, "Invalid choice entered: %s\n", choice)
	}
	return false
}

func (c *CLI) readLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func (c *CLI) prompt(label string) (string, bool) {
	menuColor.Print(label)
	return c.readLine()
}

func (c *CLI) handleEntry() {
	fmt.Fprintln(c.out, "\n--- Vehicle Entry ---")
	defer fmt.Fprintln(c.out, "--- Vehicle Entry End ---")

	plate, ok := c.prompt("Enter Vehicle Number: ")
	if !ok || plate == "" {
		errColor.Println("No vehicle number entered.")
		fmt.Fprintln(c.out, "Error: invalid vehicle number input.")
		return
	}

	if v, err := c.lot.Vehicle(plate); err == nil {
		fmt.Fprintf(c.out, "Welcome back, %s (%s Membership)!\n", v.Owner, v.Membership)
		parked, err := c.lot.Park(plate)
		if err != nil {
			errColor.Println(err)
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		okColor.Printf("Vehicle %s parked in space %d.\n", plate, parked.SpaceID)
		fmt.Fprintf(c.out, "Vehicle %s parked in space %d at %s.\n",
			plate, parked.SpaceID, formatTime(parked.Arrival))
		return
	}

	// New vehicle: gather owner and arrival, then register.
	fmt.Fprintf(c.out, "Registering new vehicle: %s\n", plate)
	owner, ok := c.prompt("Enter Owner Name: ")
	if !ok {
		return
	}
	if owner == "" {
		owner = "Unknown"
	}

	var arrival time.Time
	for arrival.IsZero() {
		in, ok := c.prompt("Enter Arrival Time (YYYY-MM-DD HH:MM:SS): ")
		if !ok {
			return
		}
		ts, err := time.ParseInLocation(timeLayout, in, time.Local)
		if err != nil {
			errColor.Println("Invalid format or date/time. Please try again.")
			continue
		}
		arrival = ts
	}

	v, err := c.lot.Register(plate, owner, arrival)
	if err != nil {
		errColor.Println(err)
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	okColor.Printf("Vehicle %s registered and parked in space %d.\n", plate, v.SpaceID)
	fmt.Fprintf(c.out, "Vehicle %s registered and parked in space %d at %s.\n",
		plate, v.SpaceID, formatTime(v.Arrival))
}

func (c *CLI) handleExit() {
	fmt.Fprintln(c.out, "\n--- Vehicle Exit ---")
	defer fmt.Fprintln(c.out, "--- Vehicle Exit End ---")

	plate, ok := c.prompt("Enter Vehicle Number to Exit: ")
	if !ok || plate == "" {
		fmt.Fprintln(c.out, "Error: invalid vehicle number input.")
		return
	}
	fmt.Fprintf(c.out, "Processing exit for: %s\n", plate)

	r, err := c.lot.Exit(plate)
	if err != nil {
		errColor.Println(err)
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	writeReceipt(c.out, r)
	okColor.Printf("Vehicle %s checked out of space %d, fee %.2f Rs.\n", plate, r.SpaceID, r.Fee)
}

func (c *CLI) handlePaidRangeReport() {
	fmt.Fprintln(c.out, "\n--- Report: Vehicles by Amount Paid Range ---")
	min, ok1 := c.promptAmount("Enter minimum total amount paid: ")
	max, ok2 := c.promptAmount("Enter maximum total amount paid: ")
	if !ok1 || !ok2 {
		fmt.Fprintln(c.out, "Error: invalid amount input.")
		return
	}
	if min < 0 || max < 0 || min > max {
		errColor.Println("Invalid amount range.")
		fmt.Fprintln(c.out, "Error: invalid amount range (must be non-negative, min <= max).")
		return
	}
	fmt.Fprintf(c.out, "--- Vehicles with Total Amount Paid between %.2f and %.2f (Descending by Amount) ---\n", min, max)
	vs := c.lot.VehiclesByPaid(min, max)
	if len(vs) == 0 {
		fmt.Fprintln(c.out, "No vehicles found within the specified amount range.")
	}
	c.writeVehicles(vs)
}

func (c *CLI) promptAmount(label string) (float64, bool) {
	in, ok := c.prompt(label)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(in, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (c *CLI) handleSnapshot() {
	if c.snapshotPath == "" {
		errColor.Println("No snapshot path configured.")
		return
	}
	if err := snapshot.Save(c.snapshotPath, c.lot); err != nil {
		errColor.Println(err)
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	okColor.Printf("Snapshot saved to %s\n", c.snapshotPath)
	fmt.Fprintf(c.out, "Snapshot saved to %s\n", c.snapshotPath)
}

func (c *CLI) writeVehicles(vs []*parking.Vehicle) {
	if len(vs) == 0 {
		fmt.Fprintln(c.out, "No vehicle data available.")
	}
	for _, v := range vs {
		writeVehicleLine(c.out, v)
	}
	fmt.Fprintln(c.out, "--- End of Report ---")
	okColor.Println("Report written to output.")
}

func (c *CLI) writeSpaces(ss []*parking.Space) {
	if len(ss) == 0 {
		fmt.Fprintln(c.out, "No parking space data available.")
	}
	for _, s := range ss {
		writeSpaceLine(c.out, s)
	}
	fmt.Fprintln(c.out, "--- End of Report ---")
	okColor.Println("Report written to output.")
}
