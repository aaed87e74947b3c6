package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-faker/faker/v4"

	"smartparking/cli"
	"smartparking/loader"
	"smartparking/parking"
	"smartparking/snapshot"
)

var (
	dataFile     *string
	outFile      *string
	snapshotPath *string
	shouldSeed   *bool
	seedRecords  *int
)

// seedLotWithTestRecords fills the index with plausible vehicle histories so
// the reports have something to show without a data file.
func seedLotWithTestRecords(lot *parking.Lot) {
	for i := 0; i < *seedRecords; i++ {
		hours := rand.Float64() * 300
		paid := float64(int(hours)) * 45
		v := &parking.Vehicle{
			Plate:         fmt.Sprintf("KA%02d%c%c%04d", rand.Intn(70)+1, 'A'+rand.Intn(26), 'A'+rand.Intn(26), rand.Intn(10000)),
			Owner:         faker.Name(),
			Membership:    parking.MembershipForHours(hours),
			TotalHours:    hours,
			Parkings:      rand.Intn(120),
			TotalPaid:     paid,
			LastDeparture: time.Now().Add(-time.Duration(rand.Intn(720)) * time.Hour),
		}
		if err := lot.InsertVehicle(v); err != nil {
			continue // duplicate fake plate, skip it
		}
	}
}

func main() {
	setupFlags()

	var lot *parking.Lot
	var err error
	if *snapshotPath != "" {
		if lot, err = snapshot.Restore(*snapshotPath); err == nil {
			log.Printf("restored %d vehicles from %s", lot.VehicleCount(), *snapshotPath)
		} else if !errors.Is(err, fs.ErrNotExist) {
			log.Fatal(err)
		}
	}
	if lot == nil {
		if lot, err = parking.NewLot(); err != nil {
			log.Fatal(err)
		}
		res, err := loader.LoadFile(lot, *dataFile)
		if err != nil {
			log.Fatal(err)
		}
		for _, w := range res.Warnings {
			log.Print(w)
		}
		log.Printf("loaded %d of %d records from %s", res.Loaded, res.Processed, *dataFile)
	}

	if *shouldSeed {
		seedLotWithTestRecords(lot)
	}

	out, err := os.Create(*outFile)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	scanner := bufio.NewScanner(os.Stdin)
	demo := cli.NewCLI(scanner, lot, out, *snapshotPath)
	demo.Start()
}

func setupFlags() {
	dataFile = flag.String("data", "parking_data.txt", "Tab-delimited vehicle data file to load on startup.")
	outFile = flag.String("out", "output.txt", "File that receives receipts and reports.")
	snapshotPath = flag.String("snapshot", "", "Binary snapshot path; restored on startup if present, written by menu option 9.")
	shouldSeed = flag.Bool("seed", false, "Seed the lot using vehicle records created with go-faker.")
	seedRecords = flag.Int("records", 1000, "Amount of vehicle records to seed the lot with upon startup.")
	flag.Usage = func() {
		fmt.Println("\nSmart Parking CLI\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
