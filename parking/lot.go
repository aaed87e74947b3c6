package parking

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartparking/bptree"
)

// treeOrder is the minimum degree of both indexes. Small on purpose: with 50
// spaces and a few hundred vehicles the trees stay two or three levels deep
// while still exercising splits.
const treeOrder = 3

var (
	ErrUnknownVehicle = errors.New("parking: vehicle not registered")
	ErrAlreadyParked  = errors.New("parking: vehicle is already parked")
	ErrNotParked      = errors.New("parking: vehicle is not parked")
	ErrLotFull        = errors.New("parking: no suitable space available")
)

/*
Lot is the whole parking facility: a plate-keyed vehicle index and a
space-id-keyed space index over the same generic B+ tree, plus the business
rules that tie them together.

A Lot is driven by one interactive loop and is not safe for concurrent use.
Record pointers handed out by its methods are live views into the indexes.
*/
type Lot struct {
	vehicles *bptree.Tree[string, *Vehicle]
	spaces   *bptree.Tree[int, *Space]
	now      func() time.Time
}

// NewLot builds an empty lot with all MaxSpaces spaces registered and free.
func NewLot() (*Lot, error) {
	vt, err := bptree.New[string, *Vehicle](treeOrder, strings.Compare)
	if err != nil {
		return nil, fmt.Errorf("vehicle index: %w", err)
	}
	st, err := bptree.New[int, *Space](treeOrder, cmp.Compare[int])
	if err != nil {
		return nil, fmt.Errorf("space index: %w", err)
	}
	l := &Lot{vehicles: vt, spaces: st, now: time.Now}
	for id := 1; id <= MaxSpaces; id++ {
		if err := l.spaces.Insert(id, &Space{ID: id}); err != nil {
			return nil, fmt.Errorf("space %d: %w", id, err)
		}
	}
	return l, nil
}

// Vehicle looks up a registered vehicle by plate.
func (l *Lot) Vehicle(plate string) (*Vehicle, error) {
	v, err := l.vehicles.Search(plate)
	if errors.Is(err, bptree.ErrNotFound) {
		return nil, ErrUnknownVehicle
	}
	return v, err
}

// Space looks up a space record by id.
func (l *Lot) Space(id int) (*Space, error) {
	return l.spaces.Search(id)
}

// VehicleCount reports how many vehicles are registered.
func (l *Lot) VehicleCount() int { return l.vehicles.Len() }

// InsertVehicle adds a vehicle record to the index without allocating a
// space. The loader and snapshot restore use it to replay known vehicles.
func (l *Lot) InsertVehicle(v *Vehicle) error {
	if v.SpaceID == 0 {
		v.SpaceID = -1
	}
	return l.vehicles.Insert(v.Plate, v)
}

/*
findFreeSpace picks a space according to the tier policy: Gold may take any
space starting from 1, Premium (and Gold, once the front rows are taken)
starts from 11, everyone else starts from 21. Each range is scanned through
the leaf chain and the first free space wins.
*/
func (l *Lot) findFreeSpace(m Membership) (int, bool) {
	free := func(_ int, s *Space) bool { return !s.Occupied }
	if m == Gold {
		if id, _, ok := l.spaces.FindInRange(1, MaxSpaces, free); ok {
			return id, true
		}
	}
	if m == Gold || m == Premium {
		if id, _, ok := l.spaces.FindInRange(11, MaxSpaces, free); ok {
			return id, true
		}
	}
	id, _, ok := l.spaces.FindInRange(21, MaxSpaces, free)
	return id, ok
}

// occupy marks space id as taken by v as of arrival.
func (l *Lot) occupy(v *Vehicle, id int, arrival time.Time) error {
	s, err := l.spaces.Search(id)
	if err != nil {
		return fmt.Errorf("space %d: %w", id, err)
	}
	if s.Occupied {
		return fmt.Errorf("space %d: %w", id, ErrAlreadyParked)
	}
	s.Occupied = true
	s.ParkedPlate = v.Plate
	v.SpaceID = id
	v.Arrival = arrival
	v.LastDeparture = time.Time{}
	return nil
}

// Park admits an already registered vehicle, allocating a space by its
// membership tier. Arrival is the current time.
func (l *Lot) Park(plate string) (*Vehicle, error) {
	v, err := l.Vehicle(plate)
	if err != nil {
		return nil, err
	}
	if v.Parked() {
		return nil, fmt.Errorf("%w in space %d", ErrAlreadyParked, v.SpaceID)
	}
	id, ok := l.findFreeSpace(v.Membership)
	if !ok {
		return nil, ErrLotFull
	}
	if err := l.occupy(v, id, l.now()); err != nil {
		return nil, err
	}
	return v, nil
}

// Register admits a vehicle seen for the first time: it is recorded with no
// membership and parked under the general allocation policy at the given
// arrival time. The vehicle is not registered if no space is available.
func (l *Lot) Register(plate, owner string, arrival time.Time) (*Vehicle, error) {
	if _, err := l.Vehicle(plate); err == nil {
		return nil, fmt.Errorf("vehicle %s: already registered", plate)
	}
	if owner == "" {
		owner = "Unknown"
	}
	id, ok := l.findFreeSpace(None)
	if !ok {
		return nil, ErrLotFull
	}
	v := &Vehicle{Plate: plate, Owner: owner, SpaceID: -1}
	if err := l.occupy(v, id, arrival); err != nil {
		return nil, err
	}
	if err := l.InsertVehicle(v); err != nil {
		// roll the space back so a failed registration leaves no trace
		if s, serr := l.spaces.Search(id); serr == nil {
			s.Occupied = false
			s.ParkedPlate = ""
		}
		return nil, fmt.Errorf("vehicle %s: %w", plate, err)
	}
	return v, nil
}

// Receipt summarizes one completed stay.
type Receipt struct {
	Plate         string
	Owner         string
	Arrival       time.Time
	Departure     time.Time
	Hours         float64
	Fee           float64
	OldMembership Membership
	Membership    Membership
	TotalHours    float64
	TotalPaid     float64
	Parkings      int
	SpaceID       int
}

// Discounted reports whether the member discount applied to this stay.
func (r *Receipt) Discounted() bool {
	return r.Membership == Premium || r.Membership == Gold
}

/*
Exit checks a vehicle out: the stay duration is added to its lifetime hours,
its membership is re-evaluated, the fee for the stay is charged (at the new
tier) and the space is freed and credited. The vehicle record itself stays in
the index with its parked state cleared.
*/
func (l *Lot) Exit(plate string) (*Receipt, error) {
	v, err := l.Vehicle(plate)
	if err != nil {
		return nil, err
	}
	if !v.Parked() {
		return nil, ErrNotParked
	}

	departure := l.now()
	hours := departure.Sub(v.Arrival).Hours()
	if hours < 0 {
		hours = 0 // clock went backwards; charge the minimum
	}

	old := v.Membership
	arrival := v.Arrival
	spaceID := v.SpaceID

	v.TotalHours += hours
	v.Parkings++
	v.LastDeparture = departure
	v.Membership = MembershipForHours(v.TotalHours)

	fee := Fee(hours, v.Membership)
	v.TotalPaid += fee
	v.SpaceID = -1
	v.Arrival = time.Time{}

	s, err := l.spaces.Search(spaceID)
	if err != nil {
		return nil, fmt.Errorf("space %d missing during exit of %s: %w", spaceID, plate, err)
	}
	s.Occupied = false
	s.OccupancyCount++
	s.TotalRevenue += fee
	s.ParkedPlate = ""

	return &Receipt{
		Plate:         v.Plate,
		Owner:         v.Owner,
		Arrival:       arrival,
		Departure:     departure,
		Hours:         hours,
		Fee:           fee,
		OldMembership: old,
		Membership:    v.Membership,
		TotalHours:    v.TotalHours,
		TotalPaid:     v.TotalPaid,
		Parkings:      v.Parkings,
		SpaceID:       spaceID,
	}, nil
}
