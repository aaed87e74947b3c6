package parking

// MaxSpaces is the number of spaces in the lot, numbered 1..MaxSpaces.
const MaxSpaces = 50

// Space is one parking space. ID is its index key. A space record is created
// once at lot construction and mutated in place from then on; freeing a
// space clears its fields, it never leaves the index.
type Space struct {
	ID             int
	Occupied       bool
	OccupancyCount int
	TotalRevenue   float64
	ParkedPlate    string
}
