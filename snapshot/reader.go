package snapshot

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/golang/snappy"

	"smartparking/parking"
)

// Restore builds a fresh lot from the snapshot at path.
func Restore(path string) (*parking.Lot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a snapshot stream into a new lot. Vehicle records are
// replayed through the index; space records overwrite the pre-created
// space entries in place.
func Read(r io.Reader) (*parking.Lot, error) {
	got := make([]byte, len(header))
	if _, err := io.ReadFull(r, got); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(got, header) {
		return nil, errors.New("snapshot: bad magic or unsupported version")
	}

	lot, err := parking.NewLot()
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(snappy.NewReader(r))
	for {
		n, err := binary.ReadUvarint(br)
		if errors.Is(err, io.EOF) {
			return lot, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read record length: %w", err)
		}
		payload := make([]byte, n)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(payload) == 0 {
			return nil, errors.New("snapshot: empty record")
		}
		switch payload[0] {
		case kindVehicle:
			v, err := decodeVehicle(payload[1:])
			if err != nil {
				return nil, err
			}
			if err := lot.InsertVehicle(v); err != nil {
				return nil, fmt.Errorf("replay vehicle %s: %w", v.Plate, err)
			}
		case kindSpace:
			if err := decodeSpaceInto(lot, payload[1:]); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("snapshot: unknown record kind %d", payload[0])
		}
	}
}

func decodeVehicle(p []byte) (*parking.Vehicle, error) {
	d := &decoder{r: bytes.NewReader(p)}
	v := &parking.Vehicle{}
	v.Plate = d.str()
	v.Owner = d.str()
	v.Arrival = d.unix()
	v.LastDeparture = d.unix()
	v.Membership = parking.Membership(d.uvarint())
	v.TotalHours = d.float()
	v.TotalPaid = d.float()
	v.Parkings = int(d.uvarint())
	v.SpaceID = int(d.varint())
	if d.err != nil {
		return nil, fmt.Errorf("decode vehicle: %w", d.err)
	}
	return v, nil
}

func decodeSpaceInto(lot *parking.Lot, p []byte) error {
	d := &decoder{r: bytes.NewReader(p)}
	id := int(d.uvarint())
	occupied := d.byte() == 1
	count := int(d.uvarint())
	revenue := d.float()
	plate := d.str()
	if d.err != nil {
		return fmt.Errorf("decode space: %w", d.err)
	}
	s, err := lot.Space(id)
	if err != nil {
		return fmt.Errorf("snapshot references unknown space %d: %w", id, err)
	}
	s.Occupied = occupied
	s.OccupancyCount = count
	s.TotalRevenue = revenue
	s.ParkedPlate = plate
	return nil
}

// decoder reads one record payload, remembering the first failure so call
// sites stay flat.
type decoder struct {
	r   *bytes.Reader
	err error
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(d.r)
	d.err = err
	return v
}

func (d *decoder) varint() int64 {
	if d.err != nil {
		return 0
	}
	v, err := binary.ReadVarint(d.r)
	d.err = err
	return v
}

func (d *decoder) byte() byte {
	if d.err != nil {
		return 0
	}
	b, err := d.r.ReadByte()
	d.err = err
	return b
}

func (d *decoder) str() string {
	n := d.uvarint()
	if d.err != nil {
		return ""
	}
	if n > uint64(d.r.Len()) {
		d.err = errors.New("string length exceeds record")
		return ""
	}
	buf := make([]byte, n)
	_, d.err = io.ReadFull(d.r, buf)
	return string(buf)
}

func (d *decoder) float() float64 {
	if d.err != nil {
		return 0
	}
	var tmp [8]byte
	if _, err := io.ReadFull(d.r, tmp[:]); err != nil {
		d.err = err
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(tmp[:]))
}

func (d *decoder) unix() time.Time {
	if d.byte() == 0 {
		return time.Time{}
	}
	return time.Unix(d.varint(), 0)
}
