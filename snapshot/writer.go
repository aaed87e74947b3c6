// Package snapshot saves and restores the full lot state as a stream of
// length-prefixed binary records compressed with snappy. Records are written
// in index key order (vehicles by plate, then spaces by id) so a snapshot is
// also a deterministic, diffable export.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/golang/snappy"

	"smartparking/parking"
)

// header precedes the compressed stream: magic plus a format version.
// Version 2 added a presence byte in front of every timestamp.
var header = []byte{'S', 'P', 'K', 'L', 2}

const (
	kindVehicle byte = 1
	kindSpace   byte = 2
)

// Save writes the lot's state to path, replacing any previous snapshot.
func Save(path string, lot *parking.Lot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := Write(f, lot); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}

// Write streams every vehicle and space record through a snappy writer.
func Write(w io.Writer, lot *parking.Lot) error {
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	sw := snappy.NewBufferedWriter(w)

	var scratch bytes.Buffer
	emit := func(payload []byte) error {
		var frame [binary.MaxVarintLen64]byte
		n := binary.PutUvarint(frame[:], uint64(len(payload)))
		if _, err := sw.Write(frame[:n]); err != nil {
			return err
		}
		_, err := sw.Write(payload)
		return err
	}

	for _, v := range lot.Vehicles() {
		scratch.Reset()
		encodeVehicle(&scratch, v)
		if err := emit(scratch.Bytes()); err != nil {
			return fmt.Errorf("write vehicle %s: %w", v.Plate, err)
		}
	}
	for _, s := range lot.Spaces() {
		scratch.Reset()
		encodeSpace(&scratch, s)
		if err := emit(scratch.Bytes()); err != nil {
			return fmt.Errorf("write space %d: %w", s.ID, err)
		}
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

func encodeVehicle(b *bytes.Buffer, v *parking.Vehicle) {
	b.WriteByte(kindVehicle)
	putString(b, v.Plate)
	putString(b, v.Owner)
	putUnix(b, v.Arrival)
	putUnix(b, v.LastDeparture)
	putUvarint(b, uint64(v.Membership))
	putFloat(b, v.TotalHours)
	putFloat(b, v.TotalPaid)
	putUvarint(b, uint64(v.Parkings))
	putVarint(b, int64(v.SpaceID))
}

func encodeSpace(b *bytes.Buffer, s *parking.Space) {
	b.WriteByte(kindSpace)
	putUvarint(b, uint64(s.ID))
	if s.Occupied {
		b.WriteByte(1)
	} else {
		b.WriteByte(0)
	}
	putUvarint(b, uint64(s.OccupancyCount))
	putFloat(b, s.TotalRevenue)
	putString(b, s.ParkedPlate)
}

func putString(b *bytes.Buffer, s string) {
	putUvarint(b, uint64(len(s)))
	b.WriteString(s)
}

func putUvarint(b *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	b.Write(tmp[:n])
}

func putVarint(b *bytes.Buffer, v int64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	b.Write(tmp[:n])
}

func putFloat(b *bytes.Buffer, f float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(f))
	b.Write(tmp[:])
}

// putUnix stores a presence byte and then unix seconds, so an unset
// timestamp is distinguishable from the epoch itself.
func putUnix(b *bytes.Buffer, t time.Time) {
	if t.IsZero() {
		b.WriteByte(0)
		return
	}
	b.WriteByte(1)
	putVarint(b, t.Unix())
}
