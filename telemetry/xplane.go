// Package telemetry decodes X-Plane "DATA*" UDP packets into immutable
// aircraft-state snapshots. The decoder is pure: each packet folds into a
// new Snapshot value, and dispatch is a table of row-id to transform
// function, so there is no shared mutable state anywhere.
package telemetry

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	headerLen = 5
	rowLen    = 36 // int32 row id + 8 float32 values
)

var packetHeader = []byte("DATA*")

var (
	ErrNotData     = errors.New("not a DATA* packet")
	ErrShortPacket = errors.New("short packet")
)

// X-Plane data-output row identifiers handled by the decoder.
const (
	RowSpeeds       = 3
	RowVVI          = 4
	RowAttitude     = 17
	RowSideslip     = 18
	RowPosition     = 20
	RowRPM          = 37
	RowManPress     = 43
	RowFuelFlow     = 45
	RowEGT          = 47
	RowCHT          = 48
	RowOilPress     = 49
	RowOilTemp      = 50
	RowFuelPress    = 51
	RowVolts        = 54
	RowFuelQuantity = 62
)

type Attitude struct {
	Pitch    float64
	Roll     float64
	Heading  float64
	Sideslip float64
}

type Position struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

type Speeds struct {
	Indicated float64
	True      float64
	Ground    float64
	Vertical  float64 // feet per second
}

type Engine struct {
	RPM          float64
	FuelFlow     float64
	EGT          float64
	CHT          float64
	OilPress     float64
	OilTemp      float64
	ManPress     float64
	FuelPress    float64
	BatteryVolts float64
	FuelQuantity [4]float64
}

// Snapshot is one decoded sample of aircraft state. Packets carry only the
// rows the simulator is configured to send, so Decode folds each packet
// over the previous snapshot and untouched fields carry forward.
type Snapshot struct {
	Attitude Attitude
	Position Position
	Speeds   Speeds
	Engine   Engine
	HasFix   bool
}

// rowFold applies one row's eight values to a snapshot, returning the
// updated value.
type rowFold func(Snapshot, [8]float64) Snapshot

var rowTable = map[int32]rowFold{
	RowSpeeds: func(s Snapshot, v [8]float64) Snapshot {
		s.Speeds.Indicated = v[0]
		s.Speeds.True = v[2]
		s.Speeds.Ground = v[3]
		return s
	},
	RowVVI: func(s Snapshot, v [8]float64) Snapshot {
		s.Speeds.Vertical = v[2] / 60 // rows report feet per minute
		return s
	},
	RowAttitude: func(s Snapshot, v [8]float64) Snapshot {
		s.Attitude.Pitch = v[0]
		s.Attitude.Roll = v[1]
		s.Attitude.Heading = v[3]
		return s
	},
	RowSideslip: func(s Snapshot, v [8]float64) Snapshot {
		s.Attitude.Sideslip = v[7]
		return s
	},
	RowPosition: func(s Snapshot, v [8]float64) Snapshot {
		s.Position.Latitude = v[0]
		s.Position.Longitude = v[1]
		s.Position.Altitude = v[2]
		s.HasFix = true
		return s
	},
	RowRPM:       engineFold(func(e *Engine, v [8]float64) { e.RPM = v[0] }),
	RowManPress:  engineFold(func(e *Engine, v [8]float64) { e.ManPress = v[0] }),
	RowFuelFlow:  engineFold(func(e *Engine, v [8]float64) { e.FuelFlow = v[0] }),
	RowEGT:       engineFold(func(e *Engine, v [8]float64) { e.EGT = v[0] }),
	RowCHT:       engineFold(func(e *Engine, v [8]float64) { e.CHT = v[0] }),
	RowOilPress:  engineFold(func(e *Engine, v [8]float64) { e.OilPress = v[0] }),
	RowOilTemp:   engineFold(func(e *Engine, v [8]float64) { e.OilTemp = v[0] }),
	RowFuelPress: engineFold(func(e *Engine, v [8]float64) { e.FuelPress = v[0] }),
	RowVolts:     engineFold(func(e *Engine, v [8]float64) { e.BatteryVolts = v[0] }),
	RowFuelQuantity: func(s Snapshot, v [8]float64) Snapshot {
		copy(s.Engine.FuelQuantity[:], v[:4])
		return s
	},
}

func engineFold(set func(*Engine, [8]float64)) rowFold {
	return func(s Snapshot, v [8]float64) Snapshot {
		set(&s.Engine, v)
		return s
	}
}

// Decode folds one DATA* packet over prev and returns the new snapshot.
// Rows with identifiers the decoder does not know are skipped. A packet
// without the DATA* header reports ErrNotData; a truncated row reports
// ErrShortPacket.
func Decode(prev Snapshot, pkt []byte) (Snapshot, error) {
	if len(pkt) < headerLen || !bytes.Equal(pkt[:headerLen], packetHeader) {
		return prev, ErrNotData
	}
	body := pkt[headerLen:]
	if len(body)%rowLen != 0 {
		return prev, fmt.Errorf("%w: %d trailing bytes", ErrShortPacket, len(body)%rowLen)
	}

	s := prev
	for off := 0; off < len(body); off += rowLen {
		id := int32(binary.LittleEndian.Uint32(body[off:]))
		var v [8]float64
		for i := 0; i < 8; i++ {
			bits := binary.LittleEndian.Uint32(body[off+4+i*4:])
			v[i] = float64(math.Float32frombits(bits))
		}
		if fold, ok := rowTable[id]; ok {
			s = fold(s, v)
		}
	}
	return s, nil
}
