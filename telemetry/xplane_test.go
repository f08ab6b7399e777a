package telemetry

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func row(id int32, values [8]float32) []byte {
	buf := make([]byte, rowLen)
	binary.LittleEndian.PutUint32(buf, uint32(id))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4+i*4:], math.Float32bits(v))
	}
	return buf
}

func packet(rows ...[]byte) []byte {
	pkt := []byte("DATA*")
	for _, r := range rows {
		pkt = append(pkt, r...)
	}
	return pkt
}

func TestDecodePositionAndAttitude(t *testing.T) {
	pkt := packet(
		row(RowPosition, [8]float32{47.26, 11.34, 1900}),
		row(RowAttitude, [8]float32{2.5, -1.25, 0, 278.5}),
	)

	snap, err := Decode(Snapshot{}, pkt)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !snap.HasFix {
		t.Error("position row did not set HasFix")
	}
	if got := snap.Position.Latitude; math.Abs(got-47.26) > 1e-5 {
		t.Errorf("latitude %v, want 47.26", got)
	}
	if got := snap.Position.Longitude; math.Abs(got-11.34) > 1e-5 {
		t.Errorf("longitude %v, want 11.34", got)
	}
	if got := snap.Position.Altitude; math.Abs(got-1900) > 1e-3 {
		t.Errorf("altitude %v, want 1900", got)
	}
	if got := snap.Attitude.Heading; math.Abs(got-278.5) > 1e-4 {
		t.Errorf("heading %v, want 278.5", got)
	}
	if got := snap.Attitude.Pitch; math.Abs(got-2.5) > 1e-6 {
		t.Errorf("pitch %v, want 2.5", got)
	}
	if got := snap.Attitude.Roll; math.Abs(got+1.25) > 1e-6 {
		t.Errorf("roll %v, want -1.25", got)
	}
}

func TestDecodeFoldsOverPrevious(t *testing.T) {
	first, err := Decode(Snapshot{}, packet(row(RowPosition, [8]float32{10, 20, 500})))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Decode(first, packet(row(RowAttitude, [8]float32{0, 0, 0, 90})))
	if err != nil {
		t.Fatal(err)
	}
	if second.Position != first.Position {
		t.Error("attitude-only packet disturbed the position")
	}
	if second.Attitude.Heading != 90 {
		t.Errorf("heading %v, want 90", second.Attitude.Heading)
	}
	if first.Attitude.Heading != 0 {
		t.Error("decode mutated its input snapshot")
	}
}

func TestDecodeVerticalSpeedConversion(t *testing.T) {
	snap, err := Decode(Snapshot{}, packet(row(RowVVI, [8]float32{0, 0, 600})))
	if err != nil {
		t.Fatal(err)
	}
	// 600 feet per minute is 10 feet per second.
	if got := snap.Speeds.Vertical; math.Abs(got-10) > 1e-6 {
		t.Errorf("vertical speed %v, want 10", got)
	}
}

func TestDecodeEngineRows(t *testing.T) {
	pkt := packet(
		row(RowRPM, [8]float32{2400}),
		row(RowOilTemp, [8]float32{92}),
		row(RowFuelQuantity, [8]float32{40, 38, 0, 0, 99, 99, 99, 99}),
	)
	snap, err := Decode(Snapshot{}, pkt)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Engine.RPM != 2400 {
		t.Errorf("RPM %v, want 2400", snap.Engine.RPM)
	}
	if snap.Engine.OilTemp != 92 {
		t.Errorf("oil temp %v, want 92", snap.Engine.OilTemp)
	}
	if want := [4]float64{40, 38, 0, 0}; snap.Engine.FuelQuantity != want {
		t.Errorf("fuel quantity %v, want %v", snap.Engine.FuelQuantity, want)
	}
}

func TestDecodeSkipsUnknownRows(t *testing.T) {
	pkt := packet(
		row(99, [8]float32{1, 2, 3}),
		row(RowPosition, [8]float32{1, 2, 3}),
	)
	snap, err := Decode(Snapshot{}, pkt)
	if err != nil {
		t.Fatalf("unknown row made Decode fail: %v", err)
	}
	if !snap.HasFix {
		t.Error("known row after an unknown one was dropped")
	}
}

func TestDecodeRejectsForeignPacket(t *testing.T) {
	for _, pkt := range [][]byte{
		[]byte("BECN*xxxx"),
		[]byte("DAT"),
		nil,
	} {
		if _, err := Decode(Snapshot{}, pkt); !errors.Is(err, ErrNotData) {
			t.Errorf("Decode(%q) err = %v, want ErrNotData", pkt, err)
		}
	}
}

func TestDecodeRejectsTruncatedRow(t *testing.T) {
	pkt := packet(row(RowPosition, [8]float32{1, 2, 3}))[:20]
	if _, err := Decode(Snapshot{}, pkt); !errors.Is(err, ErrShortPacket) {
		t.Errorf("err = %v, want ErrShortPacket", err)
	}
}

func TestDecodePreservesPrevOnError(t *testing.T) {
	prev, err := Decode(Snapshot{}, packet(row(RowPosition, [8]float32{10, 20, 500})))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := Decode(prev, []byte("garbage"))
	if got != prev {
		t.Error("failed decode did not return the previous snapshot")
	}
}
