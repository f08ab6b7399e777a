// Command xpfeed sends synthetic X-Plane DATA* packets: the aircraft flies
// a circle so the map's follow and heading behavior can be exercised
// without a simulator.
package main

import (
	"encoding/binary"
	"flag"
	"log"
	"math"
	"net"
	"time"

	"movingmap/telemetry"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:49003", "where to send packets")
	lat := flag.Float64("lat", 48.8566, "circle center latitude")
	lng := flag.Float64("lng", 2.3522, "circle center longitude")
	radius := flag.Float64("radius", 0.05, "circle radius in degrees")
	period := flag.Duration("period", 2*time.Minute, "time per full circle")
	rate := flag.Duration("rate", 100*time.Millisecond, "packet interval")
	flag.Parse()

	conn, err := net.Dial("udp", *addr)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	start := time.Now()
	for range time.Tick(*rate) {
		phase := 2 * math.Pi * float64(time.Since(start)) / float64(*period)
		curLat := *lat + *radius*math.Cos(phase)
		curLng := *lng + *radius*math.Sin(phase)
		// Flying the circle clockwise, the track leads the phase angle by
		// 90 degrees.
		heading := math.Mod(phase*180/math.Pi+90, 360)

		pkt := packet(
			row(telemetry.RowPosition, [8]float32{float32(curLat), float32(curLng), 3500}),
			row(telemetry.RowAttitude, [8]float32{0, 0, 0, float32(heading)}),
			row(telemetry.RowSpeeds, [8]float32{95, 0, 105, 102}),
		)
		if _, err := conn.Write(pkt); err != nil {
			log.Fatal(err)
		}
	}
}

func packet(rows ...[]byte) []byte {
	pkt := []byte("DATA*")
	for _, r := range rows {
		pkt = append(pkt, r...)
	}
	return pkt
}

func row(id int32, values [8]float32) []byte {
	buf := make([]byte, 36)
	binary.LittleEndian.PutUint32(buf, uint32(id))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4+i*4:], math.Float32bits(v))
	}
	return buf
}
