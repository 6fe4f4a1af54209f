package db

import (
	"encoding/binary"
	"math"
)

// EncodeVector packs float32 values little-endian into a binary string, the
// wire form the engine expects for vector hash fields and KNN BLOB params.
func EncodeVector(vec []float32) string {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// DecodeVector unpacks a binary string back into float32 values.
func DecodeVector(s string) []float32 {
	if len(s)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(s)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32([]byte(s[i*4 : i*4+4])))
	}
	return vec
}
