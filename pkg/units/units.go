// Package units converts numeric series between measurement units.
//
// A conversion is named by a code such as "m to km" or "rad to deg", the same
// strings used for an axis scale factor in plot templates. [Convert] never
// mutates its input: it returns a fresh slice of the same length and order.
//
// The empty code and "None" mean identity. Anything not listed in [Codes]
// fails with [errors.ErrCodeInvalidConversion].
package units

import (
	"math"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// Conversion codes.
const (
	None     = "None"
	MToKm    = "m to km"
	KmToM    = "km to m"
	MToKft   = "m to kft"
	MToNMI   = "m to NMI"
	KmToKft  = "km to kft"
	KmToNMI  = "km to NMI"
	FtToKm   = "ft to km"
	FtToKft  = "ft to kft"
	FtToNMI  = "ft to NMI"
	MpsToKts = "mps to kts"
	KtsToMps = "kts to mps"
	M2ToDBsm = "m^2 to dBsm"
	DBsmToM2 = "dBsm to m^2"
	RadToDeg = "rad to deg"
	DegToRad = "deg to rad"
)

// Exact definitions keep inverse pairs consistent.
const (
	metresPerFoot    = 0.3048
	metresPerNMI     = 1852.0
	secondsPerHour   = 3600.0
	metresPerKiloFt  = 1000 * metresPerFoot
	knotsPerMetreSec = secondsPerHour / metresPerNMI
)

// dBsmEpsilon keeps log10 away from zero, matching the spacing of 0.
const dBsmEpsilon = math.SmallestNonzeroFloat64

var scaleFactors = map[string]float64{
	MToKm:    0.001,
	KmToM:    1000,
	MToKft:   1 / metresPerKiloFt,
	MToNMI:   1 / metresPerNMI,
	KmToKft:  1000 / metresPerKiloFt,
	KmToNMI:  1000 / metresPerNMI,
	FtToKm:   metresPerFoot / 1000,
	FtToKft:  0.001,
	FtToNMI:  metresPerFoot / metresPerNMI,
	MpsToKts: knotsPerMetreSec,
	KtsToMps: 1 / knotsPerMetreSec,
	RadToDeg: 180 / math.Pi,
	DegToRad: math.Pi / 180,
}

var transforms = map[string]func(float64) float64{
	M2ToDBsm: func(x float64) float64 { return 10 * math.Log10(x+dBsmEpsilon) },
	DBsmToM2: func(x float64) float64 { return math.Pow(10, x/10) },
}

// codes lists the supported codes in display order.
var codes = []string{
	MToKm, KmToM, MToKft, MToNMI, KmToKft, KmToNMI,
	FtToKm, FtToKft, FtToNMI,
	MpsToKts, KtsToMps,
	M2ToDBsm, DBsmToM2,
	RadToDeg, DegToRad,
}

// Codes returns the supported conversion codes, excluding the identity.
func Codes() []string {
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// IsIdentity reports whether code leaves values unchanged.
func IsIdentity(code string) bool {
	return code == "" || code == None || code == "none"
}

// Valid reports whether code is a supported conversion or the identity.
func Valid(code string) bool {
	if IsIdentity(code) {
		return true
	}
	if _, ok := scaleFactors[code]; ok {
		return true
	}
	_, ok := transforms[code]
	return ok
}

// Convert applies the conversion named by code to values and returns the
// result in a new slice.
func Convert(values []float64, code string) ([]float64, error) {
	out := make([]float64, len(values))
	if IsIdentity(code) {
		copy(out, values)
		return out, nil
	}
	if k, ok := scaleFactors[code]; ok {
		for i, v := range values {
			out[i] = v * k
		}
		return out, nil
	}
	if fn, ok := transforms[code]; ok {
		for i, v := range values {
			out[i] = fn(v)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConversion, "unsupported conversion: %q", code)
}

// ConvertPair converts a (min, max) bound pair, used for manual axis limits.
func ConvertPair(lo, hi float64, code string) (float64, float64, error) {
	out, err := Convert([]float64{lo, hi}, code)
	if err != nil {
		return 0, 0, err
	}
	return out[0], out[1], nil
}
