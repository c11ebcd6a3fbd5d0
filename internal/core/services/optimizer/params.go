package optimizer

// Bound is an inclusive (lo, hi) range for one continuous parameter.
type Bound struct {
	Lo float64
	Hi float64
}

// ParameterSpace is a fixed, ordered list of named continuous
// parameters. Order matters: it fixes the dimension ordering used by
// the normalized GP vectors.
type ParameterSpace struct {
	Names  []string
	Bounds []Bound
}

// DefaultTimingParams is the default scanner-timing parameter space:
// five continuous knobs the optimizer tunes across epochs.
func DefaultTimingParams() ParameterSpace {
	return ParameterSpace{
		Names: []string{"recon_time", "hop_recon_time", "min_recon_time", "ap_ttl", "sta_ttl"},
		Bounds: []Bound{
			{Lo: 5.0, Hi: 120.0},
			{Lo: 2.0, Hi: 60.0},
			{Lo: 1.0, Hi: 30.0},
			{Lo: 30.0, Hi: 600.0},
			{Lo: 30.0, Hi: 600.0},
		},
	}
}

func (ps ParameterSpace) normalize(params map[string]float64) []float64 {
	x := make([]float64, len(ps.Names))
	for i, name := range ps.Names {
		b := ps.Bounds[i]
		val := params[name]
		if b.Hi > b.Lo {
			x[i] = (val - b.Lo) / (b.Hi - b.Lo)
		} else {
			x[i] = 0.5
		}
	}
	return x
}

func (ps ParameterSpace) denormalize(x []float64) map[string]float64 {
	params := make(map[string]float64, len(ps.Names))
	for i, name := range ps.Names {
		b := ps.Bounds[i]
		params[name] = b.Lo + x[i]*(b.Hi-b.Lo)
	}
	return params
}

// IntegerParams is the subset of the default timing parameter space the
// orchestrator rounds to whole numbers before applying (all of them are
// durations expressed in whole seconds in the surrounding scanner
// config).
var IntegerParams = map[string]bool{
	"recon_time":     true,
	"hop_recon_time": true,
	"min_recon_time": true,
	"ap_ttl":         true,
	"sta_ttl":        true,
}
