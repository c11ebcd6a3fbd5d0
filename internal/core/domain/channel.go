package domain

// Channel identifies a radio channel the agent can dwell on. 2.4 GHz
// channels use their native numbering (1-14). 5 GHz channels use their
// native numbering (36-177). 6 GHz channels are represented in offset
// form (raw channel + Offset6G) so their identifiers never collide with
// 2.4/5 GHz channel numbers.
type Channel int

// Band identifies the frequency band a Channel belongs to.
type Band string

const (
	Band2G Band = "2G"
	Band5G Band = "5G"
	Band6G Band = "6G"
)

// Offset6G is added to a raw 6 GHz channel number to keep its identifier
// disjoint from 2.4/5 GHz channel numbers (which overlap 6 GHz's native
// UNII-5/6/7/8 numbering).
const Offset6G Channel = 190

// Channels2G is the standard set of 2.4 GHz channel numbers.
var Channels2G = func() []Channel {
	chs := make([]Channel, 0, 14)
	for i := 1; i <= 14; i++ {
		chs = append(chs, Channel(i))
	}
	return chs
}()

// Channels5G is the standard set of 5 GHz channel numbers.
var Channels5G = []Channel{
	36, 40, 44, 48, 52, 56, 60, 64,
	100, 104, 108, 112, 116, 120, 124, 128,
	132, 136, 140, 144, 149, 153, 157, 161,
	165, 169, 173, 177,
}

// raw6GChannels lists the native UNII-5 through UNII-8 channel numbers
// for 6 GHz. WiFi 6E channel numbers (1, 5, 9, ...) overlap with 2.4 GHz
// numbers, so consumers must convert through Offset6G before handing
// these to the bandit.
var raw6GChannels = []Channel{
	1, 5, 9, 13, 17, 21, 25, 29, 33, 37, 41, 45,
	49, 53, 57, 61, 65, 69, 73, 77, 81, 85, 89, 93,
}

// Channels6G is the standard set of 6 GHz channel identifiers, already
// converted to offset form.
var Channels6G = func() []Channel {
	chs := make([]Channel, 0, len(raw6GChannels))
	for _, raw := range raw6GChannels {
		chs = append(chs, raw+Offset6G)
	}
	return chs
}()

var (
	channels2GSet = toSet(Channels2G)
	channels5GSet = toSet(Channels5G)
	channels6GSet = toSet(Channels6G)
)

func toSet(chs []Channel) map[Channel]struct{} {
	set := make(map[Channel]struct{}, len(chs))
	for _, c := range chs {
		set[c] = struct{}{}
	}
	return set
}

// BandOf maps a channel number to its band. Explicit membership in the
// standard sets takes priority; channels outside the standard sets fall
// back to range heuristics (hardware sometimes reports channels outside
// the canonical lists).
func BandOf(ch Channel) Band {
	if _, ok := channels6GSet[ch]; ok {
		return Band6G
	}
	if _, ok := channels5GSet[ch]; ok {
		return Band5G
	}
	if _, ok := channels2GSet[ch]; ok {
		return Band2G
	}
	switch {
	case ch > 177:
		return Band6G
	case ch > 14:
		return Band5G
	default:
		return Band2G
	}
}

// RawToOffset6G converts a native 6 GHz channel number (as hardware
// reports it) to its offset form.
func RawToOffset6G(raw Channel) Channel {
	return raw + Offset6G
}

// OffsetToRaw6G converts an offset-form 6 GHz channel back to the native
// number a radio command expects.
func OffsetToRaw6G(offset Channel) Channel {
	return offset - Offset6G
}
