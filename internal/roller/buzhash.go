// Package roller implements the BuzHash-based windowed boundary detector
// from spec.md §4.E, used both by the Prolly Tree/List builders (feeding
// serialized element bytes) and the byte chunker (feeding raw content
// bytes, with FastCDC's size gates layered on top).
package roller

// DefaultWindow is the rolling hash window size in bytes (spec.md's W=67).
const DefaultWindow = 67

// DefaultPattern is the default boundary mask, giving an average chunk
// size of roughly 4KiB: (1<<12)-1.
const DefaultPattern uint32 = (1 << 12) - 1

// table holds 256 random 32-bit words, one per byte value. This table is
// part of the on-disk format (spec.md §4.E): changing it changes every Cid
// derived through the rolling hash, so it must never be regenerated
// casually once content has been written against it.
var table = [256]uint32{
	0xacd0a3dd, 0x42077f9d, 0xab1c8174, 0x87b2ccfe, 0x3375c630, 0x51e725fd, 0xc3ecbac8, 0x050019cc,
	0x051da158, 0x5000e349, 0xa6f28188, 0xdd58c06b, 0xa52e4874, 0x1c6aa3bd, 0x34e82f9c, 0x58ef1691,
	0x5658942d, 0xcecd30bd, 0x8d5939c5, 0xe01454e5, 0x48ce8e0b, 0xfb0e4e2e, 0xd87ad99d, 0xf0f29610,
	0x452434ff, 0x1f11d27d, 0x5beb2448, 0xa420fae2, 0x8dd32b59, 0x2b77eb76, 0x5f5bf951, 0xfacce159,
	0xf1cf914d, 0x63ab662e, 0x784a72a4, 0x9cc57469, 0x942b08bf, 0x2a6efa05, 0xc2aa9e11, 0xdd4ad3b4,
	0x48922a60, 0x4694a2e7, 0xa0f6bdd4, 0x80ab8af0, 0x48d06346, 0x8b6a51e8, 0x6138489f, 0xa10e3d65,
	0x4a98934f, 0x553759a8, 0x16e92258, 0x5cc09d76, 0x4c1df425, 0x9fb03287, 0xc4031d5c, 0xf917002f,
	0x6217bcfa, 0x1d343685, 0x5711335d, 0x6d15c67f, 0x7a3689c7, 0xa49293cc, 0x78635244, 0x5b9f79eb,
	0x7eec0894, 0x9b0beb22, 0xece0106f, 0xeefa41f4, 0x8b46a68c, 0x0d878f93, 0xb53f5527, 0x00ffda8c,
	0x59e5cb31, 0x2f4d6f3a, 0xce4c074c, 0xccc14fbe, 0x2fae8c12, 0xbaa253fa, 0xfb755cf5, 0xf69aefa0,
	0xfb80d9e8, 0x825e3ce5, 0x810f954c, 0xcec3afc5, 0xba6a7c40, 0xd82b1428, 0x5472bd67, 0xa2df99e7,
	0xac2511cf, 0x3f2d73f6, 0x946611e3, 0xfbad34ed, 0xb2959ef5, 0x0275a406, 0xc9524e22, 0xacdcd145,
	0xb600135a, 0x45d2d586, 0xf63c34b3, 0x2835607a, 0x8ea97351, 0xad1595d3, 0xd74df03b, 0xb4c6daff,
	0xd41d1e6c, 0xa2212444, 0x1aa26ed2, 0x96c04bcd, 0x74d50f4b, 0x6b6de429, 0x7b003872, 0x8ce7507d,
	0xc777a598, 0xea46ee86, 0x2f9dfd8c, 0xf2089f57, 0xd892700f, 0xa32ba82f, 0xf48ba84a, 0x9a02f331,
	0xbdfd9db8, 0x3bf0393f, 0x8c12fca1, 0xdcfd45ac, 0x47d42c54, 0x95fb541c, 0x6e3371cf, 0x484fd7ed,
	0xc9578d57, 0x2cc6e035, 0x5a9f4413, 0x652669c7, 0x579604e3, 0xab36b4e5, 0x4a2fd1f0, 0xca5f5308,
	0xefeea462, 0x66457604, 0x7d5c6112, 0xbe9354a9, 0x44948812, 0x7c71976e, 0x76e0ff33, 0x3aa7e9ff,
	0x3aed49f6, 0x661b9a08, 0x9e18b9e6, 0xc9028951, 0xd743ab59, 0xfb9ede87, 0x327bb584, 0xede6eb04,
	0x53913550, 0xec72db0f, 0xdc2a4713, 0x2e9b5e19, 0x82a7e5b2, 0x8387a44b, 0x304cb6ef, 0xefa7fe3f,
	0xec098bda, 0x551dfa76, 0x28c8992b, 0xcef32c89, 0x380cac8a, 0xa0f0920a, 0xc38b425c, 0x3f0003f6,
	0x77833d69, 0x5104d341, 0x683de22b, 0xdac6eca1, 0x58a27bd9, 0x10a2041a, 0x42ae4ac9, 0x2ed2014f,
	0xd2f0a925, 0x9e39115a, 0x2820c0c6, 0x5f57547a, 0x2b790385, 0x16152980, 0x0ef7a194, 0x47b1591e,
	0x4ac70fae, 0xd5d79028, 0xd716f8e7, 0x52785695, 0xae6a5716, 0x6d0bdd95, 0x17ef63b6, 0x7fdc15ca,
	0xd8183c18, 0xbc35fc93, 0xf5afb74a, 0x010fb758, 0xfd991b7b, 0xb072c1dd, 0x87967b42, 0xed961f79,
	0xf4c7f57b, 0x5f8365eb, 0xa09d55c9, 0x441cde6d, 0x6bd1048b, 0x258d5f7d, 0x2a667a89, 0x48525e46,
	0xc717ae96, 0x3b11aeee, 0x0c25ab6c, 0xefcbcb68, 0x8eea3350, 0x96c72743, 0x4554d0c7, 0x55503edb,
	0x375cd65e, 0x41c27795, 0x680f1488, 0xc250deb7, 0x094dd1fd, 0x661865e6, 0xbb951813, 0x50323f3b,
	0xfa567077, 0xcf0a513a, 0x84a4bb87, 0xea9b085f, 0xb2b19b39, 0xbfefcaee, 0xa8e60694, 0x8873f0b4,
	0x9b464a28, 0x569bb060, 0xad67fad6, 0x09451549, 0x621f9914, 0xb87ee5a7, 0x46bd4fe2, 0xd5e663d4,
	0x11778d54, 0x263b8880, 0xcb750d79, 0x5cf4baad, 0x60be95a4, 0xc0777cf2, 0x52a7b6c7, 0x16060e95,
	0xf84ccd90, 0x70aaf8c4, 0xc4fb5f9e, 0x282ddcc7, 0x7c47bfaf, 0xea07cded, 0x55fc66ad, 0x3b672cba,
}

// rotl rotates v left by n bits, 0 <= n < 32.
func rotl(v uint32, n uint32) uint32 {
	n &= 31
	if n == 0 {
		return v
	}
	return (v << n) | (v >> (32 - n))
}

// rotr rotates v right by n bits, 0 <= n < 32.
func rotr(v uint32, n uint32) uint32 {
	n &= 31
	if n == 0 {
		return v
	}
	return (v >> n) | (v << (32 - n))
}

// Roller is a continuous-state BuzHash boundary detector. The zero value is
// not usable; construct with New.
type Roller struct {
	window  []byte
	pos     int
	full    bool
	state   uint32
	pattern uint32
}

// New constructs a Roller with the given window size and boundary pattern.
// A zero window defaults to DefaultWindow, a zero pattern to DefaultPattern.
func New(window int, pattern uint32) *Roller {
	if window <= 0 {
		window = DefaultWindow
	}
	if pattern == 0 {
		pattern = DefaultPattern
	}
	return &Roller{
		window:  make([]byte, window),
		pattern: pattern,
	}
}

// NewDefault constructs a Roller with spec.md's default window (67) and
// pattern ((1<<12)-1).
func NewDefault() *Roller { return New(DefaultWindow, DefaultPattern) }

// Reset clears the rolling state, matching spec.md's "state is continuous
// across calls until reset".
func (r *Roller) Reset() {
	for i := range r.window {
		r.window[i] = 0
	}
	r.pos = 0
	r.full = false
	r.state = 0
}

// RollByte folds one byte into the rolling state and reports whether this
// position is a boundary (spec.md §4.E: state = rotl(state,1) xor
// table[entering]; once the window is full, also xor out the leaving byte
// rotated by the window-size residue).
func (r *Roller) RollByte(b byte) bool {
	w := len(r.window)
	wMod32 := uint32(w % 32)

	r.state = rotl(r.state, 1) ^ table[b]

	if r.full {
		// The leaving byte was folded in W rolls ago, so its contribution has
		// accumulated W left-rotations; mod 32 that's rotl by (W mod 32),
		// equivalently rotr by (32 - (W mod 32)) (spec.md §4.E).
		leaving := r.window[r.pos]
		r.state ^= rotl(table[leaving], wMod32)
	}

	r.window[r.pos] = b
	r.pos++
	if r.pos == w {
		r.pos = 0
		r.full = true
	}

	return (r.state & r.pattern) == r.pattern
}

// RollBytes folds an entire slice into the rolling state, returning true if
// any byte in the slice triggered a boundary.
func (r *Roller) RollBytes(buf []byte) bool {
	hit := false
	for _, b := range buf {
		if r.RollByte(b) {
			hit = true
		}
	}
	return hit
}

// State returns the current raw rolling-hash state, mostly useful for
// tests that assert on the published table's determinism (spec.md §8
// scenario 6).
func (r *Roller) State() uint32 { return r.state }
