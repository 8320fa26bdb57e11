package ploc

// gridDim is the resolution of the cube the primitive centers are quantized
// onto before computing Morton codes; 1024 buckets per axis fits exactly in
// the 10 bits each axis contributes to a 30-bit interleaved code.
const gridDim = 1024

// expand spreads the low 10 bits of v so that two zero bits follow each one,
// the standard bit-interleaving trick behind 3D Morton codes.
func expand(v uint32) uint32 {
	v = (v | (v << 16)) & 0xff0000ff
	v = (v | (v << 8)) & 0x0f00f00f
	v = (v | (v << 4)) & 0xc30c30c3
	v = (v | (v << 2)) & 0x49249249
	return v
}

// encode interleaves the low 10 bits of x, y and z into a single 30-bit
// Morton code, so that points close in 3D space end up close in code order.
func encode(x, y, z uint32) uint32 {
	return expand(x) | (expand(y) << 1) | (expand(z) << 2)
}
