// Package rippeg implements a small transform codec for still images
// (.rippeg) and a two-frame motion-compensated extension (.mrippeg).
//
// A frame is converted to YCbCr, padded to the 8x8 block grid, and its
// chroma planes are subsampled 4:2:0. Every block goes through a DCT,
// quantization with quality-scaled JPEG tables and a zigzag scan; each
// plane's coefficient sequences are then run-length coded into one section.
//
// # Still stream
//
//	int16  height
//	int16  width
//	uint8  quality
//	int32  yLen, cbLen, crLen
//	[yLen]byte Y section, [cbLen]byte Cb section, [crLen]byte Cr section
//
// # Motion stream
//
//	still header fields
//	int32  diffYLen, diffCbLen, diffCrLen
//	int32  mvYLen, mvCbLen, mvCrLen      (vector counts)
//	I-frame sections, difference-frame sections
//	(mvYLen+mvCbLen+mvCrLen) x {int32 x, y, u, v}
//
// All fields are little-endian. Decoders read the header first and reject
// streams whose declared sections do not exactly fill the remaining bytes.
//
// Block work runs in parallel; output is identical to a sequential run.
package rippeg
