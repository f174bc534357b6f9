// Package hamming owns the extended Hamming SECDED codec.
//
// Ownership boundary:
// - code descriptors and parity coverage tables
// - message <-> codeword stream encoding
// - per-codeword syndrome decoding and correction
//
// Codeword layout:
// - position 0 holds the overall parity bit
// - positions 1, 2, 4, 8, ... hold the syndrome parity bits
// - every other position holds a data bit, in ascending order
//
// Bit order is LSB-first everywhere: message bit i is bit i%8 of byte i/8,
// codeword position p is bit p of the codeword value, and codeword bytes are
// written least-significant first.
package hamming
