// Package domain contains the memory-image value types for memship.
//
// It has no dependencies on infrastructure concerns (serial ports, files,
// logging) and holds only the rules that every other package agrees on.
//
// # Entities
//
//   - [Word]: one addressable memory value, masked to the layout's bit width
//   - [Layout]: target word count and word width for a hardware revision
//   - [Image]: a normalized, packed payload ready for transmission
package domain
