// Package transfer streams a packed memory image to a device over a serial
// channel.
//
// # Overview
//
// A Session owns one serial handle for exactly one transfer:
//
//	Closed -> Opening -> Syncing -> Sending -> Done
//	   \________\__________\__________\-----> Failed | Cancelled
//
// Opening optionally pulses a reset line (DTR or RTS) and waits for the board
// to settle, then clears stale buffers. Syncing waits for the loader firmware
// to become ready. Sending writes the payload in fixed-size chunks, draining
// the host buffer after each one before reporting progress. The protocol is
// one-directional: nothing is ever read back, and success means every byte
// was accepted by the channel.
//
// # Usage
//
//	s := transfer.New(serialport.NewOpener(), "/dev/ttyUSB0", 115200,
//	    transfer.WithReset(true),
//	    transfer.WithProgressCallback(func(p transfer.Progress) {
//	        fmt.Printf("\r%.1f%% %d/%d", p.Percent, p.BytesSent, p.TotalBytes)
//	    }),
//	)
//	res, err := s.Run(ctx, img.Payload)
//
// # Errors
//
//   - OpenError: the port could not be opened or configured (carries a hint)
//   - TransferError: an I/O failure after the port was open (carries byte counts)
//   - ErrCancelled: the context ended; never reported as an I/O failure
//
// The port is closed before Run returns on every path.
package transfer
