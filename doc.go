// Package devcmd is the textual front-end of a device-control protocol. It
// turns a CR LF terminated ASCII command stream into typed Command values for
// an executor that drives a memory-mapped or serial device.
//
// Parsing happens in two stages:
//   - Scanner, a 12-state machine fed one byte at a time, emits Identifier,
//     String, Number and Finish tokens. Numbers may be decimal, 0b binary,
//     0o octal, 0x hexadecimal or 0d explicit decimal, each with an optional
//     leading '-'. Strings are single-quoted printable ASCII with backslash
//     escapes.
//   - Parser pulls bytes from a Source until the Scanner yields a token and
//     checks each command's arguments against their ranges.
//
// The grammar:
//
//	rb <addr>          ReadByte   addr in [0, 2^31-1]
//	wb <addr> <byte>   WriteByte  byte in [-128, 255], negatives as two's complement
//	rd <addr> <len>    ReadData   len in [0, 2^31-1]
//	wp <page>          WritePage  page in [0, 1023]
//	sd <device>        SetDevice  x00 x01 x02 x04 x08 x16 x32 x64 x128 x256 x512 xm01 xm02
//
// Scanning and parsing never allocate. Identifiers and strings are limited to
// 15 bytes; a longer literal, or a number outside the signed 32-bit range, is
// an error rather than a truncation.
//
// Three sources are provided: ReaderSource over any io.Reader, BufferSource
// (a fixed 32-byte queue for embedded use) and, on Linux, SerialSource over a
// raw serial port.
//
// Example usage:
//
//	src, err := devcmd.OpenSerial(devcmd.SerialConfig{Device: "/dev/ttyUSB0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
//	p := devcmd.NewParser(src)
//	for {
//	    cmd, err := p.ParseCommand()
//	    if err != nil {
//	        log.Println("parse failed:", err)
//	        return
//	    }
//	    fmt.Println(cmd)
//	}
//
// A failed ParseCommand leaves the scanner wherever the bad byte was. Callers
// that want to keep going call Parser.Resync to skip to the next line.
package devcmd
