// Package comm carries the rig protocol over packet transports.
package comm

// PacketReader reads one packet per call.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes one packet per call.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter is a bidirectional packet transport.
// A packet holds exactly one encoded message.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
