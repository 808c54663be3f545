package devcmd

import "fmt"

// CommandKind identifies which of the five commands a Command holds.
type CommandKind int

const (
	ReadByte CommandKind = iota + 1
	WriteByte
	ReadData
	WritePage
	SetDevice
)

// Command keywords as they appear on the wire.
const (
	KeywordReadByte  = "rb"
	KeywordWriteByte = "wb"
	KeywordReadData  = "rd"
	KeywordWritePage = "wp"
	KeywordSetDevice = "sd"
)

var keywords = [...]struct {
	name string
	kind CommandKind
}{
	{KeywordReadByte, ReadByte},
	{KeywordWriteByte, WriteByte},
	{KeywordReadData, ReadData},
	{KeywordWritePage, WritePage},
	{KeywordSetDevice, SetDevice},
}

func lookupKeyword(b []byte) (CommandKind, bool) {
	for _, k := range keywords {
		if string(b) == k.name {
			return k.kind, true
		}
	}
	return 0, false
}

// MaxPage is the highest page accepted by the wp command.
const MaxPage = 1023

func (k CommandKind) String() string {
	switch k {
	case ReadByte:
		return KeywordReadByte
	case WriteByte:
		return KeywordWriteByte
	case ReadData:
		return KeywordReadData
	case WritePage:
		return KeywordWritePage
	case SetDevice:
		return KeywordSetDevice
	default:
		return "unknown"
	}
}

// Command is a fully validated device command. Only the fields used by Kind
// are meaningful:
//
//	ReadByte   Address
//	WriteByte  Address, Data
//	ReadData   Address, Length
//	WritePage  Page
//	SetDevice  Device
//
// Command is a plain value so that parsing one never allocates.
type Command struct {
	Kind    CommandKind
	Address uint32
	Data    uint8
	Length  uint32
	Page    uint16
	Device  DeviceName
}

// NewReadByte returns a ReadByte command.
func NewReadByte(addr uint32) Command {
	return Command{Kind: ReadByte, Address: addr}
}

// NewWriteByte returns a WriteByte command.
func NewWriteByte(addr uint32, data uint8) Command {
	return Command{Kind: WriteByte, Address: addr, Data: data}
}

// NewReadData returns a ReadData command.
func NewReadData(addr, length uint32) Command {
	return Command{Kind: ReadData, Address: addr, Length: length}
}

// NewWritePage returns a WritePage command.
func NewWritePage(page uint16) Command {
	return Command{Kind: WritePage, Page: page}
}

// NewSetDevice returns a SetDevice command.
func NewSetDevice(d DeviceName) Command {
	return Command{Kind: SetDevice, Device: d}
}

// String renders the command in its canonical wire form, without the CR LF.
func (c Command) String() string {
	switch c.Kind {
	case ReadByte:
		return fmt.Sprintf("rb 0x%08x", c.Address)
	case WriteByte:
		return fmt.Sprintf("wb 0x%08x 0x%02x", c.Address, c.Data)
	case ReadData:
		return fmt.Sprintf("rd 0x%08x %d", c.Address, c.Length)
	case WritePage:
		return fmt.Sprintf("wp %d", c.Page)
	case SetDevice:
		return fmt.Sprintf("sd %s", c.Device)
	default:
		return "invalid command"
	}
}

// DeviceName is one entry of the fixed device catalog selectable with sd.
type DeviceName int

const (
	X00 DeviceName = iota
	X01
	X02
	X04
	X08
	X16
	X32
	X64
	X128
	X256
	X512
	XM01
	XM02
)

var deviceNames = [...]string{
	X00:  "x00",
	X01:  "x01",
	X02:  "x02",
	X04:  "x04",
	X08:  "x08",
	X16:  "x16",
	X32:  "x32",
	X64:  "x64",
	X128: "x128",
	X256: "x256",
	X512: "x512",
	XM01: "xm01",
	XM02: "xm02",
}

// DeviceNames returns the catalog in declaration order.
func DeviceNames() []DeviceName {
	names := make([]DeviceName, len(deviceNames))
	for i := range deviceNames {
		names[i] = DeviceName(i)
	}
	return names
}

func (d DeviceName) String() string {
	if d < 0 || int(d) >= len(deviceNames) {
		return "unknown"
	}
	return deviceNames[d]
}

// ParseDeviceName looks up a device identifier. Matching is case-sensitive.
func ParseDeviceName(s string) (DeviceName, bool) {
	return lookupDevice([]byte(s))
}

// lookupDevice compares without converting b, so the parser stays allocation-free.
func lookupDevice(b []byte) (DeviceName, bool) {
	for i, name := range deviceNames {
		if string(b) == name {
			return DeviceName(i), true
		}
	}
	return 0, false
}
