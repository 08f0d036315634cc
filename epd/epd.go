// Package epd drives the IT8951 e-paper controller over SPI.
//
// The IT8951 fronts the large Waveshare e-paper panels (up to 1872×1404
// pixels) and loads image data at 2, 4 or 8 bits per pixel, with a packed
// 1-bit mode on top, so it consumes a [paint.Canvas] buffer directly at any
// supported depth. The host interface is SPI plus two GPIO lines: HRDY
// (controller ready, input) and RST (reset, output).
package epd

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/kevingessner/luna/paint"
)

// Host to controller commands.
const (
	cmdSysRun      = 0x0001
	cmdStandby     = 0x0002
	cmdSleep       = 0x0003
	cmdRegRead     = 0x0010
	cmdRegWrite    = 0x0011
	cmdLoadImgArea = 0x0021
	cmdLoadImgEnd  = 0x0022
	cmdGetDevInfo  = 0x0302
	cmdDpyArea     = 0x0034
	cmdVCOM        = 0x0039
)

// SPI transaction preambles.
const (
	preambleCmd   = 0x6000
	preambleWrite = 0x0000
	preambleRead  = 0x1000
)

// Controller registers.
const (
	regI80CPCR = 0x0004          // packed write enable
	regLISAR   = 0x0208          // image buffer address, low word
	regUP1SR2  = 0x0138 + 2      // pixel-is-a-bit (1bpp) mode flag
	regBGVR    = 0x0250          // 1bpp black/white pixel values
	regLUTAFSR = 0x1000 + 0x0224 // waveform engine busy flag
)

// Image load settings, packed into the first LoadImgArea argument as
// (endianness << 8) | (format << 4) | rotation.
const (
	endianLittle = 0
	endianBig    = 1

	fmt2bpp = 0
	fmt3bpp = 1
	fmt4bpp = 2
	fmt8bpp = 3

	loadRotate0 = 0
)

// Mode selects the waveform used to refresh the panel.
type Mode uint16

// Supported waveform modes.
const (
	ModeInit Mode = 0 // flash to white, clears ghosting
	ModeDU   Mode = 1 // fast monochrome update
	ModeGC16 Mode = 2 // 16 gray levels, full quality
	ModeA2   Mode = 6 // fastest 1-bit update, leaves ghosting
)

func (m Mode) String() string {
	switch m {
	case ModeInit:
		return "INIT"
	case ModeDU:
		return "DU"
	case ModeGC16:
		return "GC16"
	case ModeA2:
		return "A2"
	default:
		return fmt.Sprintf("Mode(%d)", uint16(m))
	}
}

const (
	readyTimeout   = 5 * time.Second
	displayTimeout = 30 * time.Second
	maxTransfer    = 4096 // spidev default transfer limit, in bytes
)

// DevInfo describes the connected panel, as reported by the controller.
type DevInfo struct {
	Width      int
	Height     int
	BufferAddr uint32
	FWVersion  string
	LUTVersion string
}

const devInfoWords = 20

// parseDevInfo decodes the GetDevInfo response: panel size, the image
// buffer address split over two words low first, and two packed ASCII
// version strings.
func parseDevInfo(w []uint16) (DevInfo, error) {
	if len(w) != devInfoWords {
		return DevInfo{}, fmt.Errorf("epd: device info is %d words, want %d", len(w), devInfoWords)
	}
	return DevInfo{
		Width:      int(w[0]),
		Height:     int(w[1]),
		BufferAddr: uint32(w[3])<<16 | uint32(w[2]),
		FWVersion:  wordString(w[4:12]),
		LUTVersion: wordString(w[12:20]),
	}, nil
}

// wordString decodes the controller's packed ASCII strings: two characters
// per word, low byte first, NUL padded.
func wordString(w []uint16) string {
	b := make([]byte, 0, len(w)*2)
	for _, v := range w {
		b = append(b, byte(v), byte(v>>8))
	}
	return string(bytes.TrimRight(b, "\x00"))
}

// pixelFormat maps a canvas depth to the controller's load format code.
// 1-bit canvases travel through the packed 8bpp pipeline with the
// pixel-is-a-bit register set, so they also report fmt8bpp.
func pixelFormat(d paint.Depth) uint16 {
	switch d {
	case paint.Depth2:
		return fmt2bpp
	case paint.Depth4:
		return fmt4bpp
	default:
		return fmt8bpp
	}
}

// loadArea packs the LoadImgArea arguments: the settings word followed by
// the area geometry.
func loadArea(x, y, w, h int, format uint16) []uint16 {
	settings := uint16(endianLittle)<<8 | format<<4 | loadRotate0
	return []uint16{settings, uint16(x), uint16(y), uint16(w), uint16(h)}
}

// Opts is the device configuration.
type Opts struct {
	// VCOM is the panel voltage printed on the flex cable, e.g. -1.37.
	// Zero keeps the controller's factory value.
	VCOM float64
}

// Dev is a handle to an IT8951 controller.
type Dev struct {
	c      conn.Conn
	hrdy   gpio.PinIn
	rst    gpio.PinOut
	info   DevInfo
	halted bool
}

// New opens the controller on the SPI port p and brings it into the running
// state. hrdy is the controller's ready line, rst its reset line; rst may
// be nil if the board wires reset externally.
func New(p spi.Port, hrdy gpio.PinIn, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}

	c, err := p.Connect(12*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("epd: connecting SPI: %w", err)
	}

	d := &Dev{c: c, hrdy: hrdy, rst: rst}
	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("IT8951 %dx%d", d.info.Width, d.info.Height)
}

// Info returns the panel description read at initialization.
func (d *Dev) Info() DevInfo {
	return d.info
}

// Bounds is the panel bounding box.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.info.Width, d.info.Height)
}

func (d *Dev) init(opts *Opts) error {
	if err := d.reset(); err != nil {
		return err
	}
	if err := d.writeCmd(cmdSysRun); err != nil {
		return err
	}

	if err := d.writeCmd(cmdGetDevInfo); err != nil {
		return err
	}
	words, err := d.readWords(devInfoWords)
	if err != nil {
		return err
	}
	info, err := parseDevInfo(words)
	if err != nil {
		return err
	}
	d.info = info
	logrus.WithFields(logrus.Fields{
		"panel": fmt.Sprintf("%dx%d", info.Width, info.Height),
		"fw":    info.FWVersion,
		"lut":   info.LUTVersion,
	}).Debug("epd: controller up")

	// Enable packed (two pixels per word) host writes.
	if err := d.writeReg(regI80CPCR, 1); err != nil {
		return err
	}

	if opts.VCOM != 0 {
		if err := d.SetVCOM(opts.VCOM); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) reset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("epd: reset: %w", err)
	}
	time.Sleep(100 * time.Millisecond)
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("epd: reset: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("epd: reset: %w", err)
	}
	time.Sleep(100 * time.Millisecond)
	return d.waitReady(readyTimeout)
}

// waitReady blocks until the controller raises HRDY.
func (d *Dev) waitReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for d.hrdy.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return fmt.Errorf("epd: controller not ready after %s", timeout)
		}
		time.Sleep(100 * time.Microsecond)
	}
	return nil
}

// writeWords runs one CS-framed transaction: the preamble followed by words,
// all big endian on the wire.
func (d *Dev) writeWords(preamble uint16, words ...uint16) error {
	if err := d.waitReady(readyTimeout); err != nil {
		return err
	}
	buf := make([]byte, 2+len(words)*2)
	binary.BigEndian.PutUint16(buf, preamble)
	for i, w := range words {
		binary.BigEndian.PutUint16(buf[2+i*2:], w)
	}
	return d.c.Tx(buf, nil)
}

// readWords reads n data words. The controller emits one dummy word after
// the read preamble before the payload.
func (d *Dev) readWords(n int) ([]uint16, error) {
	if err := d.waitReady(readyTimeout); err != nil {
		return nil, err
	}
	out := make([]byte, 4+n*2)
	binary.BigEndian.PutUint16(out, preambleRead)
	in := make([]byte, len(out))
	if err := d.c.Tx(out, in); err != nil {
		return nil, err
	}
	words := make([]uint16, n)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(in[4+i*2:])
	}
	return words, nil
}

func (d *Dev) writeCmd(cmd uint16, args ...uint16) error {
	if err := d.writeWords(preambleCmd, cmd); err != nil {
		return err
	}
	for _, arg := range args {
		if err := d.writeWords(preambleWrite, arg); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) writeReg(reg, value uint16) error {
	return d.writeCmd(cmdRegWrite, reg, value)
}

func (d *Dev) readReg(reg uint16) (uint16, error) {
	if err := d.writeCmd(cmdRegRead, reg); err != nil {
		return 0, err
	}
	w, err := d.readWords(1)
	if err != nil {
		return 0, err
	}
	return w[0], nil
}

// writeData streams packed pixel bytes in spidev-sized chunks, each with its
// own write preamble.
func (d *Dev) writeData(data []byte) error {
	for len(data) > 0 {
		n := len(data)
		if n > maxTransfer-2 {
			n = maxTransfer - 2
		}
		if err := d.waitReady(readyTimeout); err != nil {
			return err
		}
		buf := make([]byte, 2+n)
		binary.BigEndian.PutUint16(buf, preambleWrite)
		copy(buf[2:], data[:n])
		if err := d.c.Tx(buf, nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// setTargetBuffer points the image load pipeline at the controller's frame
// buffer.
func (d *Dev) setTargetBuffer() error {
	addr := d.info.BufferAddr
	if err := d.writeReg(regLISAR+2, uint16(addr>>16)); err != nil {
		return err
	}
	return d.writeReg(regLISAR, uint16(addr))
}

// waitDisplayIdle polls the waveform engine until the previous refresh has
// drained.
func (d *Dev) waitDisplayIdle(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		v, err := d.readReg(regLUTAFSR)
		if err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("epd: display busy after %s", timeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// SetVCOM programs the panel's VCOM voltage in volts, e.g. -1.37. The
// controller takes the magnitude in millivolts.
func (d *Dev) SetVCOM(v float64) error {
	if v > 0 || v < -5 {
		return fmt.Errorf("epd: VCOM %.2f out of range", v)
	}
	return d.writeCmd(cmdVCOM, 1, uint16(-v*1000))
}

// Display transfers the canvas buffer into the controller's frame buffer
// and refreshes the whole panel with the given mode. The buffer is sent in
// its physical layout; the panel remap handles nothing, so the canvas
// memory dimensions must match the panel.
func (d *Dev) Display(c *paint.Canvas, mode Mode) error {
	if err := d.waitDisplayIdle(displayTimeout); err != nil {
		return err
	}
	if err := d.setTargetBuffer(); err != nil {
		return err
	}

	bitmap := c.Depth() == paint.Depth1
	if bitmap {
		// Pixel-is-a-bit mode: the waveform engine expands every bit via
		// the foreground/background values in BGVR.
		v, err := d.readReg(regUP1SR2)
		if err != nil {
			return err
		}
		if err := d.writeReg(regUP1SR2, v|0x04); err != nil {
			return err
		}
		if err := d.writeReg(regBGVR, 0x00f0); err != nil {
			return err
		}
	}

	loadW := c.MemoryWidth()
	if bitmap {
		loadW /= 8
	}
	area := loadArea(0, 0, loadW, c.MemoryHeight(), pixelFormat(c.Depth()))
	if err := d.writeCmd(cmdLoadImgArea, area...); err != nil {
		return err
	}
	if err := d.writeData(c.Pix); err != nil {
		return err
	}
	if err := d.writeCmd(cmdLoadImgEnd); err != nil {
		return err
	}

	if bitmap {
		v, err := d.readReg(regUP1SR2)
		if err != nil {
			return err
		}
		if err := d.writeReg(regUP1SR2, v&^0x04); err != nil {
			return err
		}
	}

	return d.DisplayArea(d.Bounds(), mode)
}

// DisplayArea refreshes the region r of the panel from the controller's
// frame buffer, without reloading image data.
func (d *Dev) DisplayArea(r image.Rectangle, mode Mode) error {
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	logrus.WithFields(logrus.Fields{"area": r, "mode": mode}).Debug("epd: refresh")
	return d.writeCmd(cmdDpyArea,
		uint16(r.Min.X), uint16(r.Min.Y), uint16(r.Dx()), uint16(r.Dy()), uint16(mode))
}

// Clear flashes the whole panel to white using the initialization waveform.
func (d *Dev) Clear() error {
	if err := d.waitDisplayIdle(displayTimeout); err != nil {
		return err
	}
	return d.DisplayArea(d.Bounds(), ModeInit)
}

// Sleep puts the controller into its low power state. New panel operations
// require a reset.
func (d *Dev) Sleep() error {
	return d.writeCmd(cmdSleep)
}

// Close puts the controller to sleep. The SPI port stays owned by the
// caller.
func (d *Dev) Close() error {
	if d.halted {
		return nil
	}
	d.halted = true
	return d.Sleep()
}
