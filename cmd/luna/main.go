package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/kevingessner/luna/draw"
	"github.com/kevingessner/luna/epd"
	"github.com/kevingessner/luna/paint"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}
}

func parseRotation(deg int) (paint.Rotation, error) {
	switch deg {
	case 0:
		return paint.Rotate0, nil
	case 90:
		return paint.Rotate90, nil
	case 180:
		return paint.Rotate180, nil
	case 270:
		return paint.Rotate270, nil
	default:
		return 0, fmt.Errorf("rotation must be 0, 90, 180 or 270, not %d", deg)
	}
}

func parseMirror(s string) (paint.Mirror, error) {
	switch s {
	case "none":
		return paint.MirrorNone, nil
	case "horizontal":
		return paint.MirrorHorizontal, nil
	case "vertical":
		return paint.MirrorVertical, nil
	case "origin":
		return paint.MirrorOrigin, nil
	default:
		return 0, fmt.Errorf("mirror must be none, horizontal, vertical or origin, not %q", s)
	}
}

func parseMode(s string) (epd.Mode, error) {
	switch s {
	case "init":
		return epd.ModeInit, nil
	case "du":
		return epd.ModeDU, nil
	case "gc16":
		return epd.ModeGC16, nil
	case "a2":
		return epd.ModeA2, nil
	default:
		return 0, fmt.Errorf("mode must be init, du, gc16 or a2, not %q", s)
	}
}

// openDev brings up periph and the controller from the global flags. The
// caller must Close the returned device.
func openDev(c *cli.Context) (*epd.Dev, error) {
	if c.Bool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initializing host: %w", err)
	}

	port, err := spireg.Open(c.String("spi"))
	if err != nil {
		return nil, fmt.Errorf("opening SPI port: %w", err)
	}

	hrdy := gpioreg.ByName(c.String("hrdy"))
	if hrdy == nil {
		return nil, fmt.Errorf("no GPIO pin %q", c.String("hrdy"))
	}
	if err := hrdy.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configuring HRDY: %w", err)
	}
	rst := gpioreg.ByName(c.String("rst"))
	if rst == nil {
		return nil, fmt.Errorf("no GPIO pin %q", c.String("rst"))
	}

	return epd.New(port, hrdy, rst, &epd.Opts{VCOM: c.Float64("vcom")})
}

// newCanvas allocates a canvas matching the panel, configured from the
// global flags.
func newCanvas(c *cli.Context, d *epd.Dev) (*paint.Canvas, error) {
	rotation, err := parseRotation(c.Int("rotation"))
	if err != nil {
		return nil, err
	}
	mirror, err := parseMirror(c.String("mirror"))
	if err != nil {
		return nil, err
	}
	depth := paint.Depth(c.Int("depth"))
	if !depth.Valid() {
		return nil, fmt.Errorf("depth must be 1, 2, 4 or 8, not %d", c.Int("depth"))
	}

	info := d.Info()
	// Depth8 is the largest layout, so the buffer fits any depth.
	canvas := paint.New(make([]byte, info.Width*info.Height), info.Width, info.Height, rotation, 0xff)
	canvas.SetDepth(depth)
	canvas.SetMirror(mirror)
	canvas.Clear(canvas.Background())
	return canvas, nil
}

func show(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}
	img, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding %s: %w", c.Args().First(), err)
	}
	logrus.WithFields(logrus.Fields{
		"format": format,
		"size":   img.Bounds().Size(),
	}).Debug("image decoded")

	d, err := openDev(c)
	if err != nil {
		return err
	}
	defer d.Close()

	canvas, err := newCanvas(c, d)
	if err != nil {
		return err
	}
	draw.Image(canvas, canvas.Bounds(), img, canvas.GrayScale())

	mode, err := parseMode(c.String("mode"))
	if err != nil {
		return err
	}
	return d.Display(canvas, mode)
}

func clear(c *cli.Context) error {
	d, err := openDev(c)
	if err != nil {
		return err
	}
	defer d.Close()

	return d.Clear()
}

// testPattern draws shapes and gray ramps that exercise every depth the
// panel loads.
func testPattern(c *cli.Context) error {
	d, err := openDev(c)
	if err != nil {
		return err
	}
	defer d.Close()

	canvas, err := newCanvas(c, d)
	if err != nil {
		return err
	}

	w, h := canvas.Width(), canvas.Height()

	// Gray ramp across the top quarter.
	levels := canvas.GrayScale()
	for i := 0; i < levels; i++ {
		color := uint16(i * 255 / (levels - 1))
		canvas.ClearWindow(i*w/levels, 0, (i+1)*w/levels, h/4, color)
	}

	draw.Rectangle(canvas, image.Rect(2, 2, w-2, h-2), paint.Gray{})
	draw.Line(canvas, image.Pt(0, h/4), image.Pt(w-1, h-1), paint.Gray{})
	draw.Line(canvas, image.Pt(w-1, h/4), image.Pt(0, h-1), paint.Gray{})
	draw.Circle(canvas, image.Pt(w/2, (h/4+h)/2), h/5, paint.Gray{})
	draw.FilledCircle(canvas, image.Pt(w/2, (h/4+h)/2), h/10, paint.Gray{Y: 0x80})

	// Halftone swatches along the bottom edge.
	for i, color := range []uint16{0x0f00, 0x00f0, 0x000f, 0x0fff} {
		for dy := 0; dy < 9; dy += 3 {
			for dx := 0; dx < 9; dx += 3 {
				canvas.SetColorBlock(10+i*12+dx, h-11+dy, color)
			}
		}
	}

	mode, err := parseMode(c.String("mode"))
	if err != nil {
		return err
	}
	if err := d.Clear(); err != nil {
		return err
	}
	return d.Display(canvas, mode)
}

func main() {
	app := cli.NewApp()

	app.Name = "luna"
	app.Usage = "IT8951 e-paper display utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "spi",
			Usage: "SPI port name, empty for the first available",
		},
		&cli.StringFlag{
			Name:  "hrdy",
			Value: "24",
			Usage: "GPIO pin wired to the controller's ready line",
		},
		&cli.StringFlag{
			Name:  "rst",
			Value: "17",
			Usage: "GPIO pin wired to the controller's reset line",
		},
		&cli.Float64Flag{
			Name:  "vcom",
			Value: -1.37,
			Usage: "panel VCOM voltage, printed on the flex cable",
		},
		&cli.IntFlag{
			Name:  "rotation",
			Value: 0,
			Usage: "rotate drawing by 0, 90, 180 or 270 degrees",
		},
		&cli.StringFlag{
			Name:  "mirror",
			Value: "none",
			Usage: "mirror drawing: none, horizontal, vertical or origin",
		},
		&cli.IntFlag{
			Name:  "depth",
			Value: 8,
			Usage: "bits per pixel: 1, 2, 4 or 8",
		},
		&cli.StringFlag{
			Name:  "mode",
			Value: "gc16",
			Usage: "refresh waveform: init, du, gc16 or a2",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			EnvVars: []string{"LUNA_DEBUG"},
			Usage:   "log controller traffic",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "show",
			Usage:     "Dither an image onto the panel",
			ArgsUsage: "IMAGE",
			Action:    show,
		},
		{
			Name:   "clear",
			Usage:  "Flash the panel to white",
			Action: clear,
		},
		{
			Name:   "test",
			Usage:  "Draw a test pattern",
			Action: testPattern,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
