package led

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// SPI commits frames to a WS2812 chain through periph's NRZ-over-SPI
// encoder. When no SPI port can be opened it falls back to periph's console
// screen drawer so frames stay visible during development off the jacket.
type SPI struct {
	count  int
	hw     bool
	port   spi.PortCloser
	drawer display.Drawer
	img    *image.NRGBA
}

// NewSPI initializes the periph host, opens the first SPI port and attaches
// the pixel device. freqKHz sets the NRZ bit rate; 2500 suits WS2812.
func NewSPI(count, freqKHz int) (*SPI, error) {
	if count < 1 {
		return nil, fmt.Errorf("invalid led count %d", count)
	}
	if freqKHz < 1 {
		freqKHz = 2500
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	s := &SPI{
		count: count,
		img:   image.NewNRGBA(image.Rect(0, 0, count, 1)),
	}
	port, err := spireg.Open("")
	if err != nil {
		s.drawer = screen.New(count)
		return s, nil
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      physic.Frequency(freqKHz) * physic.KiloHertz,
	})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	s.port = port
	s.drawer = dev
	s.hw = true
	return s, nil
}

// Hardware reports whether a real SPI device is attached, as opposed to the
// console fallback.
func (s *SPI) Hardware() bool { return s.hw }

func (s *SPI) Write(rgb []byte) error {
	if len(rgb) != s.count*3 {
		return fmt.Errorf("frame is %d bytes, want %d", len(rgb), s.count*3)
	}
	for i := 0; i < s.count; i++ {
		s.img.SetNRGBA(i, 0, color.NRGBA{R: rgb[i*3], G: rgb[i*3+1], B: rgb[i*3+2], A: 0xFF})
	}
	return s.drawer.Draw(s.drawer.Bounds(), s.img, image.Point{})
}

func (s *SPI) Close() error {
	if s.drawer != nil {
		_ = s.drawer.Halt()
	}
	if s.port != nil {
		return s.port.Close()
	}
	return nil
}
