package tui

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// TerminalImageProtocol represents the image protocol supported by the terminal
type TerminalImageProtocol int

const (
	ProtocolNone TerminalImageProtocol = iota
	ProtocolKitty
	ProtocolITerm2
)

// previewSize bounds the longer side of a preview, in pixels.
const previewSize = 160

// DetectImageProtocol detects which terminal image protocol is supported.
func DetectImageProtocol() TerminalImageProtocol {
	termProgram := os.Getenv("TERM_PROGRAM")
	term := os.Getenv("TERM")

	switch {
	case strings.Contains(term, "kitty"), termProgram == "ghostty":
		return ProtocolKitty
	case termProgram == "iTerm.app":
		return ProtocolITerm2
	}
	return ProtocolNone
}

// RenderPreview scales image data down to a thumbnail and returns the
// escape sequence that shows it inline, or "" when the terminal cannot
// show images or the data does not decode.
func RenderPreview(data []byte, protocol TerminalImageProtocol) string {
	if protocol == ProtocolNone {
		return ""
	}
	thumb, err := thumbnailPNG(data)
	if err != nil {
		return ""
	}

	encoded := base64.StdEncoding.EncodeToString(thumb)
	switch protocol {
	case ProtocolKitty:
		return kittyChunks(encoded)
	case ProtocolITerm2:
		return fmt.Sprintf("\x1b]1337;File=inline=1:%s\x07", encoded)
	}
	return ""
}

func thumbnailPNG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Fit(img, previewSize, previewSize, imaging.Lanczos)
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// kittyChunks splits the payload into the 4096 byte pieces the kitty
// graphics protocol accepts. The first chunk carries a=T (transmit and
// display) and f=100 (PNG); m=1 marks that more chunks follow.
func kittyChunks(encoded string) string {
	const chunk = 4096
	var b strings.Builder
	for i := 0; i < len(encoded); i += chunk {
		end := min(i+chunk, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}
		if i == 0 {
			fmt.Fprintf(&b, "\x1b_Ga=T,f=100,m=%d;%s\x1b\\", more, encoded[i:end])
		} else {
			fmt.Fprintf(&b, "\x1b_Gm=%d;%s\x1b\\", more, encoded[i:end])
		}
	}
	return b.String()
}
