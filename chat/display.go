package chat

import (
	"fmt"
	"unicode/utf16"
)

const (
	colorSaturation = 90
	colorLightness  = 50
)

// StringToHue hashes s into a hue in [0, 360). The hash runs over UTF-16 code
// units with the shift wrapping at 32 bits, so a name gets the same hue as it
// does in the browser.
func StringToHue(s string) int {
	var hash int64
	for _, c := range utf16.Encode([]rune(s)) {
		hash = int64(c) + (int64(int32(hash)<<5) - hash)
	}
	hue := int(hash % 360)
	if hue < 0 {
		hue += 360
	}
	return hue
}

// UserColor is the CSS colour used to render an author's name.
func UserColor(username string) string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", StringToHue(username), colorSaturation, colorLightness)
}

// CanModify reports whether viewer may edit or delete m: only its author can,
// compared case-sensitively.
func CanModify(viewer string, m MessageView) bool {
	return viewer != "" && viewer == m.ClientID
}
