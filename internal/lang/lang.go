// Package lang detects which supported language a message is written in.
package lang

import "github.com/abadojack/whatlanggo"

var detectOpts = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{
		whatlanggo.Eng: true,
		whatlanggo.Ben: true,
		whatlanggo.Hin: true,
	},
}

// Detect returns the ISO 639-1 code of the detected language, falling
// back to English for anything outside the supported set.
func Detect(text string) string {
	info := whatlanggo.DetectWithOptions(text, detectOpts)
	switch info.Lang {
	case whatlanggo.Ben:
		return "bn"
	case whatlanggo.Hin:
		return "hi"
	default:
		return "en"
	}
}

// Normalize maps an explicit language code to a supported one, detecting
// from the text when the code is empty or unknown.
func Normalize(code, text string) string {
	switch code {
	case "en", "bn", "hi":
		return code
	default:
		return Detect(text)
	}
}
