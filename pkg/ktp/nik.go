package ktp

import "strings"

var nikConfusions = []*strings.Replacer{
	strings.NewReplacer("!", "1", "l", "1", ")", "1", "L", "1", "|", "1", "]", "1"),
	strings.NewReplacer("b", "6"),
	strings.NewReplacer("?", "7"),
	strings.NewReplacer("D", "0"),
	strings.NewReplacer("B", "8"),
}

// CorrectNIK replaces characters the recognizer commonly confuses with
// digits in the identity number. The passes run in a fixed order.
func CorrectNIK(text string) string {
	for _, r := range nikConfusions {
		text = r.Replace(text)
	}
	return text
}
