package options

import "github.com/muesli/reflow/wordwrap"

func Wrap80(text string) string {
	return wordwrap.String(text, 80)
}
