package text

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextRunes is how much unchanged text is shown around each change
const contextRunes = 24

// Diff renders one line per changed region of before -> after, with a little
// surrounding context. Deleted text is shown as [-x-] and inserted text as {+x+}.
func Diff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)

	var b strings.Builder
	for i := 0; i < len(diffs); {
		if diffs[i].Type == diffmatchpatch.DiffEqual {
			i++
			continue
		}

		if i > 0 {
			b.WriteString(flatten(tail(diffs[i-1].Text, contextRunes)))
		}
		for ; i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual; i++ {
			switch diffs[i].Type {
			case diffmatchpatch.DiffDelete:
				b.WriteString(del.Sprint("[-" + flatten(diffs[i].Text) + "-]"))
			case diffmatchpatch.DiffInsert:
				b.WriteString(ins.Sprint("{+" + flatten(diffs[i].Text) + "+}"))
			}
		}
		if i < len(diffs) {
			b.WriteString(flatten(head(diffs[i].Text, contextRunes)))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n:])
}

func flatten(s string) string {
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(s)
}
