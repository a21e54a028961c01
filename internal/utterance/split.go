// Package utterance turns a speech transcript into candidate task titles.
package utterance

import "strings"

// trimSet is stripped from both ends of every segment.
const trimSet = " \t\r.;-"

// separators are folded into commas before splitting.
var separators = strings.NewReplacer("\n", ",", ";", ",")

// Split breaks a transcript into task titles.
//
// Newlines and semicolons count as commas. Each segment is trimmed of
// whitespace and the characters ". ; -" on both ends; segments that end up
// empty or a single character long are dropped. Order is kept and
// duplicates are not removed.
func Split(transcript string) []string {
	raw := strings.Split(separators.Replace(transcript), ",")

	items := make([]string, 0, len(raw))
	for _, seg := range raw {
		seg = strings.Trim(seg, trimSet)
		if len([]rune(seg)) <= 1 {
			continue
		}
		items = append(items, seg)
	}
	return items
}
